package chat

import (
	"context"
	"strings"
	"sync"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Message struct {
	Role Role
	Text string
}

// Sender performs one request/reply exchange with the chat backend.
type Sender interface {
	SendMessage(ctx context.Context, text string) (string, error)
}

// View holds the pending input and the append-only conversation. It is safe
// for concurrent use; listeners are called outside the lock, in append order
// per goroutine.
type View struct {
	mu        sync.Mutex
	client    Sender
	input     string
	messages  []Message
	listeners []func(Message)
}

func NewView(client Sender) *View {
	return &View{client: client}
}

func (v *View) SetInput(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.input = text
}

func (v *View) Input() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.input
}

// Messages returns a copy of the conversation so far.
func (v *View) Messages() []Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Message, len(v.messages))
	copy(out, v.messages)
	return out
}

// OnAppend registers fn to be called after each message is appended.
func (v *View) OnAppend(fn func(Message)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// Send submits the pending input and blocks until the reply is appended.
// Whitespace-only input is ignored. If the exchange fails the user message
// stays, no bot message is added and the error is returned.
func (v *View) Send(ctx context.Context) error {
	text, ok := v.take()
	if !ok {
		return nil
	}
	return v.exchange(ctx, text)
}

// Dispatch behaves like Send but returns as soon as the user message is
// appended; the exchange continues in the background and any error is passed
// to onErr. Replies to overlapping dispatches land in completion order.
func (v *View) Dispatch(ctx context.Context, onErr func(error)) {
	text, ok := v.take()
	if !ok {
		return
	}
	go func() {
		if err := v.exchange(ctx, text); err != nil && onErr != nil {
			onErr(err)
		}
	}()
}

// take appends the pending input as a user message and clears it.
func (v *View) take() (string, bool) {
	v.mu.Lock()
	text := v.input
	if strings.TrimSpace(text) == "" {
		v.mu.Unlock()
		return "", false
	}
	v.input = ""
	msg := Message{Role: RoleUser, Text: text}
	listeners := v.appendLocked(msg)
	v.mu.Unlock()

	notify(listeners, msg)
	return text, true
}

func (v *View) exchange(ctx context.Context, text string) error {
	reply, err := v.client.SendMessage(ctx, text)
	if err != nil {
		return err
	}

	msg := Message{Role: RoleBot, Text: reply}
	v.mu.Lock()
	listeners := v.appendLocked(msg)
	v.mu.Unlock()

	notify(listeners, msg)
	return nil
}

func (v *View) appendLocked(msg Message) []func(Message) {
	v.messages = append(v.messages, msg)
	listeners := make([]func(Message), len(v.listeners))
	copy(listeners, v.listeners)
	return listeners
}

func notify(listeners []func(Message), msg Message) {
	for _, fn := range listeners {
		fn(msg)
	}
}
