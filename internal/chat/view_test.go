package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendMessage(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func TestSendAppendsUserThenBot(t *testing.T) {
	sender := new(MockSender)
	sender.On("SendMessage", mock.Anything, "  what about TSLA?  ").Return("Buy AAPL", nil).Once()

	view := NewView(sender)
	view.SetInput("  what about TSLA?  ")

	require.NoError(t, view.Send(context.Background()))

	assert.Equal(t, []Message{
		{Role: RoleUser, Text: "  what about TSLA?  "},
		{Role: RoleBot, Text: "Buy AAPL"},
	}, view.Messages())
	assert.Empty(t, view.Input())
	sender.AssertExpectations(t)
}

func TestSendIgnoresBlankInput(t *testing.T) {
	for _, input := range []string{"", " ", "\t\n  "} {
		sender := new(MockSender)
		view := NewView(sender)
		view.SetInput(input)

		require.NoError(t, view.Send(context.Background()))

		assert.Empty(t, view.Messages())
		assert.Equal(t, input, view.Input())
		sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
	}
}

func TestUserMessageAppendedBeforeRequest(t *testing.T) {
	var view *View
	sender := new(MockSender)
	sender.On("SendMessage", mock.Anything, "news about NVDA").
		Run(func(args mock.Arguments) {
			assert.Equal(t, []Message{{Role: RoleUser, Text: "news about NVDA"}}, view.Messages())
			assert.Empty(t, view.Input())
		}).
		Return("headlines", nil)

	view = NewView(sender)
	view.SetInput("news about NVDA")
	require.NoError(t, view.Send(context.Background()))
	assert.Len(t, view.Messages(), 2)
}

func TestSendFailureKeepsOnlyUserMessage(t *testing.T) {
	boom := errors.New("connection refused")
	sender := new(MockSender)
	sender.On("SendMessage", mock.Anything, "hello").Return("", boom)

	view := NewView(sender)
	view.SetInput("hello")

	err := view.Send(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []Message{{Role: RoleUser, Text: "hello"}}, view.Messages())
}

func TestOnAppendSeesEveryMessage(t *testing.T) {
	sender := new(MockSender)
	sender.On("SendMessage", mock.Anything, "hi").Return("hello there", nil)

	view := NewView(sender)
	var seen []Message
	view.OnAppend(func(m Message) { seen = append(seen, m) })

	view.SetInput("hi")
	require.NoError(t, view.Send(context.Background()))

	assert.Equal(t, view.Messages(), seen)
}

// gatedSender releases each reply only when its gate is closed.
type gatedSender struct {
	gates map[string]chan struct{}
}

func (g *gatedSender) SendMessage(ctx context.Context, text string) (string, error) {
	<-g.gates[text]
	return "re: " + text, nil
}

func TestDispatchRepliesMayInterleave(t *testing.T) {
	sender := &gatedSender{gates: map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}}
	view := NewView(sender)

	var wg sync.WaitGroup
	wg.Add(2)
	view.OnAppend(func(m Message) {
		if m.Role == RoleBot {
			wg.Done()
		}
	})

	view.SetInput("first")
	view.Dispatch(context.Background(), nil)
	view.SetInput("second")
	view.Dispatch(context.Background(), nil)

	// Both user messages are visible immediately, in send order.
	assert.Equal(t, []Message{
		{Role: RoleUser, Text: "first"},
		{Role: RoleUser, Text: "second"},
	}, view.Messages())

	close(sender.gates["second"])
	require.Eventually(t, func() bool { return len(view.Messages()) == 3 }, time.Second, 5*time.Millisecond)
	close(sender.gates["first"])
	wg.Wait()

	assert.Equal(t, []Message{
		{Role: RoleUser, Text: "first"},
		{Role: RoleUser, Text: "second"},
		{Role: RoleBot, Text: "re: second"},
		{Role: RoleBot, Text: "re: first"},
	}, view.Messages())
}

func TestDispatchReportsErrors(t *testing.T) {
	boom := errors.New("no route to host")
	sender := new(MockSender)
	sender.On("SendMessage", mock.Anything, "hello").Return("", boom)

	view := NewView(sender)
	view.SetInput("hello")

	errCh := make(chan error, 1)
	view.Dispatch(context.Background(), func(err error) { errCh <- err })

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("dispatch error not reported")
	}
	assert.Len(t, view.Messages(), 1)
}

func TestDispatchIgnoresBlankInput(t *testing.T) {
	sender := new(MockSender)
	view := NewView(sender)
	view.SetInput("   ")

	view.Dispatch(context.Background(), func(error) { t.Error("unexpected error callback") })

	assert.Empty(t, view.Messages())
	sender.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}
