package ui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bz888/stockchat/internal/chat"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
)

func TestFormatConversation(t *testing.T) {
	out := formatConversation([]chat.Message{
		{Role: chat.RoleUser, Text: "tell me about AAPL"},
		{Role: chat.RoleBot, Text: "Buy AAPL"},
	})

	assert.Equal(t, "[red::]You:[-]\ntell me about AAPL\n\n[green::]Bot:[-]\nBuy AAPL\n\n", out)
	assert.Empty(t, formatConversation(nil))
}

func TestFormatConversationEscapesTags(t *testing.T) {
	out := formatConversation([]chat.Message{{Role: chat.RoleBot, Text: "levels [red] and [blue]"}})
	assert.Contains(t, out, "levels [red[] and [blue[]")
}

func TestLookupCommand(t *testing.T) {
	for _, input := range []string{"/bye", "/quit", " /exit ", "/help", "/debug", "/voice"} {
		_, ok := lookupCommand(input)
		assert.True(t, ok, input)
	}

	cmd, ok := lookupCommand("/quit")
	assert.True(t, ok)
	assert.Equal(t, "/bye", cmd.name)

	for _, input := range []string{"hello", "/unknown", "/help me", "price /bye"} {
		_, ok := lookupCommand(input)
		assert.False(t, ok, input)
	}
}

func TestHelpTextListsCommands(t *testing.T) {
	text := helpText()
	assert.Contains(t, text, "/help: Display this help message")
	assert.Contains(t, text, "/bye, /quit, /exit: Exit the application")
	assert.Contains(t, text, "/debug")
	assert.Contains(t, text, "/voice")
}

func TestTakeInputLeavesBlankInputAlone(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		area := tview.NewTextArea()
		area.SetText(input, true)

		_, ok := takeInput(area)
		assert.False(t, ok, "%q", input)
		assert.Equal(t, input, area.GetText())
	}
}

func TestTakeInputClearsField(t *testing.T) {
	area := tview.NewTextArea()
	area.SetText("  news about NVDA ", true)

	content, ok := takeInput(area)
	assert.True(t, ok)
	assert.Equal(t, "  news about NVDA ", content)
	assert.Empty(t, area.GetText())
}

func TestIsShutdown(t *testing.T) {
	assert.True(t, isShutdown(context.Canceled))
	assert.True(t, isShutdown(fmt.Errorf("send request: %w", context.Canceled)))
	assert.False(t, isShutdown(errors.New("connection refused")))
	assert.False(t, isShutdown(context.DeadlineExceeded))
}
