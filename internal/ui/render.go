package ui

import (
	"strings"

	"github.com/bz888/stockchat/internal/chat"
	"github.com/rivo/tview"
)

func formatConversation(messages []chat.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			b.WriteString("[red::]You:[-]\n")
		default:
			b.WriteString("[green::]Bot:[-]\n")
		}
		b.WriteString(tview.Escape(msg.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}
