package ui

import (
	"fmt"
	"strings"
)

type command struct {
	name        string
	aliases     []string
	description string
	run         func()
}

var commands []command

func init() {
	commands = []command{
		{name: "/help", description: "Display this help message", run: showHelp},
		{name: "/bye", aliases: []string{"/quit", "/exit"}, description: "Exit the application", run: quitApp},
		{name: "/debug", description: "Toggle the debug console", run: toggleDebugConsole},
		{name: "/voice", description: "Ask a question by voice", run: voiceRecognition},
	}
}

func lookupCommand(content string) (command, bool) {
	word := strings.TrimSpace(content)
	for _, cmd := range commands {
		if word == cmd.name {
			return cmd, true
		}
		for _, alias := range cmd.aliases {
			if word == alias {
				return cmd, true
			}
		}
	}
	return command{}, false
}

func helpText() string {
	var b strings.Builder
	b.WriteString("Here are some commands you can use:\n\n")
	for _, cmd := range commands {
		names := append([]string{cmd.name}, cmd.aliases...)
		fmt.Fprintf(&b, "%s: %s\n", strings.Join(names, ", "), cmd.description)
	}
	return b.String()
}
