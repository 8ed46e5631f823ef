package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bz888/stockchat/internal/chat"
	"github.com/bz888/stockchat/internal/logger"
	"github.com/bz888/stockchat/internal/speech"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

var app *tview.Application

var (
	pages        *tview.Pages
	mainFlex     *tview.Flex
	debugConsole *tview.TextView
	textView     *tview.TextView
	statusBar    *tview.TextView
	textArea     *tview.TextArea
	localLogger  *logger.Logger

	debugVisible bool
	chatView     *chat.View
	transcriber  *speech.Transcriber

	ctx    context.Context
	cancel context.CancelFunc
)

func Init() {
	app = tview.NewApplication()
	app.EnablePaste(true)
	app.EnableMouse(true)

	debugConsole = initDebugConsole()
	textView = initChatViewer()
	statusBar = tview.NewTextView().SetDynamicColors(true)
	textArea = initChatInput()
}

func initChatViewer() *tview.TextView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetTitle("Conversation").SetBorder(true)
	textView.SetScrollable(true)
	return textView
}

func initChatInput() *tview.TextArea {
	textArea := tview.NewTextArea().SetPlaceholder("Ask about a ticker, or /help")
	textArea.SetTitle("Question").SetBorder(true)
	return textArea
}

func initDebugConsole() *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			app.Draw()
		}).
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

func GetDebugConsole() (*tview.TextView, error) {
	if debugConsole == nil {
		return nil, errors.New("debug console not initialized")
	}
	return debugConsole, nil
}

// Run shows the chat UI until the user quits. view receives typed and spoken
// questions; voice may be disabled.
func Run(view *chat.View, voice *speech.Transcriber, dev bool) error {
	localLogger = logger.NewLogger("views")
	chatView = view
	transcriber = voice
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	chatView.OnAppend(func(chat.Message) {
		// Renders from a snapshot, so queued draws may run in any order.
		go app.QueueUpdateDraw(renderConversation)
	})

	textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyESC:
			app.SetFocus(textArea)
		}
		return event
	})

	subFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(textView, 0, 1, false).
		AddItem(statusBar, 1, 0, false).
		AddItem(textArea, 8, 2, true)
	mainFlex = tview.NewFlex().
		AddItem(subFlex, 0, 2, true)

	if dev {
		mainFlex.AddItem(debugConsole, 0, 1, false)
		debugVisible = true
	}

	setInputCapture()

	pages = tview.NewPages().AddPage("main", mainFlex, true, true)

	renderConversation()
	return app.SetRoot(pages, true).SetFocus(textArea).Run()
}

func setInputCapture() {
	textArea.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyESC:
			if textView.GetText(false) != "" {
				app.SetFocus(textView)
			}
		case tcell.KeyEnter:
			if content, ok := takeInput(textArea); ok {
				submit(content)
			}
			return nil
		}
		return event
	})
}

// takeInput returns the typed text and clears the field. Blank input is left
// untouched.
func takeInput(area *tview.TextArea) (string, bool) {
	content := area.GetText()
	if strings.TrimSpace(content) == "" {
		return "", false
	}
	area.SetText("", true)
	return content, true
}

// submit routes a line of input either to a local command or to the chat view.
func submit(content string) {
	if cmd, ok := lookupCommand(content); ok {
		localLogger.Info("Running command ", cmd.name)
		cmd.run()
		return
	}

	chatView.SetInput(content)
	chatView.Dispatch(ctx, reportSendError)
}

func reportSendError(err error) {
	if isShutdown(err) {
		return
	}
	localLogger.Error("Failed to get a reply: ", err)
}

// isShutdown reports whether err only means the app is quitting.
func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled)
}

func renderConversation() {
	textView.SetText(formatConversation(chatView.Messages()))
	textView.ScrollToEnd()
}

func setStatus(format string, args ...interface{}) {
	statusBar.SetText(fmt.Sprintf(format, args...))
}

func showHelp() {
	modal := tview.NewModal().
		SetText(helpText()).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			pages.RemovePage("help")
			app.SetFocus(textArea)
		})
	pages.AddPage("help", modal, true, true)
}

func toggleDebugConsole() {
	if debugVisible {
		mainFlex.RemoveItem(debugConsole)
		setStatus("Debug console disabled")
	} else {
		mainFlex.AddItem(debugConsole, 0, 1, false)
		setStatus("Debug console enabled")
	}
	debugVisible = !debugVisible
}

func voiceRecognition() {
	if !transcriber.Enabled() {
		setStatus("[yellow]API_KEY is required to enable voice recognition[-]")
		localLogger.Warn("API_KEY is not set, voice recognition is disabled")
		return
	}

	localLogger.Info("Voice recognizer started")
	setStatus("[green]Listening...[-]")
	textArea.SetDisabled(true)

	go func() {
		transcript, err := transcriber.Transcribe(ctx)
		if err != nil {
			localLogger.Error("Failed to process voice: ", err)
		} else {
			localLogger.Info("Voice recognizer completed")
		}

		app.QueueUpdateDraw(func() {
			textArea.SetDisabled(false)
			if err != nil {
				setStatus("[red]%s[-]", tview.Escape(voiceErrorText(err)))
				return
			}
			setStatus("")
			chatView.SetInput(transcript)
			chatView.Dispatch(ctx, reportSendError)
		})
	}()
}

func voiceErrorText(err error) string {
	switch {
	case errors.Is(err, speech.ErrNoSpeech):
		return "No speech detected"
	case errors.Is(err, speech.ErrNoTranscript):
		return "Could not understand that"
	default:
		return "Voice input failed"
	}
}

func quitApp() {
	fmt.Fprintf(textView, "\nBye bye\n")
	cancel()
	localLogger.Info("Shutting down gracefully.")
	localLogger.Close()
	app.Stop()
}
