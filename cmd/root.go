package cmd

import (
	"log"

	"github.com/bz888/stockchat/internal/api"
	"github.com/bz888/stockchat/internal/chat"
	"github.com/bz888/stockchat/internal/config"
	"github.com/bz888/stockchat/internal/logger"
	"github.com/bz888/stockchat/internal/speech"
	"github.com/bz888/stockchat/internal/ui"
)

func init() {
	config.Init()
}

func Execute() {
	cfg, err := config.Load(config.ConfigPath, config.Overrides())
	if err != nil {
		log.Fatal(err)
	}

	ui.Init()
	debugConsole, err := ui.GetDebugConsole()
	if err != nil {
		log.Fatal(err)
	}

	logger.InitLogger(cfg.Log.Dev, cfg.Log.Path, cfg.Log.Level, debugConsole)
	localLogger := logger.NewLogger("main")

	client, err := api.NewClient(api.ClientConfig{
		Endpoint:   cfg.Chat.Endpoint,
		PromptID:   cfg.Chat.PromptID,
		ThreadID:   cfg.Chat.ThreadID,
		ResponseID: cfg.Chat.ResponseID,
		Timeout:    cfg.Chat.Timeout,
	})
	if err != nil {
		log.Fatal(err)
	}
	localLogger.Info("Chat endpoint: ", client.GetChatURL())

	transcriber := speech.New(speech.Options{
		APIKey:         cfg.Speech.APIKey,
		Language:       cfg.Speech.Language,
		ModelPath:      cfg.Speech.ModelPath,
		DumpDir:        cfg.Speech.DumpDir,
		MinVolume:      cfg.Speech.MinVolume,
		SilenceTimeout: cfg.Speech.SilenceTimeout,
		MaxDuration:    cfg.Speech.MaxDuration,
		ListenTimeout:  cfg.Speech.ListenTimeout,
	})
	if !transcriber.Enabled() {
		localLogger.Warn("API_KEY is not set, voice recognition is disabled")
	}

	if err := ui.Run(chat.NewView(client), transcriber, cfg.Log.Dev); err != nil {
		log.Fatal(err)
	}
}
