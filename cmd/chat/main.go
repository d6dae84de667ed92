package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/academic-chat/internal/backend"
	"github.com/Rrens/academic-chat/internal/config"
	"github.com/Rrens/academic-chat/internal/logger"
	"github.com/Rrens/academic-chat/internal/service"
	"github.com/Rrens/academic-chat/internal/store"
	"github.com/Rrens/academic-chat/internal/tui"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// defaultLogFile keeps log output off the terminal while the UI owns it
const defaultLogFile = "logs/chat.log"

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.Logging.File == "" {
		cfg.Logging.File = defaultLogFile
	}
	closer, err := logger.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	log.Info().
		Str("backend", cfg.Backend.BaseURL).
		Bool("remote_sessions", cfg.Backend.RemoteSessions).
		Msg("Starting academic chat")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := backend.NewClient(cfg.Backend)
	st := store.New()
	docs := service.NewDocumentService(client, service.NewDocumentValidator(cfg.Upload.MaxSize))
	chat := service.NewChatService(st, client, service.ChatOptions{
		BaseURL:        client.BaseURL(),
		RemoteSessions: cfg.Backend.RemoteSessions,
		ContextSource:  docs.ReadyDocumentIDs,
	})

	if _, err := chat.SyncConversations(ctx); err != nil {
		log.Warn().Err(err).Msg("Starting without remote conversation history")
	}

	model := tui.New(ctx, chat, docs, st.Subscribe(), tui.Settings{
		BaseURL:        client.BaseURL(),
		RemoteSessions: cfg.Backend.RemoteSessions,
		MaxUploadSize:  cfg.Upload.MaxSize,
		MarkdownStyle:  cfg.UI.MarkdownStyle,
		LogFile:        cfg.Logging.File,
	})

	if err := tui.Run(model); err != nil {
		log.Error().Err(err).Msg("UI exited with error")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closer.Close()
		os.Exit(1)
	}

	log.Info().Msg("Academic chat stopped")
}
