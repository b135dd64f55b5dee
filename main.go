package main

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"

	"github.com/adherahq/adhera-bot/internal/bot"
	"github.com/adherahq/adhera-bot/internal/bot/handlers"
	"github.com/adherahq/adhera-bot/internal/bot/state"
	"github.com/adherahq/adhera-bot/internal/config"
	"github.com/adherahq/adhera-bot/internal/domain"
	"github.com/adherahq/adhera-bot/internal/logger"
	"github.com/adherahq/adhera-bot/internal/storage"
	"github.com/adherahq/adhera-bot/internal/tracker"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Adhera Bot...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramToken == "" {
		log.Fatalf("TELEGRAM_BOT_TOKEN is required")
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Configuration loaded successfully")

	store, err := newRecordStore(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize %s storage: %v", cfg.Storage.Backend, err)
	}
	logger.Info("Record store initialized", "backend", string(cfg.Storage.Backend))

	stateManager, err := newStateManager(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize state manager: %v", err)
	}

	trackerService := tracker.NewService(store)

	telegramBot, err := bot.NewBot(cfg.TelegramToken, handlers.Dependencies{Tracker: trackerService}, stateManager)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}
	logger.Info("Bot initialized successfully")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := telegramBot.Start(context.Background()); err != nil {
			logger.Errorf("Bot stopped with error: %v", err)
			os.Exit(1)
		}
	}()

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	wg.Wait()
}

// newRecordStore picks the record store for the configured backend.
func newRecordStore(cfg *config.Config) (domain.RecordStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return storage.NewRedisStore(cfg.Redis.Host, cfg.Redis.Port)
	case config.BackendPostgres:
		return storage.NewPostgresStore(cfg.DB)
	default:
		return storage.NewFileStore(cfg.Storage.DataDir)
	}
}

// newStateManager shares conversation state through Redis when that is
// already the storage backend, else keeps it in memory.
func newStateManager(cfg *config.Config) (state.StateManager, error) {
	if cfg.Storage.Backend == config.BackendRedis {
		return state.NewRedisManager(cfg.Redis.Host, cfg.Redis.Port)
	}
	return state.NewManager(), nil
}
