package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/bot/handlers"
	"github.com/adherahq/adhera-bot/internal/bot/state"
	"github.com/adherahq/adhera-bot/internal/logger"
)

// Bot is the long-polling Telegram frontend.
type Bot struct {
	api      *tgbotapi.BotAPI
	handler  *handlers.UpdateHandler
	errorLog *apperrors.Handler
}

// NewBot creates a new bot instance
func NewBot(token string, deps handlers.Dependencies, stateManager state.StateManager) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Infof("Bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:      api,
		handler:  handlers.NewUpdateHandler(api, deps, stateManager),
		errorLog: apperrors.NewHandler(logger.GetLogger()),
	}, nil
}

// Start runs the update loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	logger.Info("Bot is now listening for updates...")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Bot is shutting down...")
			return ctx.Err()
		case update := <-updates:
			if update.Message != nil {
				logger.Debug("Received message", "user_id", update.Message.From.ID, "text", update.Message.Text)
			}
			if err := b.handler.Handle(ctx, update); err != nil {
				b.errorLog.Handle(ctx, err)
			}
		}
	}
}
