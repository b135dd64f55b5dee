package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adherahq/adhera-bot/internal/bot/menus"
	"github.com/adherahq/adhera-bot/internal/bot/state"
	"github.com/adherahq/adhera-bot/internal/logger"
	"github.com/adherahq/adhera-bot/internal/storage"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	logger.Infof("Handling command %s from user %d", message.Command(), userID)

	switch message.Command() {
	case "start":
		h.stateManager.SetUserState(userID, state.None)
		rec, info := h.deps.Tracker.Record(ctx, userKeyFor(h.stateManager, userID))
		if info.Corrupt {
			logger.Warn("Stored record was corrupt, starting fresh", "user_id", userID)
			msg := tgbotapi.NewMessage(message.Chat.ID, "⚠️ Your saved data could not be read, so we are starting with a fresh record.")
			if _, err := h.api.Send(msg); err != nil {
				return err
			}
		}
		if info.Found && len(rec.Medicines) > 0 {
			msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Welcome back! You are tracking %d medicine(s).", len(rec.Medicines)))
			if _, err := h.api.Send(msg); err != nil {
				return err
			}
		}
		return menus.SendMainMenu(h.api, message.Chat.ID)
	case "name":
		return h.handleName(message)
	case "help":
		return h.handleHelp(message.Chat.ID)
	default:
		return h.handleUnknownCommand(message.Chat.ID)
	}
}

// handleName sets or shows the display name used as storage partition
func (h *CommandHandler) handleName(message *tgbotapi.Message) error {
	userID := message.From.ID
	name := strings.TrimSpace(message.CommandArguments())

	if name == "" {
		current, ok := h.stateManager.GetTempData(userID, keyDisplayName)
		text := "No display name set — your records live under your Telegram account.\nUse /name <your name> to share records across devices."
		if ok && current != "" {
			text = fmt.Sprintf("Current display name: %s (partition %q).", current, storage.UserKey(current))
		}
		msg := tgbotapi.NewMessage(message.Chat.ID, text)
		_, err := h.api.Send(msg)
		return err
	}

	h.stateManager.SetTempData(userID, keyDisplayName, name)
	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Welcome, %s! Your records now live under partition %q.", name, storage.UserKey(name)))
	_, err := h.api.Send(msg)
	return err
}

// handleHelp handles the /help command
func (h *CommandHandler) handleHelp(chatID int64) error {
	text := `Available commands:
/start - Show the main menu
/name <name> - Pick the name your records are stored under
/help - Show this message

How it works:
1. Add your medicines with their daily time (24-hour HH:MM)
2. Open the checklist each day and mark doses Taken or Missed
3. Watch your weekly adherence and 14-day trend grow

You can also bulk-import medicines: send a .csv file with columns name, sched_time (HH:MM) and optional notes after choosing 📥 Import in the More menu.`

	msg := tgbotapi.NewMessage(chatID, text)
	_, err := h.api.Send(msg)
	return err
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Unknown command. Use /help to see what I can do.")
	_, err := h.api.Send(msg)
	return err
}
