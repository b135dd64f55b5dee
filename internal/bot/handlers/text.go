package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adherahq/adhera-bot/internal/bot/keyboards"
	"github.com/adherahq/adhera-bot/internal/bot/state"
	"github.com/adherahq/adhera-bot/internal/timeutil"
)

// TextHandler handles plain text messages, which only matter inside the
// add-medicine flow.
type TextHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewTextHandler creates a new text handler
func NewTextHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a text message according to the user's state
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	switch h.stateManager.GetUserState(userID) {
	case state.WaitingForMedicineName:
		return h.handleMedicineName(chatID, userID, text)
	case state.WaitingForMedicineTime:
		return h.handleMedicineTime(chatID, userID, text)
	case state.WaitingForMedicineNotes:
		return finishAddMedicine(ctx, h.api, h.deps, h.stateManager, chatID, userID, text)
	default:
		msg := tgbotapi.NewMessage(chatID, "Please use the menu — /start brings it up.")
		_, err := h.api.Send(msg)
		return err
	}
}

func (h *TextHandler) handleMedicineName(chatID, userID int64, name string) error {
	if name == "" {
		msg := tgbotapi.NewMessage(chatID, "The name can't be empty. What is the medicine called?")
		msg.ReplyMarkup = keyboards.CancelFlow()
		_, err := h.api.Send(msg)
		return err
	}

	h.stateManager.SetTempData(userID, keyPendingMedName, name)
	h.stateManager.SetUserState(userID, state.WaitingForMedicineTime)

	msg := tgbotapi.NewMessage(chatID, "When is it due each day? Use 24-hour HH:MM, e.g. 08:00 or 21:30.")
	msg.ReplyMarkup = keyboards.CancelFlow()
	_, err := h.api.Send(msg)
	return err
}

func (h *TextHandler) handleMedicineTime(chatID, userID int64, schedTime string) error {
	if !timeutil.ValidTimeOfDay(schedTime) {
		msg := tgbotapi.NewMessage(chatID, "That doesn't look like a valid time. Use 24-hour HH:MM, e.g. 08:00.")
		msg.ReplyMarkup = keyboards.CancelFlow()
		_, err := h.api.Send(msg)
		return err
	}

	h.stateManager.SetTempData(userID, keyPendingMedTime, schedTime)
	h.stateManager.SetUserState(userID, state.WaitingForMedicineNotes)

	msg := tgbotapi.NewMessage(chatID, "Any notes? (e.g. \"after food\") Or skip this step.")
	msg.ReplyMarkup = keyboards.SkipNotes()
	_, err := h.api.Send(msg)
	return err
}
