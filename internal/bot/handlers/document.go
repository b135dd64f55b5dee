package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/bot/menus"
	"github.com/adherahq/adhera-bot/internal/bot/state"
	"github.com/adherahq/adhera-bot/internal/logger"
)

// DocumentHandler handles uploaded documents for the CSV import flow.
type DocumentHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *DocumentHandler {
	return &DocumentHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes an uploaded document
func (h *DocumentHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	userID := message.From.ID
	chatID := message.Chat.ID

	if h.stateManager.GetUserState(userID) != state.WaitingForCSVDocument {
		msg := tgbotapi.NewMessage(chatID, "I wasn't expecting a file. Choose 📥 Import in the More menu first.")
		_, err := h.api.Send(msg)
		return err
	}

	doc := message.Document
	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".csv") {
		msg := tgbotapi.NewMessage(chatID, "Please send a .csv file.")
		_, err := h.api.Send(msg)
		return err
	}

	file, err := h.api.GetFile(tgbotapi.FileConfig{FileID: doc.FileID})
	if err != nil {
		logger.Error("Failed to resolve uploaded file", "error", err.Error())
		msg := tgbotapi.NewMessage(chatID, "Could not download the file, please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	resp, err := http.Get(file.Link(h.api.Token))
	if err != nil {
		logger.Error("Failed to download uploaded file", "error", err.Error())
		msg := tgbotapi.NewMessage(chatID, "Could not download the file, please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}
	defer resp.Body.Close()

	_, added, err := h.deps.Tracker.ImportCSV(ctx, userKeyFor(h.stateManager, userID), resp.Body)
	if err != nil && !notifyStorageIssue(h.api, chatID, err) {
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) || apperrors.IsType(err, apperrors.ErrorTypeParse) {
			msg := tgbotapi.NewMessage(chatID, "That file could not be imported: "+err.Error())
			_, sendErr := h.api.Send(msg)
			return sendErr
		}
		return err
	}

	h.stateManager.SetUserState(userID, state.None)

	text := fmt.Sprintf("📥 Imported %d medicine(s).", added)
	if added == 0 {
		text = "No valid rows found — nothing was imported."
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		return err
	}
	return menus.SendMainMenu(h.api, chatID)
}
