package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/bot/state"
	"github.com/adherahq/adhera-bot/internal/domain"
	"github.com/adherahq/adhera-bot/internal/logger"
	"github.com/adherahq/adhera-bot/internal/storage"
)

const keyDisplayName = "display_name"

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Tracker domain.TrackerService
}

// userKeyFor resolves the storage partition for a Telegram user: the
// normalized display name when one was set, else the Telegram ID.
func userKeyFor(sm state.StateManager, userID int64) string {
	if name, ok := sm.GetTempData(userID, keyDisplayName); ok && strings.TrimSpace(name) != "" {
		return storage.UserKey(name)
	}
	return fmt.Sprintf("tg-%d", userID)
}

// clearFlowData drops in-progress conversation data while keeping the
// chosen display name, which outlives any single flow.
func clearFlowData(sm state.StateManager, userID int64) {
	name, ok := sm.GetTempData(userID, keyDisplayName)
	sm.ClearTempData(userID)
	if ok {
		sm.SetTempData(userID, keyDisplayName, name)
	}
}

// notifyStorageIssue tells the user a save failed but the session
// continues from memory. Returns true when err was a storage error.
func notifyStorageIssue(api *tgbotapi.BotAPI, chatID int64, err error) bool {
	if err == nil || !apperrors.IsType(err, apperrors.ErrorTypeStorage) {
		return false
	}
	logger.Warn("Record save failed", "error", err.Error())
	msg := tgbotapi.NewMessage(chatID, "⚠️ Could not save your data just now. Your changes are kept for this session — try again in a moment.")
	if _, sendErr := api.Send(msg); sendErr != nil {
		logger.Warn("Failed to send storage warning", "error", sendErr.Error())
	}
	return true
}
