package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/bot/menus"
	"github.com/adherahq/adhera-bot/internal/bot/state"
	"github.com/adherahq/adhera-bot/internal/timeutil"
)

const (
	keyPendingMedName = "med_name"
	keyPendingMedTime = "med_time"
)

// finishAddMedicine completes the add-medicine flow once the notes step
// is answered or skipped.
func finishAddMedicine(ctx context.Context, api *tgbotapi.BotAPI, deps Dependencies, sm state.StateManager, chatID, userID int64, notes string) error {
	name, okName := sm.GetTempData(userID, keyPendingMedName)
	schedTime, okTime := sm.GetTempData(userID, keyPendingMedTime)
	if !okName || !okTime {
		sm.SetUserState(userID, state.None)
		msg := tgbotapi.NewMessage(chatID, "Something went wrong with the form — let's start over.")
		if _, err := api.Send(msg); err != nil {
			return err
		}
		return menus.SendMainMenu(api, chatID)
	}

	_, med, err := deps.Tracker.AddMedicine(ctx, userKeyFor(sm, userID), name, schedTime, notes)
	if err != nil && !notifyStorageIssue(api, chatID, err) {
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			msg := tgbotapi.NewMessage(chatID, "That medicine could not be added: "+err.Error())
			_, sendErr := api.Send(msg)
			return sendErr
		}
		return err
	}

	sm.SetUserState(userID, state.None)
	clearFlowData(sm, userID)

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Added %s at %s", med.Name, timeutil.FriendlyTime(med.SchedTime)))
	if _, err := api.Send(msg); err != nil {
		return err
	}
	return menus.SendMainMenu(api, chatID)
}
