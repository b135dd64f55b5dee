package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adherahq/adhera-bot/internal/adherence"
	"github.com/adherahq/adhera-bot/internal/bot/keyboards"
	"github.com/adherahq/adhera-bot/internal/bot/menus"
	"github.com/adherahq/adhera-bot/internal/bot/state"
	"github.com/adherahq/adhera-bot/internal/domain"
	"github.com/adherahq/adhera-bot/internal/timeutil"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api          *tgbotapi.BotAPI
	deps         Dependencies
	stateManager state.StateManager
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api *tgbotapi.BotAPI, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{
		api:          api,
		deps:         deps,
		stateManager: stateManager,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	// Answer the callback query first
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := h.api.Request(callback); err != nil {
		return err
	}

	chatID := query.Message.Chat.ID
	userID := query.From.ID

	// Per-medicine actions carry the medicine ID in the payload.
	if id, ok := medicineAction(query.Data, "take:"); ok {
		return h.handleMarkDose(ctx, chatID, userID, id, true)
	}
	if id, ok := medicineAction(query.Data, "miss:"); ok {
		return h.handleMarkDose(ctx, chatID, userID, id, false)
	}
	if id, ok := medicineAction(query.Data, "del:"); ok {
		return h.handleDeleteMedicine(ctx, chatID, userID, id)
	}

	switch query.Data {
	case "checklist":
		rec, _ := h.deps.Tracker.Record(ctx, userKeyFor(h.stateManager, userID))
		return menus.SendChecklist(h.api, chatID, rec, time.Now())
	case "medicines":
		rec, _ := h.deps.Tracker.Record(ctx, userKeyFor(h.stateManager, userID))
		return menus.SendMedicineList(h.api, chatID, rec)
	case "adherence":
		rec, _ := h.deps.Tracker.Record(ctx, userKeyFor(h.stateManager, userID))
		return menus.SendAdherence(h.api, chatID, rec, time.Now())
	case "next_dose":
		rec, _ := h.deps.Tracker.Record(ctx, userKeyFor(h.stateManager, userID))
		return menus.SendNextDose(h.api, chatID, rec, time.Now())
	case "history":
		rec, _ := h.deps.Tracker.Record(ctx, userKeyFor(h.stateManager, userID))
		return menus.SendHistory(h.api, chatID, rec)
	case "add_medicine":
		return h.handleAddMedicine(chatID, userID)
	case "skip_notes":
		return finishAddMedicine(ctx, h.api, h.deps, h.stateManager, chatID, userID, "")
	case "take_next":
		return h.handleTakeNext(ctx, chatID, userID)
	case "send_reminder":
		return h.handleSendReminder(chatID)
	case "more":
		h.stateManager.SetUserState(userID, state.None)
		return menus.SendMoreMenu(h.api, chatID)
	case "export_csv":
		return h.handleExportCSV(ctx, chatID, userID)
	case "import_csv":
		return h.handleImportCSV(chatID, userID)
	case "clear_today":
		return h.handleClearToday(chatID)
	case "confirm_clear_today":
		return h.handleConfirmClearToday(ctx, chatID, userID)
	case "reset_all":
		return h.handleResetAll(chatID)
	case "confirm_reset_all":
		return h.handleConfirmResetAll(ctx, chatID, userID)
	case "main_menu":
		h.stateManager.SetUserState(userID, state.None)
		return menus.SendMainMenu(h.api, chatID)
	default:
		return h.handleUnknownCallback(chatID)
	}
}

func medicineAction(data, prefix string) (int, bool) {
	if !strings.HasPrefix(data, prefix) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil {
		return 0, false
	}
	return id, true
}

// handleMarkDose marks today's dose for a medicine taken or missed
func (h *CallbackHandler) handleMarkDose(ctx context.Context, chatID, userID int64, medID int, taken bool) error {
	userKey := userKeyFor(h.stateManager, userID)
	rec, _ := h.deps.Tracker.Record(ctx, userKey)
	med, ok := rec.FindMedicine(medID)
	if !ok {
		msg := tgbotapi.NewMessage(chatID, "That medicine no longer exists.")
		_, err := h.api.Send(msg)
		return err
	}

	var err error
	var text string
	if taken {
		_, err = h.deps.Tracker.MarkTaken(ctx, userKey, med.Name, med.SchedTime)
		text = fmt.Sprintf("✅ %s marked as taken.", med.Name)
	} else {
		_, err = h.deps.Tracker.MarkMissed(ctx, userKey, med.Name, med.SchedTime)
		text = fmt.Sprintf("🔴 %s marked as missed.", med.Name)
	}
	if err != nil && !notifyStorageIssue(h.api, chatID, err) {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	_, sendErr := h.api.Send(msg)
	return sendErr
}

// handleDeleteMedicine removes a medicine from the list
func (h *CallbackHandler) handleDeleteMedicine(ctx context.Context, chatID, userID int64, medID int) error {
	userKey := userKeyFor(h.stateManager, userID)
	rec, _ := h.deps.Tracker.Record(ctx, userKey)
	med, ok := rec.FindMedicine(medID)
	if !ok {
		msg := tgbotapi.NewMessage(chatID, "That medicine was already deleted.")
		_, err := h.api.Send(msg)
		return err
	}

	if _, err := h.deps.Tracker.DeleteMedicine(ctx, userKey, medID); err != nil && !notifyStorageIssue(h.api, chatID, err) {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🗑 Deleted %s (%s).", med.Name, timeutil.FriendlyTime(med.SchedTime)))
	_, err := h.api.Send(msg)
	return err
}

// handleAddMedicine starts the add-medicine form
func (h *CallbackHandler) handleAddMedicine(chatID, userID int64) error {
	h.stateManager.SetUserState(userID, state.WaitingForMedicineName)
	clearFlowData(h.stateManager, userID)

	msg := tgbotapi.NewMessage(chatID, "What is the medicine called? (e.g. Paracetamol)")
	msg.ReplyMarkup = keyboards.CancelFlow()
	_, err := h.api.Send(msg)
	return err
}

// handleTakeNext marks the projected next dose as taken, if due today
func (h *CallbackHandler) handleTakeNext(ctx context.Context, chatID, userID int64) error {
	userKey := userKeyFor(h.stateManager, userID)
	rec, _ := h.deps.Tracker.Record(ctx, userKey)

	now := time.Now()
	med, due, ok := adherence.NextDose(rec.Medicines, now)
	if !ok || due.Format(domain.DateLayout) != now.Format(domain.DateLayout) {
		msg := tgbotapi.NewMessage(chatID, "The next dose is not due today.")
		_, err := h.api.Send(msg)
		return err
	}

	if _, err := h.deps.Tracker.MarkTaken(ctx, userKey, med.Name, med.SchedTime); err != nil && !notifyStorageIssue(h.api, chatID, err) {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ %s marked as taken.", med.Name))
	_, err := h.api.Send(msg)
	return err
}

// handleSendReminder acknowledges the reminder request. Nothing is
// actually delivered anywhere; the action is a confirmation only.
func (h *CallbackHandler) handleSendReminder(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "🔔 Reminder sent (simulation).")
	_, err := h.api.Send(msg)
	return err
}

// handleExportCSV sends the full history as a CSV document
func (h *CallbackHandler) handleExportCSV(ctx context.Context, chatID, userID int64) error {
	var buf bytes.Buffer
	if err := h.deps.Tracker.ExportCSV(ctx, userKeyFor(h.stateManager, userID), &buf); err != nil {
		msg := tgbotapi.NewMessage(chatID, "Could not build the export, please try again.")
		_, sendErr := h.api.Send(msg)
		return sendErr
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "adhera_history.csv",
		Bytes: buf.Bytes(),
	})
	doc.Caption = "Your full dose history."
	_, err := h.api.Send(doc)
	return err
}

// handleImportCSV asks for the CSV document
func (h *CallbackHandler) handleImportCSV(chatID, userID int64) error {
	h.stateManager.SetUserState(userID, state.WaitingForCSVDocument)

	msg := tgbotapi.NewMessage(chatID, "Send a .csv file with columns name, sched_time (HH:MM) and optional notes. Rows with a bad time are skipped.")
	msg.ReplyMarkup = keyboards.CancelFlow()
	_, err := h.api.Send(msg)
	return err
}

// handleClearToday asks for confirmation before clearing today
func (h *CallbackHandler) handleClearToday(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Remove all of today's dose records?")
	msg.ReplyMarkup = keyboards.ConfirmClearToday()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleConfirmClearToday(ctx context.Context, chatID, userID int64) error {
	if _, err := h.deps.Tracker.ClearToday(ctx, userKeyFor(h.stateManager, userID)); err != nil && !notifyStorageIssue(h.api, chatID, err) {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, "🧹 Today's records cleared.")
	if _, err := h.api.Send(msg); err != nil {
		return err
	}
	return menus.SendMainMenu(h.api, chatID)
}

// handleResetAll asks for confirmation before deleting everything
func (h *CallbackHandler) handleResetAll(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "⚠️ This deletes all medicines and the entire history. Continue?")
	msg.ReplyMarkup = keyboards.ConfirmReset()
	_, err := h.api.Send(msg)
	return err
}

func (h *CallbackHandler) handleConfirmResetAll(ctx context.Context, chatID, userID int64) error {
	if _, err := h.deps.Tracker.ResetAll(ctx, userKeyFor(h.stateManager, userID)); err != nil && !notifyStorageIssue(h.api, chatID, err) {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, "🗑 All data cleared.")
	if _, err := h.api.Send(msg); err != nil {
		return err
	}
	return menus.SendMainMenu(h.api, chatID)
}

// handleUnknownCallback handles unknown callbacks
func (h *CallbackHandler) handleUnknownCallback(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Unknown action.")
	_, err := h.api.Send(msg)
	return err
}
