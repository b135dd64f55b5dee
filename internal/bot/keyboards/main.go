package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adherahq/adhera-bot/internal/domain"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Today's checklist", "checklist"),
			tgbotapi.NewInlineKeyboardButtonData("➕ Add medicine", "add_medicine"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💊 My medicines", "medicines"),
			tgbotapi.NewInlineKeyboardButtonData("📊 Adherence", "adherence"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Next dose", "next_dose"),
			tgbotapi.NewInlineKeyboardButtonData("🕘 History", "history"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ More", "more"),
		),
	)
}

// MoreMenu creates the import/export and danger-zone keyboard
func MoreMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📤 Export history CSV", "export_csv"),
			tgbotapi.NewInlineKeyboardButtonData("📥 Import medicines CSV", "import_csv"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clear today's records", "clear_today"),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Reset all data", "reset_all"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
}

// DoseRow creates the Taken/Missed buttons for one checklist entry
func DoseRow(med domain.Medicine) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Taken", fmt.Sprintf("take:%d", med.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🔴 Missed", fmt.Sprintf("miss:%d", med.ID)),
		),
	)
}

// MedicineRow creates the delete button for one medicine entry
func MedicineRow(med domain.Medicine) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Delete", fmt.Sprintf("del:%d", med.ID)),
		),
	)
}

// NextDoseMenu creates the next-dose card keyboard
func NextDoseMenu(dueToday bool) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	if dueToday {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Mark next as taken", "take_next"),
			),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
	return keyboard
}

// ReminderMenu creates the missed-dose warning keyboard
func ReminderMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 Send reminder", "send_reminder"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
}

// ConfirmClearToday asks before dropping today's records
func ConfirmClearToday() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, clear today", "confirm_clear_today"),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", "more"),
		),
	)
}

// ConfirmReset asks before deleting all medicines and history
func ConfirmReset() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, delete everything", "confirm_reset_all"),
			tgbotapi.NewInlineKeyboardButtonData("❌ No", "more"),
		),
	)
}

// CancelFlow creates a single cancel-back-to-menu row
func CancelFlow() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", "main_menu"),
		),
	)
}

// SkipNotes lets the user finish the add-medicine flow without notes
func SkipNotes() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip notes", "skip_notes"),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", "main_menu"),
		),
	)
}

// BackToMenu creates a single back-to-menu row
func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", "main_menu"),
		),
	)
}
