package menus

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/adherahq/adhera-bot/internal/adherence"
	"github.com/adherahq/adhera-bot/internal/bot/keyboards"
	"github.com/adherahq/adhera-bot/internal/domain"
	"github.com/adherahq/adhera-bot/internal/timeutil"
)

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api *tgbotapi.BotAPI, chatID int64) error {
	text := `🌿 *Adhera* — your daily health companion

Track your medicines, mark doses taken or missed, and keep an eye on your adherence.

Choose an action:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendMoreMenu sends the import/export and danger-zone menu
func SendMoreMenu(api *tgbotapi.BotAPI, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "More actions:")
	msg.ReplyMarkup = keyboards.MoreMenu()
	_, err := api.Send(msg)
	return err
}

func statusLine(med domain.Medicine, status domain.DoseStatus) string {
	when := timeutil.FriendlyTime(med.SchedTime)
	switch status.Kind {
	case domain.StatusTaken:
		return fmt.Sprintf("✅ *%s* — %s (Taken at %s)", med.Name, when, status.TakenTime)
	case domain.StatusMissed:
		return fmt.Sprintf("🔴 *%s* — %s (Missed)", med.Name, when)
	case domain.StatusDueSoon:
		return fmt.Sprintf("⚪ *%s* — %s (Due now/soon)", med.Name, when)
	default:
		return fmt.Sprintf("🟡 *%s* — %s (Upcoming)", med.Name, when)
	}
}

// SendChecklist sends today's checklist: one entry per medicine, sorted
// by scheduled time, each with Taken/Missed buttons.
func SendChecklist(api *tgbotapi.BotAPI, chatID int64, rec domain.UserRecord, now time.Time) error {
	if len(rec.Medicines) == 0 {
		msg := tgbotapi.NewMessage(chatID, "No medicines added yet. Use ➕ Add medicine or import a CSV.")
		msg.ReplyMarkup = keyboards.BackToMenu()
		_, err := api.Send(msg)
		return err
	}

	header := tgbotapi.NewMessage(chatID, fmt.Sprintf("📋 *Today's checklist* — %s", now.Format("Mon 02 Jan")))
	header.ParseMode = "Markdown"
	if _, err := api.Send(header); err != nil {
		return err
	}

	meds := make([]domain.Medicine, len(rec.Medicines))
	copy(meds, rec.Medicines)
	sort.SliceStable(meds, func(i, j int) bool { return meds[i].SchedTime < meds[j].SchedTime })

	for _, med := range meds {
		status := adherence.ClassifyDoseStatus(med, rec.History, now)
		text := statusLine(med, status)
		if med.Notes != "" {
			text += fmt.Sprintf("\n_%s_", med.Notes)
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = "Markdown"
		msg.ReplyMarkup = keyboards.DoseRow(med)
		if _, err := api.Send(msg); err != nil {
			return err
		}
	}

	missed := adherence.MissedToday(rec.Medicines, rec.History, now)
	if missed > 0 {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("⚠️ You have %d missed dose(s) today.", missed))
		msg.ReplyMarkup = keyboards.ReminderMenu()
		_, err := api.Send(msg)
		return err
	}

	msg := tgbotapi.NewMessage(chatID, "✅ No missed doses detected today.")
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := api.Send(msg)
	return err
}

// SendMedicineList sends the medicine list with delete buttons
func SendMedicineList(api *tgbotapi.BotAPI, chatID int64, rec domain.UserRecord) error {
	if len(rec.Medicines) == 0 {
		msg := tgbotapi.NewMessage(chatID, "No medicines yet. Add one or import a CSV.")
		msg.ReplyMarkup = keyboards.BackToMenu()
		_, err := api.Send(msg)
		return err
	}

	for _, med := range rec.Medicines {
		text := fmt.Sprintf("💊 *%s* — %s", med.Name, timeutil.FriendlyTime(med.SchedTime))
		if med.Notes != "" {
			text += fmt.Sprintf("\n_%s_", med.Notes)
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = "Markdown"
		msg.ReplyMarkup = keyboards.MedicineRow(med)
		if _, err := api.Send(msg); err != nil {
			return err
		}
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%d medicine(s) total.", len(rec.Medicines)))
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := api.Send(msg)
	return err
}

func progressBar(percent float64) string {
	filled := int(percent) / 10
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled)
}

func encouragement(percent float64) (string, string) {
	switch {
	case percent >= 90:
		return "Outstanding — keep it up!", "Your consistency is excellent. Small daily steps create big health wins."
	case percent >= 75:
		return "Great job!", "You're staying steady — keep following the routine and celebrate progress."
	case percent >= 50:
		return "You're doing well", "Good progress. Try small reminders to make it even easier to stay consistent."
	default:
		return "Let's improve together", "Little changes help — set one reminder or ask a family member to help you today."
	}
}

// SendAdherence sends the weekly adherence card and the 14-day trend
func SendAdherence(api *tgbotapi.BotAPI, chatID int64, rec domain.UserRecord, now time.Time) error {
	weekly := adherence.WeeklyAdherence(rec.Medicines, rec.History, now)
	title, message := encouragement(weekly)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Weekly adherence: %.1f%%*\n%s\n\n", weekly, progressBar(weekly))
	fmt.Fprintf(&b, "*%s*\n%s\n\n", title, message)

	b.WriteString("*Last 14 days:*\n```\n")
	series := adherence.DailyAdherenceSeries(rec.Medicines, rec.History, 14, now)
	for _, p := range series {
		d, err := time.Parse(domain.DateLayout, p.Date)
		label := p.Date
		if err == nil {
			label = d.Format("Jan 02")
		}
		bar := strings.Repeat("█", int(p.Percent)/10)
		fmt.Fprintf(&b, "%s %-10s %3.0f%%\n", label, bar, p.Percent)
	}
	b.WriteString("```")

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"

	missed := adherence.MissedToday(rec.Medicines, rec.History, now)
	if missed > 0 {
		msg.ReplyMarkup = keyboards.ReminderMenu()
	} else {
		msg.ReplyMarkup = keyboards.BackToMenu()
	}
	_, err := api.Send(msg)
	return err
}

// SendNextDose sends the next-dose card with a humanized countdown
func SendNextDose(api *tgbotapi.BotAPI, chatID int64, rec domain.UserRecord, now time.Time) error {
	med, due, ok := adherence.NextDose(rec.Medicines, now)
	if !ok {
		msg := tgbotapi.NewMessage(chatID, "No scheduled medicines to compute the next dose.")
		msg.ReplyMarkup = keyboards.BackToMenu()
		_, err := api.Send(msg)
		return err
	}

	text := fmt.Sprintf("⏭ *Next dose:* %s — %s\n*When:* %s — *%s*",
		med.Name,
		timeutil.FriendlyTime(med.SchedTime),
		due.Format("Mon 02 Jan 3:04 PM"),
		adherence.HumanizeDelta(due, now),
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.NextDoseMenu(due.Format(domain.DateLayout) == now.Format(domain.DateLayout))
	_, err := api.Send(msg)
	return err
}

// SendHistory sends the dose history, most recent first
func SendHistory(api *tgbotapi.BotAPI, chatID int64, rec domain.UserRecord) error {
	if len(rec.History) == 0 {
		msg := tgbotapi.NewMessage(chatID, "No history yet. Mark doses to build records.")
		msg.ReplyMarkup = keyboards.BackToMenu()
		_, err := api.Send(msg)
		return err
	}

	history := make([]domain.DoseEvent, len(rec.History))
	copy(history, rec.History)
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date > history[j].Date
		}
		return history[i].SchedTime > history[j].SchedTime
	})

	// Telegram message limit; the CSV export has the full history.
	const maxRows = 30
	truncated := false
	if len(history) > maxRows {
		history = history[:maxRows]
		truncated = true
	}

	var b strings.Builder
	b.WriteString("🕘 *History (recent first):*\n```\n")
	for _, h := range history {
		outcome := "missed"
		if h.Taken {
			outcome = "taken " + h.TakenTime
		}
		fmt.Fprintf(&b, "%s %s %s — %s\n", h.Date, h.SchedTime, h.Name, outcome)
	}
	b.WriteString("```")
	if truncated {
		b.WriteString("\nShowing the latest entries; export the CSV for everything.")
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.BackToMenu()
	_, err := api.Send(msg)
	return err
}
