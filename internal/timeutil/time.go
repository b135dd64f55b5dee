package timeutil

import (
	"time"

	"github.com/adherahq/adhera-bot/internal/domain"
)

// TimeOfDayMinutes converts an "HH:MM" string to minutes since
// midnight. Unparseable input counts as midnight.
func TimeOfDayMinutes(timeStr string) int {
	t, _ := time.Parse(domain.TimeLayout, timeStr)
	return t.Hour()*60 + t.Minute()
}

// ValidTimeOfDay reports whether timeStr is a well-formed 24-hour
// "HH:MM" wall-clock time.
func ValidTimeOfDay(timeStr string) bool {
	_, err := time.Parse(domain.TimeLayout, timeStr)
	return err == nil
}

// FriendlyTime renders "HH:MM" as a 12-hour clock time such as
// "8:05 AM". Unparseable input is returned unchanged.
func FriendlyTime(timeStr string) string {
	t, err := time.Parse(domain.TimeLayout, timeStr)
	if err != nil {
		return timeStr
	}
	return t.Format("3:04 PM")
}
