// Package adherence computes dose statuses, next-dose projections and
// adherence statistics over a user's record. All functions are pure:
// they read the record passed in and never touch storage.
package adherence

import (
	"fmt"
	"math"
	"time"

	"github.com/adherahq/adhera-bot/internal/domain"
	"github.com/adherahq/adhera-bot/internal/timeutil"
)

const (
	// DueSoonLeadMinutes is how long before the scheduled time a dose
	// starts counting as due.
	DueSoonLeadMinutes = 15
	// MissedGraceMinutes is how long after the scheduled time a dose
	// may still be taken before it counts as missed.
	MissedGraceMinutes = 30
)

// findEvent returns the dose event for (date, name, schedTime), if any.
func findEvent(history []domain.DoseEvent, date, name, schedTime string) (domain.DoseEvent, bool) {
	for _, h := range history {
		if h.Date == date && h.Name == name && h.SchedTime == schedTime {
			return h, true
		}
	}
	return domain.DoseEvent{}, false
}

// satisfiedOn reports whether the medicine has a taken event on the
// given date. Matching is by name and scheduled time, not by ID.
func satisfiedOn(med domain.Medicine, history []domain.DoseEvent, date string) bool {
	for _, h := range history {
		if h.Date == date && h.Name == med.Name && h.SchedTime == med.SchedTime && h.Taken {
			return true
		}
	}
	return false
}

// ClassifyDoseStatus determines the status of today's occurrence of a
// medicine. A recorded event always wins over clock inference: a dose
// explicitly marked missed stays missed even before its scheduled time.
func ClassifyDoseStatus(med domain.Medicine, history []domain.DoseEvent, now time.Time) domain.DoseStatus {
	today := now.Format(domain.DateLayout)

	if ev, ok := findEvent(history, today, med.Name, med.SchedTime); ok {
		if ev.Taken {
			return domain.DoseStatus{Kind: domain.StatusTaken, TakenTime: ev.TakenTime}
		}
		return domain.DoseStatus{Kind: domain.StatusMissed}
	}

	nowMins := now.Hour()*60 + now.Minute()
	schedMins := timeutil.TimeOfDayMinutes(med.SchedTime)

	switch {
	case nowMins < schedMins-DueSoonLeadMinutes:
		return domain.DoseStatus{Kind: domain.StatusUpcoming}
	case nowMins <= schedMins+MissedGraceMinutes:
		return domain.DoseStatus{Kind: domain.StatusDueSoon}
	default:
		return domain.DoseStatus{Kind: domain.StatusMissed}
	}
}

// NextDose projects every medicine's next scheduled instant and returns
// the soonest one. A slot already past today wraps to tomorrow; the
// schedule repeats daily without exception. Ties keep the medicine
// listed first. ok is false when no medicine has a parseable time.
func NextDose(medicines []domain.Medicine, now time.Time) (domain.Medicine, time.Time, bool) {
	var (
		best    domain.Medicine
		bestDue time.Time
		found   bool
	)

	for _, med := range medicines {
		t, err := time.Parse(domain.TimeLayout, med.SchedTime)
		if err != nil {
			continue
		}
		due := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if due.Before(now) {
			due = due.Add(24 * time.Hour)
		}
		if !found || due.Before(bestDue) {
			best, bestDue, found = med, due, true
		}
	}

	return best, bestDue, found
}

// HumanizeDelta renders the gap until due as the two coarsest non-zero
// units, e.g. "in 1d 3h", "in 3h 15m", "in 42m". A due instant at or
// before now is "Now".
func HumanizeDelta(due, now time.Time) string {
	if !due.After(now) {
		return "Now"
	}

	delta := due.Sub(now)
	days := int(delta / (24 * time.Hour))
	hours := int(delta%(24*time.Hour)) / int(time.Hour)
	mins := int(delta%time.Hour) / int(time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("in %dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("in %dh %dm", hours, mins)
	case mins > 0:
		return fmt.Sprintf("in %dm", mins)
	default:
		return "in a few moments"
	}
}

// dailyPercent is the fraction of scheduled medicines satisfied on the
// date, as 0-100. An empty medicine list is vacuously fully adherent.
func dailyPercent(medicines []domain.Medicine, history []domain.DoseEvent, date string) float64 {
	if len(medicines) == 0 {
		return 100.0
	}
	taken := 0
	for _, med := range medicines {
		if satisfiedOn(med, history, date) {
			taken++
		}
	}
	return float64(taken) / float64(len(medicines)) * 100
}

// DailyAdherenceSeries returns one adherence percentage per day for the
// daysBack calendar days ending at refDate inclusive, oldest first.
func DailyAdherenceSeries(medicines []domain.Medicine, history []domain.DoseEvent, daysBack int, refDate time.Time) []domain.DayAdherence {
	series := make([]domain.DayAdherence, 0, daysBack)
	for i := daysBack - 1; i >= 0; i-- {
		d := refDate.AddDate(0, 0, -i)
		date := d.Format(domain.DateLayout)
		series = append(series, domain.DayAdherence{
			Date:    date,
			Percent: dailyPercent(medicines, history, date),
		})
	}
	return series
}

// WeeklyAdherence averages the daily adherence ratio over the 7-day
// window ending at refDate inclusive, rounded to one decimal place.
func WeeklyAdherence(medicines []domain.Medicine, history []domain.DoseEvent, refDate time.Time) float64 {
	if len(medicines) == 0 {
		return 100.0
	}
	sum := 0.0
	for i := 6; i >= 0; i-- {
		date := refDate.AddDate(0, 0, -i).Format(domain.DateLayout)
		sum += dailyPercent(medicines, history, date)
	}
	return math.Round(sum/7*10) / 10
}

// MissedToday counts today's missed doses: events recorded not taken
// plus scheduled doses past their time with nothing recorded.
func MissedToday(medicines []domain.Medicine, history []domain.DoseEvent, now time.Time) int {
	today := now.Format(domain.DateLayout)

	missed := 0
	for _, h := range history {
		if h.Date == today && !h.Taken {
			missed++
		}
	}

	for _, med := range medicines {
		t, err := time.Parse(domain.TimeLayout, med.SchedTime)
		if err != nil {
			continue
		}
		sched := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if _, ok := findEvent(history, today, med.Name, med.SchedTime); !ok && sched.Before(now) {
			missed++
		}
	}

	return missed
}
