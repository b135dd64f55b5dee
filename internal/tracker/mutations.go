// Package tracker applies user actions to a UserRecord. The mutation
// functions are pure (record in, new record out); Service wires them to
// a RecordStore so every action is persisted as soon as it is applied.
package tracker

import (
	"strings"
	"time"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/domain"
	"github.com/adherahq/adhera-bot/internal/timeutil"
)

// AddMedicine appends a medicine with the next free ID. The name must
// be non-empty after trimming and the time a valid 24-hour "HH:MM".
func AddMedicine(rec domain.UserRecord, name, schedTime, notes string) (domain.UserRecord, domain.Medicine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return rec, domain.Medicine{}, apperrors.NewValidationError("medicine name must not be empty")
	}
	if !timeutil.ValidTimeOfDay(schedTime) {
		return rec, domain.Medicine{}, apperrors.NewValidationError("scheduled time must be in 24-hour HH:MM format")
	}

	out := rec.Clone()
	med := domain.Medicine{
		ID:        out.NextID,
		Name:      name,
		SchedTime: schedTime,
		Notes:     strings.TrimSpace(notes),
	}
	out.NextID++
	out.Medicines = append(out.Medicines, med)
	return out, med, nil
}

// DeleteMedicine removes the medicine with the given ID. Remaining IDs
// are never renumbered; deleting an absent ID is a no-op.
func DeleteMedicine(rec domain.UserRecord, id int) domain.UserRecord {
	out := rec.Clone()
	meds := out.Medicines[:0]
	for _, m := range out.Medicines {
		if m.ID != id {
			meds = append(meds, m)
		}
	}
	out.Medicines = meds
	return out
}

// MarkTaken upserts today's dose event for (name, schedTime) as taken
// at the current wall-clock time. Calling it again overwrites the
// taken time, leaving a single event for the key.
func MarkTaken(rec domain.UserRecord, name, schedTime string, now time.Time) domain.UserRecord {
	today := now.Format(domain.DateLayout)
	takenAt := now.Format(domain.TimeLayout)

	out := rec.Clone()
	for i, h := range out.History {
		if h.Date == today && h.Name == name && h.SchedTime == schedTime {
			out.History[i].Taken = true
			out.History[i].TakenTime = takenAt
			return out
		}
	}
	out.History = append(out.History, domain.DoseEvent{
		Date:      today,
		Name:      name,
		SchedTime: schedTime,
		Taken:     true,
		TakenTime: takenAt,
	})
	return out
}

// MarkMissed records today's dose for (name, schedTime) as missed, but
// only when no event exists yet: a dose already marked taken is never
// downgraded.
func MarkMissed(rec domain.UserRecord, name, schedTime string, now time.Time) domain.UserRecord {
	today := now.Format(domain.DateLayout)

	for _, h := range rec.History {
		if h.Date == today && h.Name == name && h.SchedTime == schedTime {
			return rec
		}
	}
	out := rec.Clone()
	out.History = append(out.History, domain.DoseEvent{
		Date:      today,
		Name:      name,
		SchedTime: schedTime,
		Taken:     false,
	})
	return out
}

// ClearToday removes every dose event dated today.
func ClearToday(rec domain.UserRecord, today time.Time) domain.UserRecord {
	date := today.Format(domain.DateLayout)

	out := rec.Clone()
	hist := out.History[:0]
	for _, h := range out.History {
		if h.Date != date {
			hist = append(hist, h)
		}
	}
	out.History = hist
	return out
}

// Reset returns a fresh empty record with the ID counter back at 1.
func Reset() domain.UserRecord {
	return domain.NewUserRecord()
}
