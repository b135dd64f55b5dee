package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adherahq/adhera-bot/internal/domain"
)

func day(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestClassifyDoseStatus_TimeWindows(t *testing.T) {
	med := domain.Medicine{ID: 1, Name: "Aspirin", SchedTime: "08:00"}

	tests := []struct {
		name string
		now  time.Time
		want domain.StatusKind
	}{
		{"just after scheduled time", day(8, 10), domain.StatusDueSoon},
		{"past the grace period", day(9, 0), domain.StatusMissed},
		{"within the pre-window", day(7, 50), domain.StatusDueSoon},
		{"well before scheduled time", day(7, 30), domain.StatusUpcoming},
		{"exactly at grace boundary", day(8, 30), domain.StatusDueSoon},
		{"one minute past grace", day(8, 31), domain.StatusMissed},
		{"exactly at pre-window boundary", day(7, 45), domain.StatusDueSoon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDoseStatus(med, nil, tt.now)
			assert.Equal(t, tt.want, got.Kind)
		})
	}
}

func TestClassifyDoseStatus_RecordedEventWins(t *testing.T) {
	med := domain.Medicine{ID: 1, Name: "Aspirin", SchedTime: "08:00"}
	today := day(12, 0).Format(domain.DateLayout)

	takenHistory := []domain.DoseEvent{
		{Date: today, Name: "Aspirin", SchedTime: "08:00", Taken: true, TakenTime: "08:05"},
	}

	// Taken stays taken no matter how late the clock is.
	got := ClassifyDoseStatus(med, takenHistory, day(23, 59))
	assert.Equal(t, domain.StatusTaken, got.Kind)
	assert.Equal(t, "08:05", got.TakenTime)

	// An explicit missed mark wins even before the scheduled time.
	missedHistory := []domain.DoseEvent{
		{Date: today, Name: "Aspirin", SchedTime: "08:00", Taken: false},
	}
	got = ClassifyDoseStatus(med, missedHistory, day(6, 0))
	assert.Equal(t, domain.StatusMissed, got.Kind)
	assert.Empty(t, got.TakenTime)
}

func TestClassifyDoseStatus_EventFromOtherDayIgnored(t *testing.T) {
	med := domain.Medicine{ID: 1, Name: "Aspirin", SchedTime: "08:00"}
	history := []domain.DoseEvent{
		{Date: "2025-03-09", Name: "Aspirin", SchedTime: "08:00", Taken: true, TakenTime: "08:01"},
	}

	got := ClassifyDoseStatus(med, history, day(9, 0))
	assert.Equal(t, domain.StatusMissed, got.Kind)
}

func TestNextDose(t *testing.T) {
	t.Run("empty medicine list", func(t *testing.T) {
		_, _, ok := NextDose(nil, day(8, 0))
		assert.False(t, ok)
	})

	t.Run("picks the soonest slot today", func(t *testing.T) {
		meds := []domain.Medicine{
			{ID: 1, Name: "Evening", SchedTime: "20:00"},
			{ID: 2, Name: "Noon", SchedTime: "12:00"},
		}
		med, due, ok := NextDose(meds, day(9, 0))
		require.True(t, ok)
		assert.Equal(t, "Noon", med.Name)
		assert.Equal(t, day(12, 0), due)
	})

	t.Run("wraps a passed slot to tomorrow", func(t *testing.T) {
		meds := []domain.Medicine{{ID: 1, Name: "Morning", SchedTime: "08:00"}}
		med, due, ok := NextDose(meds, day(9, 0))
		require.True(t, ok)
		assert.Equal(t, "Morning", med.Name)
		assert.Equal(t, day(8, 0).Add(24*time.Hour), due)
		assert.False(t, due.Before(day(9, 0)))
	})

	t.Run("now equal to the slot counts as due today", func(t *testing.T) {
		meds := []domain.Medicine{{ID: 1, Name: "Morning", SchedTime: "08:00"}}
		_, due, ok := NextDose(meds, day(8, 0))
		require.True(t, ok)
		assert.Equal(t, day(8, 0), due)
	})

	t.Run("ties keep the first listed medicine", func(t *testing.T) {
		meds := []domain.Medicine{
			{ID: 1, Name: "First", SchedTime: "12:00"},
			{ID: 2, Name: "Second", SchedTime: "12:00"},
		}
		med, _, ok := NextDose(meds, day(9, 0))
		require.True(t, ok)
		assert.Equal(t, "First", med.Name)
	})

	t.Run("unparseable times are skipped", func(t *testing.T) {
		meds := []domain.Medicine{
			{ID: 1, Name: "Broken", SchedTime: "25:99"},
			{ID: 2, Name: "Valid", SchedTime: "10:00"},
		}
		med, _, ok := NextDose(meds, day(9, 0))
		require.True(t, ok)
		assert.Equal(t, "Valid", med.Name)

		_, _, ok = NextDose(meds[:1], day(9, 0))
		assert.False(t, ok)
	})
}

func TestHumanizeDelta(t *testing.T) {
	now := day(8, 0)

	tests := []struct {
		name string
		due  time.Time
		want string
	}{
		{"due in the past", day(7, 0), "Now"},
		{"due right now", now, "Now"},
		{"under a minute", now.Add(30 * time.Second), "in a few moments"},
		{"minutes only", now.Add(42 * time.Minute), "in 42m"},
		{"hours and minutes", now.Add(3*time.Hour + 15*time.Minute), "in 3h 15m"},
		{"days and hours", now.Add(26*time.Hour + 40*time.Minute), "in 1d 2h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanizeDelta(tt.due, now))
		})
	}
}

func TestWeeklyAdherence(t *testing.T) {
	refDate := day(21, 0)
	today := refDate.Format(domain.DateLayout)

	t.Run("empty medicine list is fully adherent", func(t *testing.T) {
		assert.Equal(t, 100.0, WeeklyAdherence(nil, nil, refDate))
	})

	t.Run("one of two taken today, prior days empty", func(t *testing.T) {
		meds := []domain.Medicine{
			{ID: 1, Name: "A", SchedTime: "08:00"},
			{ID: 2, Name: "B", SchedTime: "20:00"},
		}
		history := []domain.DoseEvent{
			{Date: today, Name: "A", SchedTime: "08:00", Taken: true, TakenTime: "08:02"},
		}
		// Six prior days contribute 0 each, today contributes 50.
		assert.Equal(t, 7.1, WeeklyAdherence(meds, history, refDate))
	})

	t.Run("perfect week", func(t *testing.T) {
		meds := []domain.Medicine{{ID: 1, Name: "A", SchedTime: "08:00"}}
		var history []domain.DoseEvent
		for i := 0; i < 7; i++ {
			history = append(history, domain.DoseEvent{
				Date:      refDate.AddDate(0, 0, -i).Format(domain.DateLayout),
				Name:      "A",
				SchedTime: "08:00",
				Taken:     true,
				TakenTime: "08:00",
			})
		}
		assert.Equal(t, 100.0, WeeklyAdherence(meds, history, refDate))
	})

	t.Run("missed events do not count", func(t *testing.T) {
		meds := []domain.Medicine{{ID: 1, Name: "A", SchedTime: "08:00"}}
		history := []domain.DoseEvent{
			{Date: today, Name: "A", SchedTime: "08:00", Taken: false},
		}
		assert.Equal(t, 0.0, WeeklyAdherence(meds, history, refDate))
	})
}

func TestDailyAdherenceSeries(t *testing.T) {
	refDate := day(12, 0)

	t.Run("empty medicines give a flat 100 line", func(t *testing.T) {
		series := DailyAdherenceSeries(nil, nil, 14, refDate)
		require.Len(t, series, 14)
		for _, p := range series {
			assert.Equal(t, 100.0, p.Percent)
		}
	})

	t.Run("oldest first, reference date last", func(t *testing.T) {
		series := DailyAdherenceSeries(nil, nil, 14, refDate)
		require.Len(t, series, 14)
		assert.Equal(t, refDate.AddDate(0, 0, -13).Format(domain.DateLayout), series[0].Date)
		assert.Equal(t, refDate.Format(domain.DateLayout), series[13].Date)
	})

	t.Run("matching is by name and scheduled time", func(t *testing.T) {
		meds := []domain.Medicine{{ID: 1, Name: "A", SchedTime: "08:00"}}
		history := []domain.DoseEvent{
			// Same name, wrong slot: does not satisfy the schedule.
			{Date: refDate.Format(domain.DateLayout), Name: "A", SchedTime: "09:00", Taken: true, TakenTime: "09:00"},
		}
		series := DailyAdherenceSeries(meds, history, 1, refDate)
		require.Len(t, series, 1)
		assert.Equal(t, 0.0, series[0].Percent)
	})
}

func TestMissedToday(t *testing.T) {
	now := day(21, 0)
	today := now.Format(domain.DateLayout)

	meds := []domain.Medicine{
		{ID: 1, Name: "A", SchedTime: "08:00"},
		{ID: 2, Name: "B", SchedTime: "20:00"},
		{ID: 3, Name: "C", SchedTime: "23:00"},
	}

	t.Run("nothing recorded, two slots passed", func(t *testing.T) {
		assert.Equal(t, 2, MissedToday(meds, nil, now))
	})

	t.Run("recorded missed replaces the inferred one", func(t *testing.T) {
		history := []domain.DoseEvent{
			{Date: today, Name: "A", SchedTime: "08:00", Taken: false},
		}
		// A counts once as a recorded miss, B once as an inferred miss.
		assert.Equal(t, 2, MissedToday(meds, history, now))
	})

	t.Run("all taken means none missed", func(t *testing.T) {
		history := []domain.DoseEvent{
			{Date: today, Name: "A", SchedTime: "08:00", Taken: true, TakenTime: "08:00"},
			{Date: today, Name: "B", SchedTime: "20:00", Taken: true, TakenTime: "20:10"},
		}
		assert.Equal(t, 0, MissedToday(meds, history, now))
	})
}
