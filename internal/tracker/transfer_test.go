package tracker

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/domain"
)

func TestImportMedicines(t *testing.T) {
	t.Run("valid rows are added, bad time rows skipped", func(t *testing.T) {
		csvData := "name,sched_time,notes\nAspirin,08:00,after food\nBroken,25:99,\n"
		rec, added, err := ImportMedicines(domain.NewUserRecord(), strings.NewReader(csvData))
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		require.Len(t, rec.Medicines, 1)
		assert.Equal(t, "Aspirin", rec.Medicines[0].Name)
		assert.Equal(t, "after food", rec.Medicines[0].Notes)
	})

	t.Run("header columns match case-insensitively", func(t *testing.T) {
		csvData := "Name,Sched_Time\nAspirin,08:00\n"
		rec, added, err := ImportMedicines(domain.NewUserRecord(), strings.NewReader(csvData))
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.Len(t, rec.Medicines, 1)
	})

	t.Run("missing required columns fail the batch", func(t *testing.T) {
		csvData := "name,notes\nAspirin,whatever\n"
		_, added, err := ImportMedicines(domain.NewUserRecord(), strings.NewReader(csvData))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		assert.Zero(t, added)
	})

	t.Run("empty names are skipped like bad times", func(t *testing.T) {
		csvData := "name,sched_time\n,08:00\nValid,09:00\n"
		rec, added, err := ImportMedicines(domain.NewUserRecord(), strings.NewReader(csvData))
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.Equal(t, "Valid", rec.Medicines[0].Name)
	})

	t.Run("notes column is optional", func(t *testing.T) {
		csvData := "name,sched_time\nAspirin,08:00\n"
		rec, added, err := ImportMedicines(domain.NewUserRecord(), strings.NewReader(csvData))
		require.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.Empty(t, rec.Medicines[0].Notes)
	})
}

func TestExportHistory(t *testing.T) {
	rec := domain.NewUserRecord()
	rec.History = []domain.DoseEvent{
		{Date: "2025-03-09", Name: "A", SchedTime: "08:00", Taken: true, TakenTime: "08:02"},
		{Date: "2025-03-10", Name: "B", SchedTime: "12:00", Taken: false},
		{Date: "2025-03-10", Name: "A", SchedTime: "08:00", Taken: true, TakenTime: "08:10"},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportHistory(rec, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,name,sched_time,taken,taken_time", lines[0])
	// Most recent date first, later slot first within a date.
	assert.Equal(t, "2025-03-10,B,12:00,false,", lines[1])
	assert.Equal(t, "2025-03-10,A,08:00,true,08:10", lines[2])
	assert.Equal(t, "2025-03-09,A,08:00,true,08:02", lines[3])
}

func TestExportHistory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportHistory(domain.NewUserRecord(), &buf))
	assert.Equal(t, "date,name,sched_time,taken,taken_time", strings.TrimSpace(buf.String()))
}
