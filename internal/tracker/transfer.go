package tracker

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/domain"
)

// ImportMedicines reads tabular medicine data and adds one medicine per
// valid row. Required columns are "name" and "sched_time" (matched
// case-insensitively), "notes" is optional. Rows with an unparseable
// time or empty name are skipped without failing the batch. Returns the
// updated record and the number of medicines added.
func ImportMedicines(rec domain.UserRecord, r io.Reader) (domain.UserRecord, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return rec, 0, apperrors.NewValidationError("could not read CSV header")
	}

	cols := map[string]int{}
	for i, c := range header {
		cols[strings.ToLower(strings.TrimSpace(c))] = i
	}
	nameIdx, okName := cols["name"]
	timeIdx, okTime := cols["sched_time"]
	if !okName || !okTime {
		return rec, 0, apperrors.NewValidationError("CSV must contain 'name' and 'sched_time' columns")
	}
	notesIdx, hasNotes := cols["notes"]

	field := func(row []string, idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	added := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rec, added, apperrors.NewValidationError("malformed CSV row")
		}

		notes := ""
		if hasNotes {
			notes = field(row, notesIdx)
		}

		next, _, err := AddMedicine(rec, field(row, nameIdx), field(row, timeIdx), notes)
		if err != nil {
			continue // bad row, keep going
		}
		rec = next
		added++
	}

	return rec, added, nil
}

// ExportHistory writes the full dose history as CSV with a header row,
// most recent (date, scheduled time) first.
func ExportHistory(rec domain.UserRecord, w io.Writer) error {
	history := make([]domain.DoseEvent, len(rec.History))
	copy(history, rec.History)
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date > history[j].Date
		}
		return history[i].SchedTime > history[j].SchedTime
	})

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "name", "sched_time", "taken", "taken_time"}); err != nil {
		return err
	}
	for _, h := range history {
		row := []string{h.Date, h.Name, h.SchedTime, strconv.FormatBool(h.Taken), h.TakenTime}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
