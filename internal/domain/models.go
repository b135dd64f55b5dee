package domain

// TimeLayout is the wall-clock format used for scheduled and taken times.
const TimeLayout = "15:04"

// DateLayout is the calendar-date format used in dose history.
const DateLayout = "2006-01-02"

// Medicine is one scheduled daily medication.
type Medicine struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SchedTime string `json:"sched_time"` // Format: "HH:MM"
	Notes     string `json:"notes"`
}

// DoseEvent records the outcome of one scheduled dose on one date.
// Events reference medicines by name and scheduled time, not by ID,
// so renaming a medicine orphans its earlier history.
type DoseEvent struct {
	Date      string `json:"date"` // Format: "2006-01-02"
	Name      string `json:"name"`
	SchedTime string `json:"sched_time"` // Format: "HH:MM"
	Taken     bool   `json:"taken"`
	TakenTime string `json:"taken_time"` // "HH:MM", empty unless taken
}

// UserRecord is the full persisted state of one user: the medicine
// list, the dose history and the ID counter. It is loaded and saved
// as a single unit.
type UserRecord struct {
	Medicines []Medicine  `json:"medicines"`
	History   []DoseEvent `json:"history"`
	NextID    int         `json:"next_id"`
}

// NewUserRecord returns an empty record with the ID counter at 1.
func NewUserRecord() UserRecord {
	return UserRecord{NextID: 1}
}

// Clone returns a deep copy so mutations never alias the caller's slices.
func (r UserRecord) Clone() UserRecord {
	out := UserRecord{NextID: r.NextID}
	if r.Medicines != nil {
		out.Medicines = make([]Medicine, len(r.Medicines))
		copy(out.Medicines, r.Medicines)
	}
	if r.History != nil {
		out.History = make([]DoseEvent, len(r.History))
		copy(out.History, r.History)
	}
	return out
}

// FindMedicine returns the medicine with the given ID, if present.
func (r UserRecord) FindMedicine(id int) (Medicine, bool) {
	for _, m := range r.Medicines {
		if m.ID == id {
			return m, true
		}
	}
	return Medicine{}, false
}

// StatusKind classifies today's occurrence of a medicine.
type StatusKind string

const (
	StatusTaken    StatusKind = "taken"
	StatusMissed   StatusKind = "missed"
	StatusDueSoon  StatusKind = "due_soon"
	StatusUpcoming StatusKind = "upcoming"
)

// DoseStatus is the classification of today's dose for one medicine.
// TakenTime is set only when Kind is StatusTaken.
type DoseStatus struct {
	Kind      StatusKind
	TakenTime string
}

// DayAdherence is one point of the daily adherence series.
type DayAdherence struct {
	Date    string // "2006-01-02"
	Percent float64
}
