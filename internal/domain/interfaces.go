package domain

import (
	"context"
	"io"
)

// LoadInfo describes how a record was obtained from the store.
type LoadInfo struct {
	Found   bool // a payload existed for the key
	Corrupt bool // payload existed but could not be decoded
}

// RecordStore persists one UserRecord per user key as an atomic unit.
//
// Load never fails the caller: a missing key yields an empty default
// record, and an undecodable payload yields the default with
// LoadInfo.Corrupt set so the caller can log it. Save reports write
// failures; the caller keeps its in-memory record either way.
type RecordStore interface {
	Load(ctx context.Context, userKey string) (UserRecord, LoadInfo)
	Save(ctx context.Context, userKey string, record UserRecord) error
}

// TrackerService applies user actions to a record and persists the
// result. Mutating methods return the updated record even when the
// save failed, so the caller can keep serving from memory.
type TrackerService interface {
	Record(ctx context.Context, userKey string) (UserRecord, LoadInfo)
	AddMedicine(ctx context.Context, userKey, name, schedTime, notes string) (UserRecord, Medicine, error)
	DeleteMedicine(ctx context.Context, userKey string, id int) (UserRecord, error)
	MarkTaken(ctx context.Context, userKey, name, schedTime string) (UserRecord, error)
	MarkMissed(ctx context.Context, userKey, name, schedTime string) (UserRecord, error)
	ClearToday(ctx context.Context, userKey string) (UserRecord, error)
	ResetAll(ctx context.Context, userKey string) (UserRecord, error)
	ImportCSV(ctx context.Context, userKey string, r io.Reader) (UserRecord, int, error)
	ExportCSV(ctx context.Context, userKey string, w io.Writer) error
}
