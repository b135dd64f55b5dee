package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/domain"
)

// Compile-time check to ensure mockStore implements domain.RecordStore
var _ domain.RecordStore = (*mockStore)(nil)

// mockStore is an in-memory RecordStore with overridable behavior.
type mockStore struct {
	records  map[string]domain.UserRecord
	loadFunc func(ctx context.Context, userKey string) (domain.UserRecord, domain.LoadInfo)
	saveFunc func(ctx context.Context, userKey string, record domain.UserRecord) error

	saveCalls int
}

func newMockStore() *mockStore {
	return &mockStore{records: map[string]domain.UserRecord{}}
}

func (m *mockStore) Load(ctx context.Context, userKey string) (domain.UserRecord, domain.LoadInfo) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, userKey)
	}
	rec, ok := m.records[userKey]
	if !ok {
		return domain.NewUserRecord(), domain.LoadInfo{}
	}
	return rec, domain.LoadInfo{Found: true}
}

func (m *mockStore) Save(ctx context.Context, userKey string, record domain.UserRecord) error {
	m.saveCalls++
	if m.saveFunc != nil {
		return m.saveFunc(ctx, userKey, record)
	}
	m.records[userKey] = record
	return nil
}

func TestService_AddMedicine_PersistsOnSuccess(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	rec, med, err := svc.AddMedicine(context.Background(), "alice", "Aspirin", "08:00", "")
	require.NoError(t, err)
	assert.Equal(t, 1, med.ID)
	assert.Len(t, rec.Medicines, 1)
	assert.Equal(t, 1, store.saveCalls)

	saved, info := store.Load(context.Background(), "alice")
	assert.True(t, info.Found)
	assert.Equal(t, rec, saved)
}

func TestService_AddMedicine_ValidationSkipsSave(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)

	_, _, err := svc.AddMedicine(context.Background(), "alice", "", "08:00", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Zero(t, store.saveCalls)
}

func TestService_SaveFailureKeepsRecord(t *testing.T) {
	store := newMockStore()
	store.saveFunc = func(ctx context.Context, userKey string, record domain.UserRecord) error {
		return errors.New("disk full")
	}
	svc := NewService(store)

	rec, med, err := svc.AddMedicine(context.Background(), "alice", "Aspirin", "08:00", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	// The session keeps working from memory.
	assert.Equal(t, 1, med.ID)
	assert.Len(t, rec.Medicines, 1)
}

func TestService_FailedSaveRetainsSessionState(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	ctx := context.Background()

	_, _, err := svc.AddMedicine(ctx, "alice", "Aspirin", "08:00", "")
	require.NoError(t, err)

	store.saveFunc = func(ctx context.Context, userKey string, record domain.UserRecord) error {
		return errors.New("disk full")
	}

	_, err = svc.MarkTaken(ctx, "alice", "Aspirin", "08:00")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))

	// The next operation must see the unsaved mutation, not the stale
	// stored record.
	rec, info := svc.Record(ctx, "alice")
	assert.True(t, info.Found)
	require.Len(t, rec.History, 1, "mutation lost after failed save")
	assert.True(t, rec.History[0].Taken)

	// Once saves work again, the accumulated state is written back.
	store.saveFunc = nil
	rec, med, err := svc.AddMedicine(ctx, "alice", "Ibuprofen", "20:00", "")
	require.NoError(t, err)
	assert.Equal(t, 2, med.ID)
	assert.Len(t, rec.Medicines, 2)
	assert.Len(t, rec.History, 1)

	saved, _ := store.Load(ctx, "alice")
	assert.Equal(t, rec, saved)

	// With nothing outstanding, reads come from the store again.
	store.records["alice"] = domain.NewUserRecord()
	fresh, _ := svc.Record(ctx, "alice")
	assert.Empty(t, fresh.Medicines)
}

func TestService_MarkTakenRoundTrip(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	ctx := context.Background()

	_, _, err := svc.AddMedicine(ctx, "alice", "Aspirin", "08:00", "")
	require.NoError(t, err)

	rec, err := svc.MarkTaken(ctx, "alice", "Aspirin", "08:00")
	require.NoError(t, err)
	require.Len(t, rec.History, 1)
	assert.True(t, rec.History[0].Taken)
	assert.NotEmpty(t, rec.History[0].TakenTime)

	rec, err = svc.MarkTaken(ctx, "alice", "Aspirin", "08:00")
	require.NoError(t, err)
	assert.Len(t, rec.History, 1, "repeat marks must not duplicate events")
}

func TestService_ResetAll(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	ctx := context.Background()

	_, _, err := svc.AddMedicine(ctx, "alice", "Aspirin", "08:00", "")
	require.NoError(t, err)

	rec, err := svc.ResetAll(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, rec.Medicines)
	assert.Equal(t, 1, rec.NextID)

	saved, _ := store.Load(ctx, "alice")
	assert.Empty(t, saved.Medicines)
}

func TestService_ImportAndExport(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	ctx := context.Background()

	csvData := "name,sched_time,notes\nAspirin,08:00,\nBroken,25:99,\nIbuprofen,20:00,with water\n"
	rec, added, err := svc.ImportCSV(ctx, "alice", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Len(t, rec.Medicines, 2)
	assert.Equal(t, 1, store.saveCalls, "import saves once per batch")

	var out strings.Builder
	require.NoError(t, svc.ExportCSV(ctx, "alice", &out))
	assert.Equal(t, "date,name,sched_time,taken,taken_time", strings.TrimSpace(out.String()))
}

func TestService_SeparateUserPartitions(t *testing.T) {
	store := newMockStore()
	svc := NewService(store)
	ctx := context.Background()

	_, _, err := svc.AddMedicine(ctx, "alice", "Aspirin", "08:00", "")
	require.NoError(t, err)

	rec, info := svc.Record(ctx, "bob")
	assert.False(t, info.Found)
	assert.Empty(t, rec.Medicines)
}
