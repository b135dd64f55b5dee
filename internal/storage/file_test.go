package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adherahq/adhera-bot/internal/domain"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	rec := domain.UserRecord{
		Medicines: []domain.Medicine{
			{ID: 1, Name: "Aspirin", SchedTime: "08:00", Notes: "after food"},
			{ID: 3, Name: "Ibuprofen", SchedTime: "20:00"},
		},
		History: []domain.DoseEvent{
			{Date: "2025-03-10", Name: "Aspirin", SchedTime: "08:00", Taken: true, TakenTime: "08:05"},
			{Date: "2025-03-10", Name: "Ibuprofen", SchedTime: "20:00", Taken: false},
		},
		NextID: 4,
	}

	require.NoError(t, store.Save(ctx, "alice", rec))

	loaded, info := store.Load(ctx, "alice")
	assert.True(t, info.Found)
	assert.False(t, info.Corrupt)
	assert.Equal(t, rec, loaded)
}

func TestFileStore_MissingKeyYieldsDefault(t *testing.T) {
	store := newTestFileStore(t)

	rec, info := store.Load(context.Background(), "nobody")
	assert.False(t, info.Found)
	assert.Equal(t, domain.NewUserRecord(), rec)
}

func TestFileStore_CorruptPayloadYieldsDefault(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "adhera_alice.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	rec, info := store.Load(context.Background(), "alice")
	assert.True(t, info.Found)
	assert.True(t, info.Corrupt)
	assert.Equal(t, domain.NewUserRecord(), rec)
}

func TestFileStore_ZeroCounterNormalized(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "adhera_alice.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"medicines":[],"history":[]}`), 0644))

	rec, info := store.Load(context.Background(), "alice")
	assert.True(t, info.Found)
	assert.Equal(t, 1, rec.NextID)
}

func TestFileStore_PartitionsAreIsolated(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	rec := domain.NewUserRecord()
	rec.Medicines = append(rec.Medicines, domain.Medicine{ID: 1, Name: "Aspirin", SchedTime: "08:00"})
	rec.NextID = 2
	require.NoError(t, store.Save(ctx, "alice", rec))

	other, info := store.Load(ctx, "bob")
	assert.False(t, info.Found)
	assert.Empty(t, other.Medicines)
}

func TestUserKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "Alice", "alice"},
		{"trims whitespace", "  Alice  ", "alice"},
		{"spaces escaped", "Mary Jane", "mary+jane"},
		{"unicode escaped", "Zoë", "zo%C3%AB"},
		{"empty selects shared partition", "", DefaultUserKey},
		{"whitespace only selects shared partition", "   ", DefaultUserKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserKey(tt.in))
		})
	}
}
