package tracker

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/domain"
)

// Service applies mutations to a user's record and persists the result.
// A record whose save failed stays cached in memory and is served to
// every following operation for that key, so the session survives a
// storage outage; the next successful save writes the accumulated
// state back and drops the cache entry.
type Service struct {
	store domain.RecordStore

	mu      sync.Mutex
	unsaved map[string]domain.UserRecord
}

func NewService(store domain.RecordStore) *Service {
	return &Service{
		store:   store,
		unsaved: make(map[string]domain.UserRecord),
	}
}

// Record returns the current record for a user key: the unsaved
// in-memory one if a save is outstanding, else the stored one.
func (s *Service) Record(ctx context.Context, userKey string) (domain.UserRecord, domain.LoadInfo) {
	s.mu.Lock()
	rec, ok := s.unsaved[userKey]
	s.mu.Unlock()
	if ok {
		return rec, domain.LoadInfo{Found: true}
	}
	return s.store.Load(ctx, userKey)
}

func (s *Service) persist(ctx context.Context, userKey string, rec domain.UserRecord) (domain.UserRecord, error) {
	if err := s.store.Save(ctx, userKey, rec); err != nil {
		s.mu.Lock()
		s.unsaved[userKey] = rec
		s.mu.Unlock()
		return rec, apperrors.NewStorageError(err).WithContext("user_key", userKey)
	}
	s.mu.Lock()
	delete(s.unsaved, userKey)
	s.mu.Unlock()
	return rec, nil
}

// AddMedicine validates and appends a medicine, then saves.
func (s *Service) AddMedicine(ctx context.Context, userKey, name, schedTime, notes string) (domain.UserRecord, domain.Medicine, error) {
	rec, _ := s.Record(ctx, userKey)
	rec, med, err := AddMedicine(rec, name, schedTime, notes)
	if err != nil {
		return rec, domain.Medicine{}, err
	}
	rec, err = s.persist(ctx, userKey, rec)
	return rec, med, err
}

// DeleteMedicine removes a medicine by ID, then saves.
func (s *Service) DeleteMedicine(ctx context.Context, userKey string, id int) (domain.UserRecord, error) {
	rec, _ := s.Record(ctx, userKey)
	return s.persist(ctx, userKey, DeleteMedicine(rec, id))
}

// MarkTaken records today's dose for (name, schedTime) as taken now.
func (s *Service) MarkTaken(ctx context.Context, userKey, name, schedTime string) (domain.UserRecord, error) {
	rec, _ := s.Record(ctx, userKey)
	return s.persist(ctx, userKey, MarkTaken(rec, name, schedTime, time.Now()))
}

// MarkMissed records today's dose for (name, schedTime) as missed
// unless an event already exists for it.
func (s *Service) MarkMissed(ctx context.Context, userKey, name, schedTime string) (domain.UserRecord, error) {
	rec, _ := s.Record(ctx, userKey)
	return s.persist(ctx, userKey, MarkMissed(rec, name, schedTime, time.Now()))
}

// ClearToday drops all of today's dose events.
func (s *Service) ClearToday(ctx context.Context, userKey string) (domain.UserRecord, error) {
	rec, _ := s.Record(ctx, userKey)
	return s.persist(ctx, userKey, ClearToday(rec, time.Now()))
}

// ResetAll replaces the record with a fresh empty one.
func (s *Service) ResetAll(ctx context.Context, userKey string) (domain.UserRecord, error) {
	return s.persist(ctx, userKey, Reset())
}

// ImportCSV bulk-adds medicines from tabular data and saves once at the
// end of the batch. Returns the number of medicines added.
func (s *Service) ImportCSV(ctx context.Context, userKey string, r io.Reader) (domain.UserRecord, int, error) {
	rec, _ := s.Record(ctx, userKey)
	rec, added, err := ImportMedicines(rec, r)
	if err != nil {
		return rec, added, err
	}
	rec, err = s.persist(ctx, userKey, rec)
	return rec, added, err
}

// ExportCSV writes the user's full dose history as CSV.
func (s *Service) ExportCSV(ctx context.Context, userKey string, w io.Writer) error {
	rec, _ := s.Record(ctx, userKey)
	return ExportHistory(rec, w)
}
