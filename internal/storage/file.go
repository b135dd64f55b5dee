package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/domain"
	"github.com/adherahq/adhera-bot/internal/logger"
)

// FileStore keeps one JSON document per user key under a data
// directory.
type FileStore struct {
	dataDir string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dataDir: dataDir}, nil
}

func (s *FileStore) path(userKey string) string {
	return filepath.Join(s.dataDir, "adhera_"+userKey+".json")
}

// Load reads the record for a user key. A missing file yields an empty
// default record; an undecodable one yields the default with the
// corruption flagged.
func (s *FileStore) Load(ctx context.Context, userKey string) (domain.UserRecord, domain.LoadInfo) {
	data, err := os.ReadFile(s.path(userKey))
	if err != nil {
		return domain.NewUserRecord(), domain.LoadInfo{}
	}

	var rec domain.UserRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		logger.Warn("Corrupt record, using empty default",
			apperrors.NewParseError(err).WithContext("user_key", userKey).LogFields()...)
		return domain.NewUserRecord(), domain.LoadInfo{Found: true, Corrupt: true}
	}
	if rec.NextID < 1 {
		rec.NextID = 1
	}
	return rec, domain.LoadInfo{Found: true}
}

// Save writes the whole record atomically via a temp file rename.
func (s *FileStore) Save(ctx context.Context, userKey string, record domain.UserRecord) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	target := s.path(userKey)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("failed to replace record: %w", err)
	}
	return nil
}
