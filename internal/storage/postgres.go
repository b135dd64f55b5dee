package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/config"
	"github.com/adherahq/adhera-bot/internal/domain"
	"github.com/adherahq/adhera-bot/internal/logger"
)

// userRecordRow maps one user key to its serialized record. The record
// stays a single JSON document even in Postgres: it is small, written
// wholesale on every mutation, and needs no relational access.
type userRecordRow struct {
	gorm.Model
	UserKey string `gorm:"uniqueIndex"`
	Data    string
}

// PostgresStore persists records in a user_record_rows table via GORM.
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(cfg config.DBConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&userRecordRow{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Load fetches and decodes the record for a user key. Absent rows and
// query failures yield the empty default; an undecodable payload is
// flagged corrupt.
func (s *PostgresStore) Load(ctx context.Context, userKey string) (domain.UserRecord, domain.LoadInfo) {
	var row userRecordRow
	if err := s.db.WithContext(ctx).Where("user_key = ?", userKey).First(&row).Error; err != nil {
		return domain.NewUserRecord(), domain.LoadInfo{}
	}

	var rec domain.UserRecord
	if err := json.Unmarshal([]byte(row.Data), &rec); err != nil {
		logger.Warn("Corrupt record, using empty default",
			apperrors.NewParseError(err).WithContext("user_key", userKey).LogFields()...)
		return domain.NewUserRecord(), domain.LoadInfo{Found: true, Corrupt: true}
	}
	if rec.NextID < 1 {
		rec.NextID = 1
	}
	return rec, domain.LoadInfo{Found: true}
}

// Save upserts the serialized record for the user key.
func (s *PostgresStore) Save(ctx context.Context, userKey string, record domain.UserRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&userRecordRow{}).
		Where("user_key = ?", userKey).
		Update("data", string(data))
	if result.Error != nil {
		return fmt.Errorf("failed to update record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		row := &userRecordRow{UserKey: userKey, Data: string(data)}
		if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
			return fmt.Errorf("failed to create record: %w", err)
		}
	}
	return nil
}
