package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// records written without a ttl never expire on their own
var noExpiry = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

type HandoffPostgreSQL struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHandoffPostgreSQL(db *gorm.DB) *HandoffPostgreSQL {
	return &HandoffPostgreSQL{db: db, now: time.Now}
}

var _ repositories.HandoffRepository = (*HandoffPostgreSQL)(nil)

func (h *HandoffPostgreSQL) Write(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := noExpiry
	if ttl > 0 {
		expiresAt = h.now().Add(ttl)
	}

	entry := models.HandoffEntry{
		Key:       key,
		Payload:   datatypes.JSON(value),
		ExpiresAt: expiresAt,
	}

	// Last write wins for the same key.
	return h.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

func (h *HandoffPostgreSQL) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.HandoffEntry
	err := h.db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, h.now()).
		First(&entry).Error
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(entry.Payload), true, nil
}

func (h *HandoffPostgreSQL) DeletePrefix(ctx context.Context, prefix string) error {
	return h.db.WithContext(ctx).
		Where("key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%").
		Delete(&models.HandoffEntry{}).Error
}

func (h *HandoffPostgreSQL) PurgeExpired(ctx context.Context) (int64, error) {
	result := h.db.WithContext(ctx).
		Where("expires_at <= ?", h.now()).
		Delete(&models.HandoffEntry{})
	return result.RowsAffected, result.Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
