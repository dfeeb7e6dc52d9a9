package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// HandoffRepository persists serialized handoff records with an expiry. Its
// method set matches handoff.Medium so a repository can back the handoff store.
type HandoffRepository interface {
	Write(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Read(ctx context.Context, key string) ([]byte, bool, error)
	DeletePrefix(ctx context.Context, prefix string) error

	// Housekeeping
	PurgeExpired(ctx context.Context) (int64, error)
}

// IsNotFoundError reports whether err is gorm's record-not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
