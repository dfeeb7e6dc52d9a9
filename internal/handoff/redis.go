package handoff

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/SAP-F-2025/study-quiz-client/internal/cache"
)

// CacheMedium stores records through the redis-backed cache service. Redis TTLs
// and maxmemory eviction give it the same lossy contract as the memory medium.
type CacheMedium struct {
	cache cache.CacheService
}

func NewCacheMedium(c cache.CacheService) *CacheMedium {
	return &CacheMedium{cache: c}
}

func (m *CacheMedium) Write(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.cache.Set(ctx, key, json.RawMessage(value), ttl)
}

func (m *CacheMedium) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var raw json.RawMessage
	if err := m.cache.Get(ctx, key, &raw); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

func (m *CacheMedium) DeletePrefix(ctx context.Context, prefix string) error {
	return m.cache.DeletePattern(ctx, prefix+"*")
}
