package handoff

import (
	"context"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryMedium keeps records in an in-process go-cache. It holds at most
// capacity entries, dropping the oldest write first, which stands in for the
// quota limits of browser session storage.
type MemoryMedium struct {
	cache    *cache.Cache
	capacity int

	// writes serialises the capacity check with the Set that follows it
	writes sync.Mutex
	seq    uint64
}

type memoryEntry struct {
	value []byte
	seq   uint64
}

// NewMemoryMedium creates a medium; capacity <= 0 means unbounded.
func NewMemoryMedium(capacity int) *MemoryMedium {
	return &MemoryMedium{
		cache:    cache.New(cache.NoExpiration, memoryCleanupInterval),
		capacity: capacity,
	}
}

func (m *MemoryMedium) Write(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.writes.Lock()
	defer m.writes.Unlock()

	if ttl <= 0 {
		ttl = cache.NoExpiration
	}

	if _, exists := m.cache.Get(key); !exists && m.capacity > 0 {
		m.cache.DeleteExpired()
		for m.cache.ItemCount() >= m.capacity {
			m.evictOldest()
		}
	}

	m.seq++
	m.cache.Set(key, memoryEntry{value: append([]byte(nil), value...), seq: m.seq}, ttl)
	return nil
}

func (m *MemoryMedium) Read(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	entry := v.(memoryEntry)
	return append([]byte(nil), entry.value...), true, nil
}

func (m *MemoryMedium) DeletePrefix(_ context.Context, prefix string) error {
	for key := range m.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			m.cache.Delete(key)
		}
	}
	return nil
}

// Len reports the number of live entries.
func (m *MemoryMedium) Len() int {
	m.cache.DeleteExpired()
	return m.cache.ItemCount()
}

func (m *MemoryMedium) evictOldest() {
	var (
		oldestKey string
		oldestSeq uint64
	)
	for key, item := range m.cache.Items() {
		entry := item.Object.(memoryEntry)
		if oldestKey == "" || entry.seq < oldestSeq {
			oldestKey, oldestSeq = key, entry.seq
		}
	}
	if oldestKey == "" {
		return
	}
	m.cache.Delete(oldestKey)
}
