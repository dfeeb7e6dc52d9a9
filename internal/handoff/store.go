// Package handoff bridges the quiz-taking view and the review view. Records are
// scoped to one browser tab, expire, and may be evicted at any time; readers must
// treat a missing record as the normal degraded case.
package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
)

const keyPrefix = "handoff:"

// Record is the snapshot written at submit time.
type Record struct {
	QuizID  string         `json:"quiz_id"`
	Quiz    models.Quiz    `json:"quiz"`
	Attempt models.Attempt `json:"attempt"`
	SavedAt time.Time      `json:"saved_at"`
}

// Store is the handoff contract seen by the submission and review services.
// Get reports absent for records never written and for records written but since
// expired, evicted or unreadable alike.
type Store interface {
	Put(ctx context.Context, quizID string, quiz *models.Quiz, attempt models.Attempt) error
	Get(ctx context.Context, quizID string) (*Record, bool)
}

// Medium is the storage a Manager serialises records into.
type Medium interface {
	Write(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Read returns found=false without error when the key is absent or expired.
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// Manager hands out tab-scoped stores over a shared medium.
type Manager struct {
	medium Medium
	ttl    time.Duration
	logger utils.Logger
	now    func() time.Time
}

func NewManager(medium Medium, ttl time.Duration, logger utils.Logger) *Manager {
	return &Manager{
		medium: medium,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// ForTab returns the store for one tab session.
func (m *Manager) ForTab(tabID string) Store {
	return &tabStore{manager: m, tabID: tabID}
}

// Clear drops every record of a tab; called when the tab closes.
func (m *Manager) Clear(ctx context.Context, tabID string) error {
	if err := m.medium.DeletePrefix(ctx, tabPrefix(tabID)); err != nil {
		return fmt.Errorf("failed to clear handoff records for tab: %w", err)
	}
	return nil
}

func tabPrefix(tabID string) string {
	return keyPrefix + tabID + ":"
}

type tabStore struct {
	manager *Manager
	tabID   string
}

func (s *tabStore) key(quizID string) string {
	return tabPrefix(s.tabID) + quizID
}

func (s *tabStore) Put(ctx context.Context, quizID string, quiz *models.Quiz, attempt models.Attempt) error {
	record := Record{
		QuizID:  quizID,
		Quiz:    *quiz,
		Attempt: attempt.Clone(),
		SavedAt: s.manager.now(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal handoff record: %w", err)
	}

	if err := s.manager.medium.Write(ctx, s.key(quizID), data, s.manager.ttl); err != nil {
		return fmt.Errorf("failed to write handoff record: %w", err)
	}
	return nil
}

func (s *tabStore) Get(ctx context.Context, quizID string) (*Record, bool) {
	data, found, err := s.manager.medium.Read(ctx, s.key(quizID))
	if err != nil {
		s.manager.logger.Warn("Handoff medium unavailable, treating record as absent",
			"quiz_id", quizID,
			"error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		s.manager.logger.Warn("Discarding unreadable handoff record", "quiz_id", quizID, "error", err)
		return nil, false
	}
	if record.QuizID != quizID || record.Attempt == nil {
		return nil, false
	}
	return &record, true
}
