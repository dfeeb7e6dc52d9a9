package events

import (
	"time"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents the quiz lifecycle events the client emits
type EventType string

const (
	EventQuizSubmitted       EventType = "quiz.submitted"
	EventQuizRegenerated     EventType = "quiz.regenerated"
	EventReviewReconstructed EventType = "review.reconstructed"
)

const (
	eventSource  = "study-quiz-client"
	eventVersion = "1.0"
)

// QuizEvent is the envelope for all published events
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	TabID     string                 `json:"tab_id,omitempty"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewQuizEvent wraps data in an envelope with a fresh id and timestamp.
func NewQuizEvent(eventType EventType, tabID string, data interface{}) *QuizEvent {
	return &QuizEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		TabID:     tabID,
		Data:      data,
	}
}

type QuizSubmittedEvent struct {
	QuizID    string `json:"quiz_id"`
	ResultID  string `json:"result_id"`
	Score     int    `json:"score"`
	Correct   int    `json:"correct"`
	Total     int    `json:"total"`
	Answered  int    `json:"answered"`
	Questions int    `json:"questions"`
	NoteID    string `json:"note_id,omitempty"`
	Handoff   bool   `json:"handoff"`
}

type QuizRegeneratedEvent struct {
	NoteID    string `json:"note_id"`
	QuizID    string `json:"quiz_id"`
	Questions int    `json:"questions"`
}

type ReviewReconstructedEvent struct {
	ResultID string            `json:"result_id"`
	QuizID   string            `json:"quiz_id,omitempty"`
	Path     models.ReviewPath `json:"path"`
	Rows     int               `json:"rows"`
}
