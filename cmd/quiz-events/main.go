// Command quiz-events consumes the quiz lifecycle topic and logs each event.
// It is the reference consumer for what the server publishes.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/study-quiz-client/internal/config"
	"github.com/SAP-F-2025/study-quiz-client/internal/events"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.Environment, cfg.LogLevel)
	slogger := utils.ToSlogLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subscriber, err := cfg.Events.CreateEventSubscriber(slogger)
	if err != nil {
		logger.Error("Failed to create event subscriber", "error", err)
		os.Exit(1)
	}
	defer subscriber.Close()

	handle := func(ctx context.Context, event *events.RawQuizEvent) error {
		return logEvent(ctx, logger, event)
	}

	if err := events.Consume(ctx, subscriber, cfg.Events.QuizTopic, slogger, handle); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumer stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Event consumer exiting")
}

func logEvent(ctx context.Context, logger utils.Logger, event *events.RawQuizEvent) error {
	l := logger.With("event_id", event.ID, "event_type", event.Type, "tab_id", event.TabID)

	switch event.Type {
	case events.EventQuizSubmitted:
		var data events.QuizSubmittedEvent
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("decode %s: %w", event.Type, err)
		}
		l.InfoContext(ctx, "Quiz submitted",
			"quiz_id", data.QuizID,
			"result_id", data.ResultID,
			"score", data.Score,
			"correct", data.Correct,
			"total", data.Total,
			"answered", data.Answered,
			"handoff", data.Handoff)

	case events.EventQuizRegenerated:
		var data events.QuizRegeneratedEvent
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("decode %s: %w", event.Type, err)
		}
		l.InfoContext(ctx, "Quiz regenerated", "note_id", data.NoteID, "quiz_id", data.QuizID, "questions", data.Questions)

	case events.EventReviewReconstructed:
		var data events.ReviewReconstructedEvent
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("decode %s: %w", event.Type, err)
		}
		l.InfoContext(ctx, "Review reconstructed", "result_id", data.ResultID, "quiz_id", data.QuizID, "path", data.Path, "rows", data.Rows)

	default:
		l.WarnContext(ctx, "Unknown quiz event type")
	}
	return nil
}
