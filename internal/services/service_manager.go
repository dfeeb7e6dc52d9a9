package services

import (
	"github.com/SAP-F-2025/study-quiz-client/internal/client"
	"github.com/SAP-F-2025/study-quiz-client/internal/events"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
)

// ServiceManager gives handlers access to every service
type ServiceManager interface {
	Session() SessionService
	Submission() SubmissionService
	Review() ReviewService
	Quiz() QuizService
	Export() ExportService
	Events() QuizEventService
}

type serviceManager struct {
	session    SessionService
	submission SubmissionService
	review     ReviewService
	quiz       QuizService
	export     ExportService
	events     QuizEventService
}

// NewServiceManager wires the services around one quiz API, one view registry
// and one handoff store.
func NewServiceManager(
	api client.QuizAPI,
	handoffs HandoffStores,
	eventPublisher events.EventPublisher,
	logger utils.Logger,
	validator *validator.Validator,
) ServiceManager {
	registry := NewViewRegistry()
	eventService := NewQuizEventService(eventPublisher, logger.With("service", "events"))

	return &serviceManager{
		session:    NewSessionService(api, registry, handoffs, logger.With("service", "session"), validator),
		submission: NewSubmissionService(api, registry, handoffs, eventService, logger.With("service", "submission"), validator),
		review:     NewReviewService(api, handoffs, eventService, logger.With("service", "review"), validator),
		quiz:       NewQuizService(api, eventService, logger.With("service", "quiz"), validator),
		export:     NewExportService(logger.With("service", "export")),
		events:     eventService,
	}
}

func (m *serviceManager) Session() SessionService       { return m.session }
func (m *serviceManager) Submission() SubmissionService { return m.submission }
func (m *serviceManager) Review() ReviewService         { return m.review }
func (m *serviceManager) Quiz() QuizService             { return m.quiz }
func (m *serviceManager) Export() ExportService         { return m.export }
func (m *serviceManager) Events() QuizEventService      { return m.events }
