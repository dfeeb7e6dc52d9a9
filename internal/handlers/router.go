package handlers

import (
	"github.com/SAP-F-2025/study-quiz-client/internal/middleware"
	"github.com/SAP-F-2025/study-quiz-client/internal/services"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	quizHandler    *QuizHandler
	reviewHandler  *ReviewHandler
	noteHandler    *NoteHandler
	sessionHandler *SessionHandler
	auth           gin.HandlerFunc
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	verifier middleware.TokenVerifier,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizHandler:    NewQuizHandler(serviceManager.Session(), serviceManager.Submission(), serviceManager.Quiz(), validator, logger),
		reviewHandler:  NewReviewHandler(serviceManager.Review(), serviceManager.Export(), validator, logger),
		noteHandler:    NewNoteHandler(serviceManager.Quiz(), logger),
		sessionHandler: NewSessionHandler(serviceManager.Session(), logger),
		auth:           middleware.BearerAuth(verifier, logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1", hm.auth)
	{
		// Routes that do not depend on tab state
		v1.POST("/quizzes/generate", hm.quizHandler.GenerateQuiz)
		v1.POST("/notes/:note_id/regenerate", hm.noteHandler.RegenerateQuiz)

		tab := v1.Group("", middleware.TabSession())
		{
			// Quiz-taking view
			quizzes := tab.Group("/quizzes")
			{
				quizzes.GET("/:quiz_id", hm.quizHandler.OpenQuiz)
				quizzes.DELETE("/:quiz_id", hm.quizHandler.LeaveQuiz)
				quizzes.GET("/:quiz_id/answers", hm.quizHandler.GetAnswers)
				quizzes.PUT("/:quiz_id/answers/:question_id", hm.quizHandler.RecordAnswer)
				quizzes.PUT("/:quiz_id/position", hm.quizHandler.MoveTo)
				quizzes.POST("/:quiz_id/submit", hm.quizHandler.SubmitQuiz)
			}

			// Review view
			results := tab.Group("/results")
			{
				results.GET("/:result_id", hm.reviewHandler.GetReview)
				results.GET("/:result_id/export", hm.reviewHandler.ExportReview)
				results.POST("/:result_id/viewer", hm.reviewHandler.OpenSource)
			}

			tab.DELETE("/session", hm.sessionHandler.CloseTab)
		}
	}
}
