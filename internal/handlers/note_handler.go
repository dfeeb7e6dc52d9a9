package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/study-quiz-client/internal/services"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	BaseHandler
	quizService services.QuizService
}

func NewNoteHandler(quizService services.QuizService, logger utils.Logger) *NoteHandler {
	return &NoteHandler{
		BaseHandler: NewBaseHandler(logger),
		quizService: quizService,
	}
}

// RegenerateQuiz builds a new quiz from the note's missed questions
// @Router /notes/{note_id}/regenerate [post]
func (h *NoteHandler) RegenerateQuiz(c *gin.Context) {
	noteID := ParseStringIDParam(c, "note_id")
	if noteID == "" {
		return
	}

	h.LogRequest(c, "Regenerating quiz", "note_id", noteID)

	created, err := h.quizService.RegenerateFromNote(c.Request.Context(), noteID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	resp := newNavigationResponse(created.Navigation)
	c.Header("Location", resp.Location)
	c.JSON(http.StatusCreated, gin.H{
		"quiz":       created.Quiz,
		"navigation": resp,
	})
}
