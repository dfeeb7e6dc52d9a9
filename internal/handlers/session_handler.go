package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/study-quiz-client/internal/services"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// CloseTab drops the tab's open quiz and its handoff records
// @Router /session [delete]
func (h *SessionHandler) CloseTab(c *gin.Context) {
	tab := tabSession(c)
	if tab == "" {
		return
	}

	if err := h.sessionService.CloseTab(c.Request.Context(), tab); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
