package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/study-quiz-client/internal/middleware"
	"github.com/gin-gonic/gin"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

// tabSession returns the user-qualified tab scope set by middleware.TabSession.
// Routes mounted without the middleware answer 400.
func tabSession(c *gin.Context) string {
	tab := middleware.TabScope(c)
	if tab == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Tab session is required",
			Code:    "TAB_SESSION_REQUIRED",
		})
	}
	return tab
}
