package handlers

import (
	"fmt"
	"net/http"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/services"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/SAP-F-2025/study-quiz-client/internal/validator"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReviewHandler struct {
	BaseHandler
	reviewService services.ReviewService
	exportService services.ExportService
	validator     *validator.Validator
}

func NewReviewHandler(
	reviewService services.ReviewService,
	exportService services.ExportService,
	validator *validator.Validator,
	logger utils.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   NewBaseHandler(logger),
		reviewService: reviewService,
		exportService: exportService,
		validator:     validator,
	}
}

// GetReview rebuilds the review view. The navigation params arrive as the
// query string; an unrecoverable result is still a 200 with the unavailable state.
// @Router /results/{result_id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	view, ok := h.reconstruct(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, view)
}

// ExportReview downloads the review view as a spreadsheet
// @Router /results/{result_id}/export [get]
func (h *ReviewHandler) ExportReview(c *gin.Context) {
	view, ok := h.reconstruct(c)
	if !ok {
		return
	}

	data, err := h.exportService.ExportReviewToExcel(view)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="result-%s.xlsx"`, view.ResultID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// OpenSource points the embedded viewer at a page of the source document
// @Router /results/{result_id}/viewer [post]
func (h *ReviewHandler) OpenSource(c *gin.Context) {
	if ParseStringIDParam(c, "result_id") == "" {
		return
	}

	var req ViewerRequest
	if !h.bindJSON(c, h.validator.Validate, &req) {
		return
	}

	viewer, changed := h.reviewService.OpenSource(req.Viewer, req.DocumentURL, req.Page)
	c.JSON(http.StatusOK, ViewerResponse{Viewer: viewer, Changed: changed})
}

func (h *ReviewHandler) reconstruct(c *gin.Context) (*models.ReviewView, bool) {
	tab := tabSession(c)
	resultID := ParseStringIDParam(c, "result_id")
	if tab == "" || resultID == "" {
		return nil, false
	}

	params, err := services.ParseReviewParams(c.Request.URL.Query())
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}

	mode := models.ReviewModeResult
	if c.Query("mode") == string(models.ReviewModeNote) {
		mode = models.ReviewModeNote
	}

	h.LogRequest(c, "Reconstructing review", "result_id", resultID, "quiz_id", params.QuizID)

	view, err := h.reviewService.Reconstruct(c.Request.Context(), tab, resultID, params, mode)
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}
	return view, true
}
