package services

import (
	"bytes"
	"testing"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportService_ExportReviewToExcel(t *testing.T) {
	service := NewExportService(utils.NewDiscardLogger())
	correct, wrong := true, false

	view := &models.ReviewView{
		ResultID: "result-1",
		QuizID:   "quiz-1",
		Title:    "미적분 기초",
		Path:     models.ReviewPathHandoff,
		Summary:  models.ReviewSummary{Score: 50, Correct: 1, Total: 2},
		Rows: []models.ReviewRow{
			{Index: 1, QuestionID: "q1", Type: models.MultipleChoice, Prompt: "d/dx sin(x)?", Options: []string{"cos(x)", "sin(x)"},
				CorrectAnswer: "cos(x)", SourcePage: 2, SourceLink: "doc.pdf#page=2", UserAnswer: strPtr("cos(x)"), Correct: &correct},
			{Index: 2, QuestionID: "q2", Type: models.TrueFalse, Prompt: "e is rational", CorrectAnswer: "X", Correct: &wrong},
		},
	}

	data, err := service.ExportReviewToExcel(view)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Review", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Review")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "No.", rows[0][0])
	assert.Equal(t, []string{"1", "객관식", "d/dx sin(x)?", "cos(x) | sin(x)", "cos(x)", "cos(x)", "O", "", "2", "doc.pdf#page=2"}, rows[1])
	assert.Equal(t, "", rows[2][4], "unanswered")
	assert.Equal(t, "X", rows[2][6])

	score, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "50", score)
}

func TestExportService_UnavailableView(t *testing.T) {
	service := NewExportService(utils.NewDiscardLogger())
	_, err := service.ExportReviewToExcel(&models.ReviewView{
		ResultID:    "result-1",
		Path:        models.ReviewPathUnavailable,
		Unavailable: &models.Unavailable{Message: "gone", ReturnTo: DashboardPath},
	})
	assert.True(t, IsNotFound(err))
}
