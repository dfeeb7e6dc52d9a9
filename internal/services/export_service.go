package services

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/study-quiz-client/internal/models"
	"github.com/SAP-F-2025/study-quiz-client/internal/utils"
	"github.com/xuri/excelize/v2"
)

const (
	reviewSheet  = "Review"
	summarySheet = "Summary"
)

// ExportService renders a review view as a spreadsheet.
type ExportService interface {
	ExportReviewToExcel(view *models.ReviewView) ([]byte, error)
}

type exportService struct {
	logger utils.Logger
}

func NewExportService(logger utils.Logger) ExportService {
	return &exportService{logger: logger}
}

func (s *exportService) ExportReviewToExcel(view *models.ReviewView) ([]byte, error) {
	if view.Unavailable != nil {
		return nil, fmt.Errorf("%w: result %s", ErrQuizNotFound, view.ResultID)
	}

	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet rather than leaving an empty Sheet1 behind
	if err := f.SetSheetName("Sheet1", reviewSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	headers := []string{
		"No.", "Type", "Question", "Options", "Your Answer",
		"Correct Answer", "Result", "Explanation", "Page", "Source",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(reviewSheet, cell, header)
	}

	for rowIndex, row := range view.Rows {
		for colIndex, value := range reviewRowValues(row) {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(reviewSheet, cell, value)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Result", view.ResultID},
		{"Quiz", view.QuizID},
		{"Title", view.Title},
		{"Score", view.Summary.Score},
		{"Correct", view.Summary.Correct},
		{"Total", view.Summary.Total},
		{"Answers recovered", view.Path == models.ReviewPathHandoff},
	}
	for i, pair := range summary {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), pair[0])
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), pair[1])
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Debug("Exported review", "result_id", view.ResultID, "rows", len(view.Rows))
	return buf.Bytes(), nil
}

func reviewRowValues(row models.ReviewRow) []interface{} {
	userAnswer := ""
	if row.UserAnswer != nil {
		userAnswer = *row.UserAnswer
	}
	result := ""
	if row.Correct != nil {
		result = "X"
		if *row.Correct {
			result = "O"
		}
	}
	var page interface{} = ""
	if row.SourcePage > 0 {
		page = row.SourcePage
	}
	return []interface{}{
		row.Index,
		string(row.Type),
		row.Prompt,
		strings.Join(row.Options, " | "),
		userAnswer,
		row.CorrectAnswer,
		result,
		row.Explanation,
		page,
		row.SourceLink,
	}
}
