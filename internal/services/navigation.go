package services

import (
	"net/url"
	"strconv"
)

const (
	DashboardPath = "/dashboard"
	resultPrefix  = "/result/"
	quizPrefix    = "/quiz/"
)

// ReviewParams travel with the navigation from the quiz view to the review
// view. QuizID is optional but required for the handoff fast path.
type ReviewParams struct {
	Score   int    `json:"score"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	NoteID  string `json:"noteId,omitempty"`
	QuizID  string `json:"quizId,omitempty"`
}

// Query encodes the params with the names the review view reads.
func (p ReviewParams) Query() url.Values {
	q := url.Values{}
	q.Set("score", strconv.Itoa(p.Score))
	q.Set("correct", strconv.Itoa(p.Correct))
	q.Set("total", strconv.Itoa(p.Total))
	if p.NoteID != "" {
		q.Set("noteId", p.NoteID)
	}
	if p.QuizID != "" {
		q.Set("quizId", p.QuizID)
	}
	return q
}

// ParseReviewParams decodes navigation params. Missing counts read as zero;
// values that are present but not integers are rejected.
func ParseReviewParams(q url.Values) (ReviewParams, error) {
	var errs ValidationErrors
	parseInt := func(name string) int {
		raw := q.Get(name)
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs.Add(name, "numeric", "must be an integer", raw)
			return 0
		}
		return n
	}

	p := ReviewParams{
		Score:   parseInt("score"),
		Correct: parseInt("correct"),
		Total:   parseInt("total"),
		NoteID:  q.Get("noteId"),
		QuizID:  q.Get("quizId"),
	}
	if len(errs) > 0 {
		return ReviewParams{}, errs
	}
	return p, nil
}

// Navigation tells the browser where to go next.
type Navigation struct {
	Path   string        `json:"path"`
	Params *ReviewParams `json:"params,omitempty"`
}

// Location is Path with the params appended as a query string.
func (n *Navigation) Location() string {
	if n.Params == nil {
		return n.Path
	}
	return n.Path + "?" + n.Params.Query().Encode()
}

func ResultPath(resultID string) string {
	return resultPrefix + url.PathEscape(resultID)
}

func QuizPath(quizID string) string {
	return quizPrefix + url.PathEscape(quizID)
}
