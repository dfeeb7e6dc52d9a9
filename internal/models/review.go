package models

type ReviewPath string

const (
	ReviewPathHandoff     ReviewPath = "handoff"
	ReviewPathRefetch     ReviewPath = "refetch"
	ReviewPathUnavailable ReviewPath = "unavailable"
)

type ReviewMode string

const (
	ReviewModeResult ReviewMode = "result"
	ReviewModeNote   ReviewMode = "review"
)

// ReviewRow is one question as rendered on the review view. UserAnswer and
// Correct are nil when the learner's answers could not be recovered.
type ReviewRow struct {
	Index         int          `json:"index"`
	QuestionID    string       `json:"question_id"`
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	SourcePage    int          `json:"source_page,omitempty"`
	SourceContext string       `json:"source_context,omitempty"`
	SourceLink    string       `json:"source_link,omitempty"`
	UserAnswer    *string      `json:"user_answer,omitempty"`
	Correct       *bool        `json:"correct,omitempty"`
}

type ReviewSummary struct {
	Score   int    `json:"score"`
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	NoteID  string `json:"note_id,omitempty"`
}

// Unavailable is the terminal state shown when no quiz could be recovered.
// Retryable is set when the last lookup failed on the network rather than
// because the quiz is gone.
type Unavailable struct {
	Message   string `json:"message"`
	ReturnTo  string `json:"return_to"`
	Retryable bool   `json:"retryable"`
}

type ReviewView struct {
	ResultID         string          `json:"result_id"`
	QuizID           string          `json:"quiz_id,omitempty"`
	Title            string          `json:"title,omitempty"`
	Mode             ReviewMode      `json:"mode"`
	Path             ReviewPath      `json:"path"`
	Summary          ReviewSummary   `json:"summary"`
	CanRegenerate    bool            `json:"can_regenerate"`
	IsRegenerated    bool            `json:"is_regenerated,omitempty"`
	WeaknessAnalysis string          `json:"weakness_analysis,omitempty"`
	Document         *SourceDocument `json:"document,omitempty"`
	Rows             []ReviewRow     `json:"rows"`
	Unavailable      *Unavailable    `json:"unavailable,omitempty"`
}
