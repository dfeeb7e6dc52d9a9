package models

type QuestionType string

// Wire values used by the quiz API.
const (
	MultipleChoice QuestionType = "객관식"
	ShortAnswer    QuestionType = "주관식"
	TrueFalse      QuestionType = "OX"
	FillInBlank    QuestionType = "빈칸"
)

// TrueFalseOptions are the only answers a true/false question accepts.
var TrueFalseOptions = []string{"O", "X"}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "쉬움"
	DifficultyNormal Difficulty = "보통"
	DifficultyHard   Difficulty = "어려움"
)

type Question struct {
	ID            string       `json:"id" validate:"required"`
	Page          int          `json:"page" validate:"min=0"`
	Type          QuestionType `json:"type" validate:"required,question_type"`
	Prompt        string       `json:"question"`
	Options       []string     `json:"options"`
	Answer        string       `json:"answer"`
	Explanation   string       `json:"explanation"`
	SourceContext string       `json:"source_context"`
}

// HasPageReference reports whether the question points at a page of the source document.
func (q Question) HasPageReference() bool {
	return q.Page >= 1
}

type SourceDocument struct {
	URL      string `json:"url"`
	FileName string `json:"fileName,omitempty"`
}

type Quiz struct {
	ID               string          `json:"id" validate:"required"`
	Title            string          `json:"title"`
	Questions        []Question      `json:"questions" validate:"dive"`
	IsRegenerated    bool            `json:"isRegeneratedQuiz,omitempty"`
	WeaknessAnalysis string          `json:"weaknessAnalysis,omitempty"`
	PdfInfo          *SourceDocument `json:"pdfInfo,omitempty"`
}

// Question returns the question with the given id.
func (q *Quiz) Question(id string) (*Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return &q.Questions[i], true
		}
	}
	return nil, false
}

type GenerationOptions struct {
	QuestionCount int            `json:"questionCount" validate:"required,min=5,max=30"`
	Types         []QuestionType `json:"types" validate:"required,min=1,dive,question_type"`
	Difficulty    Difficulty     `json:"difficulty" validate:"required,oneof=쉬움 보통 어려움"`
}
