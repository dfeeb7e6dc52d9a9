package services

import (
	"sync"

	"github.com/SAP-F-2025/study-quiz-client/internal/attempt"
	"github.com/SAP-F-2025/study-quiz-client/internal/models"
)

// TakingView is the state of one quiz open in a tab. A view is detached when the
// tab leaves it or opens another quiz; responses that arrive for a detached view
// are dropped.
type TakingView struct {
	mu       sync.Mutex
	quiz     *models.Quiz
	tracker  *attempt.Tracker
	current  int
	inflight bool
	detached bool
}

func newTakingView(quiz *models.Quiz) *TakingView {
	return &TakingView{
		quiz:    quiz,
		tracker: attempt.NewTracker(),
	}
}

// Progress is what the taking view shows alongside the current question.
type Progress struct {
	QuizID       string         `json:"quiz_id"`
	Answered     int            `json:"answered"`
	Total        int            `json:"total"`
	CurrentIndex int            `json:"current_index"`
	Submitting   bool           `json:"submitting"`
	Answers      models.Attempt `json:"answers"`
}

func (v *TakingView) Quiz() *models.Quiz {
	return v.quiz
}

// Record stores an answer. The question must belong to the quiz.
func (v *TakingView) Record(questionID, answer string) error {
	if _, ok := v.quiz.Question(questionID); !ok {
		return ErrQuestionNotFound
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tracker.Record(questionID, answer)
	return nil
}

// MoveTo sets the current question index, clamped to the quiz bounds.
func (v *TakingView) MoveTo(index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case index < 0:
		index = 0
	case index >= len(v.quiz.Questions):
		index = max(len(v.quiz.Questions)-1, 0)
	}
	v.current = index
}

func (v *TakingView) Progress() *Progress {
	v.mu.Lock()
	defer v.mu.Unlock()
	return &Progress{
		QuizID:       v.quiz.ID,
		Answered:     v.tracker.Len(),
		Total:        len(v.quiz.Questions),
		CurrentIndex: v.current,
		Submitting:   v.inflight,
		Answers:      v.tracker.Snapshot(),
	}
}

// beginSubmit claims the view for one submission and returns the attempt as it
// stands. The claim is released by endSubmit.
func (v *TakingView) beginSubmit() (models.Attempt, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.detached {
		return nil, ErrViewDetached
	}
	if v.inflight {
		return nil, ErrSubmissionInProgress
	}
	v.inflight = true
	return v.tracker.Snapshot(), nil
}

// endSubmit releases the claim and reports whether the view is still attached.
func (v *TakingView) endSubmit() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inflight = false
	return !v.detached
}

func (v *TakingView) detach() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.detached = true
}

// ViewRegistry keeps the open taking view of every tab. A tab shows one quiz at
// a time.
type ViewRegistry struct {
	mu    sync.Mutex
	views map[string]*TakingView
}

func NewViewRegistry() *ViewRegistry {
	return &ViewRegistry{views: make(map[string]*TakingView)}
}

// Mount opens quiz in the tab, detaching whatever view the tab had before.
func (r *ViewRegistry) Mount(tabID string, quiz *models.Quiz) *TakingView {
	view := newTakingView(quiz)
	r.mu.Lock()
	prev := r.views[tabID]
	r.views[tabID] = view
	r.mu.Unlock()
	if prev != nil {
		prev.detach()
	}
	return view
}

// Lookup returns the tab's view if it shows quizID.
func (r *ViewRegistry) Lookup(tabID, quizID string) (*TakingView, error) {
	r.mu.Lock()
	view, ok := r.views[tabID]
	r.mu.Unlock()
	if !ok || view.quiz.ID != quizID {
		return nil, ErrQuizNotOpen
	}
	return view, nil
}

// Unmount detaches the tab's view if it shows quizID. It reports whether a view
// was removed.
func (r *ViewRegistry) Unmount(tabID, quizID string) bool {
	r.mu.Lock()
	view, ok := r.views[tabID]
	if ok && view.quiz.ID == quizID {
		delete(r.views, tabID)
	} else {
		ok = false
	}
	r.mu.Unlock()
	if ok {
		view.detach()
	}
	return ok
}

// DropTab detaches and forgets the tab's view.
func (r *ViewRegistry) DropTab(tabID string) {
	r.mu.Lock()
	view, ok := r.views[tabID]
	delete(r.views, tabID)
	r.mu.Unlock()
	if ok {
		view.detach()
	}
}
