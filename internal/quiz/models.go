package quiz

import "time"

// Question is a single multiple-choice question. Immutable once fetched
// from the store.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer,omitempty"` // index into Options; stripped for students
}

// AttemptResult is the immutable record of one completed (or timed-out)
// quiz session. Written once, never updated.
type AttemptResult struct {
	CourseID       string    `json:"course_id"`
	Score          int       `json:"score"` // integer percentage, 0..100
	CompletedAt    time.Time `json:"completed_at"`
	TotalQuestions int       `json:"total_questions"`
}

// AttemptHistory maps course ID to that course's attempts, newest first.
type AttemptHistory map[string][]AttemptResult

// Session is the state of one quiz attempt. The question set is fixed at
// Start; Position always stays within [0, len(Questions)-1]; once Terminal
// is true no further answer mutations are accepted and Remaining never
// decreases below zero.
type Session struct {
	ID        string         `json:"id"`
	CourseID  string         `json:"course_id"`
	UserID    string         `json:"user_id"`
	Questions []Question     `json:"questions"`
	Position  int            `json:"position"`
	Answers   map[string]int `json:"answers"` // question ID -> selected option index
	Remaining int            `json:"remaining_sec"`
	Terminal  bool           `json:"terminal"`

	result *AttemptResult // memoized by Complete
}

// Result returns the memoized attempt result, or nil if the session has not
// completed yet.
func (s *Session) Result() *AttemptResult {
	return s.result
}
