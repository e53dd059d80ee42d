package quiz

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Default quiz shape, matching what the assessments page starts.
const (
	DefaultQuestionCount = 10
	DefaultTimeLimitSec  = 600
)

// Start draws a fresh quiz session for courseID out of bank. The drawn set
// is min(count, available) distinct questions and its order is fixed for the
// lifetime of the session. Returns ErrNoQuestionsAvailable when the course
// has no bank or an empty one; no session object is produced in that case.
func Start(courseID, userID string, bank []Question, count, timeLimitSec int) (*Session, error) {
	if len(bank) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuestionsAvailable, courseID)
	}
	if count <= 0 {
		count = DefaultQuestionCount
	}
	if timeLimitSec <= 0 {
		timeLimitSec = DefaultTimeLimitSec
	}

	return &Session{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		UserID:    userID,
		Questions: sampleQuestions(bank, count),
		Position:  0,
		Answers:   make(map[string]int),
		Remaining: timeLimitSec,
	}, nil
}

// Answer records the selected option for a question. Re-answering the same
// question overwrites the previous choice. Mutations on a terminal session
// are rejected with ErrSessionTerminal.
func (s *Session) Answer(questionID string, optionIndex int) error {
	if s.Terminal {
		return ErrSessionTerminal
	}
	s.Answers[questionID] = optionIndex
	return nil
}

// Advance moves the position by delta, clamped to [0, len(Questions)-1].
// Navigation is unconstrained in both directions; the current question does
// not need an answer.
func (s *Session) Advance(delta int) {
	p := s.Position + delta
	if p < 0 {
		p = 0
	}
	if max := len(s.Questions) - 1; p > max {
		p = max
	}
	s.Position = p
}

// Tick decrements the remaining time by one second. When the budget reaches
// zero the session is force-completed regardless of position or answer
// completeness. Returns the attempt result if this tick completed the
// session, nil otherwise.
func (s *Session) Tick(now time.Time) *AttemptResult {
	if s.Terminal {
		return nil
	}
	s.Remaining--
	if s.Remaining > 0 {
		return nil
	}
	s.Remaining = 0
	r, _ := s.Complete(now)
	return r
}

// Complete scores the session and marks it terminal. Scoring is a pure
// function over the final answers and the ground truth: unanswered questions
// never match. Idempotent: a second call returns the memoized result and
// reports completedNow=false so callers never persist twice.
func (s *Session) Complete(now time.Time) (*AttemptResult, bool) {
	if s.Terminal {
		return s.result, false
	}
	s.Terminal = true

	correct := 0
	for _, q := range s.Questions {
		if idx, ok := s.Answers[q.ID]; ok && idx == q.CorrectAnswer {
			correct++
		}
	}

	s.result = &AttemptResult{
		CourseID:       s.CourseID,
		Score:          int(math.Round(100 * float64(correct) / float64(len(s.Questions)))),
		CompletedAt:    now,
		TotalQuestions: len(s.Questions),
	}
	return s.result, true
}

// Current returns the question at the session's position.
func (s *Session) Current() Question {
	return s.Questions[s.Position]
}
