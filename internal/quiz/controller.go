package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Controller owns one live session: it serializes every operation behind a
// mutex (there is exactly one logical writer per session) and runs the
// countdown as a cancellable one-second ticker that is stopped the instant
// the session becomes terminal.
type Controller struct {
	mu      sync.Mutex
	session *Session
	store   ResultStore

	stopTimer chan struct{}
	stopped   bool

	// persisted/persistErr record the outcome of the attempt write for the
	// non-blocking warning surfaced to the caller.
	persisted  bool
	persistErr error
}

// SessionView is the student-safe snapshot handed to the API layer. Answer
// keys are stripped; the result is present only once the session is
// terminal.
type SessionView struct {
	ID        string         `json:"id"`
	CourseID  string         `json:"course_id"`
	Questions []Question     `json:"questions"`
	Position  int            `json:"position"`
	Answers   map[string]int `json:"answers"`
	Remaining int            `json:"remaining_sec"`
	Terminal  bool           `json:"terminal"`
	Result    *AttemptResult `json:"result,omitempty"`
	// PersistWarning is set when the attempt record failed to write. The
	// score above is still authoritative; it was computed locally.
	PersistWarning string `json:"persist_warning,omitempty"`
}

func newController(s *Session, store ResultStore) *Controller {
	c := &Controller{
		session:   s,
		store:     store,
		stopTimer: make(chan struct{}),
	}
	go c.runTimer()
	return c
}

// runTimer drives the one-second countdown. It exits on terminal or on
// teardown; a tick can never fire against a completed session because the
// terminal transition and the stop both happen under the controller mutex.
func (c *Controller) runTimer() {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-c.stopTimer:
			return
		case now := <-t.C:
			c.mu.Lock()
			if r := c.session.Tick(now); r != nil {
				c.finishLocked(*r)
			}
			done := c.session.Terminal
			c.mu.Unlock()
			if done {
				return
			}
		}
	}
}

func (c *Controller) Answer(questionID string, optionIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Answer(questionID, optionIndex)
}

func (c *Controller) Advance(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Advance(delta)
}

// Submit completes the session explicitly. Safe to call repeatedly and safe
// to race with timer expiry: only the first completion persists.
func (c *Controller) Submit() AttemptResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, completedNow := c.session.Complete(time.Now())
	if completedNow {
		c.finishLocked(*r)
	}
	return *r
}

// finishLocked stops the countdown and writes the attempt record. The write
// is synchronous here but best-effort: on failure the terminal state and the
// computed score stand, and the error is logged and kept for the view.
func (c *Controller) finishLocked(r AttemptResult) {
	c.stopLocked()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.store.AppendAttempt(ctx, c.session.UserID, r); err != nil {
		c.persistErr = fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
		log.Printf("quiz: save attempt user=%s course=%s: %v", c.session.UserID, r.CourseID, err)
		return
	}
	c.persisted = true
}

func (c *Controller) stopLocked() {
	if !c.stopped {
		c.stopped = true
		close(c.stopTimer)
	}
}

// Snapshot returns the current student-safe view.
func (c *Controller) Snapshot() SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()

	qs := make([]Question, len(c.session.Questions))
	for i, q := range c.session.Questions {
		q.CorrectAnswer = 0
		qs[i] = q
	}
	answers := make(map[string]int, len(c.session.Answers))
	for k, v := range c.session.Answers {
		answers[k] = v
	}

	v := SessionView{
		ID:        c.session.ID,
		CourseID:  c.session.CourseID,
		Questions: qs,
		Position:  c.session.Position,
		Answers:   answers,
		Remaining: c.session.Remaining,
		Terminal:  c.session.Terminal,
		Result:    c.session.Result(),
	}
	if c.persistErr != nil {
		v.PersistWarning = c.persistErr.Error()
	}
	return v
}

// UserID reports the session owner, for access checks in the API layer.
func (c *Controller) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.UserID
}

// Manager tracks live sessions. Sessions are in-process state: one is owned
// by its user for the duration of a quiz and discarded afterwards.
type Manager struct {
	mu    sync.Mutex
	store ResultStore
	live  map[string]*Controller
}

func NewManager(store ResultStore) *Manager {
	return &Manager{store: store, live: make(map[string]*Controller)}
}

// Start fetches the course bank, draws a session and begins its countdown.
func (m *Manager) Start(ctx context.Context, courseID, userID string, count, timeLimitSec int) (*Controller, error) {
	bank, err := m.store.FetchQuestionBank(ctx, courseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoQuestionsAvailable, courseID)
		}
		return nil, err
	}
	s, err := Start(courseID, userID, bank, count, timeLimitSec)
	if err != nil {
		return nil, err
	}

	c := newController(s, m.store)
	m.mu.Lock()
	m.live[s.ID] = c
	m.mu.Unlock()
	return c, nil
}

// Get returns the live controller for a session ID.
func (m *Manager) Get(sessionID string) (*Controller, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.live[sessionID]
	return c, ok
}

// Discard tears a session down: the countdown stops and the session is
// dropped without producing an attempt record if it never completed.
func (m *Manager) Discard(sessionID string) {
	m.mu.Lock()
	c, ok := m.live[sessionID]
	delete(m.live, sessionID)
	m.mu.Unlock()
	if ok {
		c.mu.Lock()
		c.stopLocked()
		c.mu.Unlock()
	}
}
