package quiz

import "errors"

var (
	// ErrNoQuestionsAvailable is returned by Start when the course has an
	// empty or missing question bank. No session is created.
	ErrNoQuestionsAvailable = errors.New("no questions available for this course")

	// ErrStoreUnavailable wraps network or database failures while talking
	// to the result store.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound is returned for a missing course, bank or session.
	ErrNotFound = errors.New("not found")

	// ErrSessionTerminal is returned for answer mutations on a session that
	// has already completed.
	ErrSessionTerminal = errors.New("session already completed")

	// ErrPersistenceFailure wraps a failed attempt-record write. The
	// in-memory result stands regardless; callers surface this as a
	// non-blocking warning.
	ErrPersistenceFailure = errors.New("failed to persist attempt")
)
