package quiz

import "context"

// ResultStore is the narrow contract the session engine and the recommender
// depend on. Implementations are pass-through adapters over the backing
// database; no scoring or selection logic lives behind this interface.
type ResultStore interface {
	// FetchQuestionBank returns the full bank for a course, answer keys
	// included. Fails with ErrNotFound for an unknown course and
	// ErrStoreUnavailable for transport-level failures.
	FetchQuestionBank(ctx context.Context, courseID string) ([]Question, error)

	// AppendAttempt writes one attempt record, keyed by a fresh
	// timestamp-derived identifier. Best-effort from the engine's viewpoint:
	// a failure is reported but never blocks or reverts completion.
	AppendAttempt(ctx context.Context, userID string, r AttemptResult) error

	// AttemptHistory returns a snapshot of every recorded attempt for a
	// user, grouped by course. The recommender consumes one snapshot rather
	// than subscribing.
	AttemptHistory(ctx context.Context, userID string) (AttemptHistory, error)

	// WatchAttemptHistory invokes fn with a fresh snapshot after every
	// append for userID until the returned cancel function is called. The
	// first invocation happens immediately with the current history.
	WatchAttemptHistory(ctx context.Context, userID string, fn func(AttemptHistory)) (cancel func(), err error)
}
