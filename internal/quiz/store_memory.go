package quiz

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process ResultStore with the same watcher semantics
// as the SQL store. Used by tests.
type MemoryStore struct {
	mu       sync.RWMutex
	banks    map[string][]Question
	attempts map[string][]AttemptResult // userID -> attempts, newest first

	watchMu  sync.Mutex
	watchSeq int
	watchers map[string]map[int]func(AttemptHistory)
}

func NewInMemoryStore() *MemoryStore {
	return &MemoryStore{
		banks:    map[string][]Question{},
		attempts: map[string][]AttemptResult{},
		watchers: map[string]map[int]func(AttemptHistory){},
	}
}

func (m *MemoryStore) PutQuestionBank(_ context.Context, courseID string, qs []Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banks[courseID] = append([]Question(nil), qs...)
	return nil
}

func (m *MemoryStore) FetchQuestionBank(_ context.Context, courseID string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	qs, ok := m.banks[courseID]
	if !ok {
		return nil, fmt.Errorf("%w: question bank %s", ErrNotFound, courseID)
	}
	return append([]Question(nil), qs...), nil
}

func (m *MemoryStore) AppendAttempt(_ context.Context, userID string, r AttemptResult) error {
	m.mu.Lock()
	m.attempts[userID] = append([]AttemptResult{r}, m.attempts[userID]...)
	m.mu.Unlock()
	m.notify(userID)
	return nil
}

func (m *MemoryStore) AttemptHistory(_ context.Context, userID string) (AttemptHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	hist := AttemptHistory{}
	for _, r := range m.attempts[userID] {
		hist[r.CourseID] = append(hist[r.CourseID], r)
	}
	return hist, nil
}

func (m *MemoryStore) WatchAttemptHistory(ctx context.Context, userID string, fn func(AttemptHistory)) (func(), error) {
	m.watchMu.Lock()
	id := m.watchSeq
	m.watchSeq++
	if m.watchers[userID] == nil {
		m.watchers[userID] = map[int]func(AttemptHistory){}
	}
	m.watchers[userID][id] = fn
	m.watchMu.Unlock()

	if h, err := m.AttemptHistory(ctx, userID); err == nil {
		fn(h)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.watchMu.Lock()
			defer m.watchMu.Unlock()
			delete(m.watchers[userID], id)
		})
	}, nil
}

func (m *MemoryStore) notify(userID string) {
	h, _ := m.AttemptHistory(context.Background(), userID)
	m.watchMu.Lock()
	fns := make([]func(AttemptHistory), 0, len(m.watchers[userID]))
	for _, fn := range m.watchers[userID] {
		fns = append(fns, fn)
	}
	m.watchMu.Unlock()
	for _, fn := range fns {
		fn(h)
	}
}
