package syncx

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

// Event is one append-only record in the event log. Attempt completions are
// logged here so the raw history survives independent of the query tables.
type Event struct {
	Offset    int64
	SiteID    string
	Type      string // e.g. AttemptRecorded
	Key       string // natural key: userID|courseID|attemptID
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// Hub fans out change notifications per user key. Watchers of a user's
// attempt history register here; every append for that user pings all of
// them. Callbacks run on the notifier's goroutine and must be quick.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func()
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]func())}
}

// Subscribe registers fn for key and returns a cancel function. Cancel is
// idempotent.
func (h *Hub) Subscribe(key string, fn func()) (cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	if h.subs[key] == nil {
		h.subs[key] = make(map[int]func())
	}
	h.subs[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[key], id)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
		})
	}
}

// Notify pings every subscriber registered for key.
func (h *Hub) Notify(key string) {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs[key]))
	for _, fn := range h.subs[key] {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
