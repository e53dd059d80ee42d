package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/edutrack/edutrack/internal/auth/middleware"
	"github.com/edutrack/edutrack/internal/quiz"
)

// GET /me/results: attempt history grouped by course, newest first.
func MyResultsHandler(store quiz.ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		hist, err := store.AttemptHistory(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(hist)
	}
}

// GET /me/results/stream: server-sent events; one history snapshot per
// change, starting with the current state.
func StreamResultsHandler(store quiz.ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fl, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		uid := authmw.SubjectFromContext(r.Context())

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		snapshots := make(chan quiz.AttemptHistory, 8)
		cancel, err := store.WatchAttemptHistory(r.Context(), uid, func(h quiz.AttemptHistory) {
			select {
			case snapshots <- h:
			default: // drop when the client is slow; the next change resends everything
			}
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		defer cancel()

		for {
			select {
			case <-r.Context().Done():
				return
			case h := <-snapshots:
				buf, err := json.Marshal(h)
				if err != nil {
					continue
				}
				if _, err := w.Write([]byte("data: " + string(buf) + "\n\n")); err != nil {
					return
				}
				fl.Flush()
			}
		}
	}
}
