package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/edutrack/edutrack/internal/auth/middleware"
	"github.com/edutrack/edutrack/internal/course"
	"github.com/edutrack/edutrack/internal/quiz"
)

// POST /quiz/sessions {"course_id","count","time_limit_sec"}
// Count and time limit fall back to the configured defaults when omitted.
func StartSessionHandler(mgr *quiz.Manager, defCount, defTimeLimitSec int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		var req struct {
			CourseID     string `json:"course_id"`
			Count        int    `json:"count"`
			TimeLimitSec int    `json:"time_limit_sec"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CourseID == "" {
			http.Error(w, "course_id required", http.StatusBadRequest)
			return
		}
		if req.Count <= 0 {
			req.Count = defCount
		}
		if req.TimeLimitSec <= 0 {
			req.TimeLimitSec = defTimeLimitSec
		}
		c, err := mgr.Start(r.Context(), course.Resolve(req.CourseID), uid, req.Count, req.TimeLimitSec)
		if err != nil {
			writeQuizError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// GET /quiz/sessions/{sessionID}
func GetSessionHandler(mgr *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedSession(w, r, mgr)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// POST /quiz/sessions/{sessionID}/answer {"question_id","option_index"}
func AnswerHandler(mgr *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedSession(w, r, mgr)
		if !ok {
			return
		}
		var req struct {
			QuestionID  string `json:"question_id"`
			OptionIndex int    `json:"option_index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == "" {
			http.Error(w, "question_id required", http.StatusBadRequest)
			return
		}
		if err := c.Answer(req.QuestionID, req.OptionIndex); err != nil {
			writeQuizError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// POST /quiz/sessions/{sessionID}/advance {"delta": 1}
func AdvanceHandler(mgr *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedSession(w, r, mgr)
		if !ok {
			return
		}
		var req struct {
			Delta int `json:"delta"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		c.Advance(req.Delta)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// POST /quiz/sessions/{sessionID}/submit: explicit completion. Repeating
// the call returns the same result without re-persisting.
func SubmitSessionHandler(mgr *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedSession(w, r, mgr)
		if !ok {
			return
		}
		c.Submit()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	}
}

// DELETE /quiz/sessions/{sessionID}: abandon without an attempt record.
func DiscardSessionHandler(mgr *quiz.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := ownedSession(w, r, mgr)
		if !ok {
			return
		}
		_ = c // ownership verified
		mgr.Discard(chi.URLParam(r, "sessionID"))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ownedSession loads the session and rejects callers who don't own it.
func ownedSession(w http.ResponseWriter, r *http.Request, mgr *quiz.Manager) (*quiz.Controller, bool) {
	id := chi.URLParam(r, "sessionID")
	c, ok := mgr.Get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	if c.UserID() != authmw.SubjectFromContext(r.Context()) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, false
	}
	return c, true
}

// writeQuizError maps the engine's error taxonomy onto HTTP statuses: a
// missing/empty bank blocks session creation, store trouble prompts a retry,
// and mutations after completion are a conflict.
func writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrNoQuestionsAvailable):
		http.Error(w, "No questions available for this course.", http.StatusNotFound)
	case errors.Is(err, quiz.ErrSessionTerminal):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, quiz.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, quiz.ErrStoreUnavailable):
		http.Error(w, "Failed to load questions. Please try again.", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
