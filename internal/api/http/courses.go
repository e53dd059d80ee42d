package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authmw "github.com/edutrack/edutrack/internal/auth/middleware"
	"github.com/edutrack/edutrack/internal/course"
)

// Handlers only: routes remain in main.go

// GET /courses: the catalog every student picks from.
func ListCoursesHandler(store *course.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.Catalog(r.Context())
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

// PUT /courses {"id","name"}: teacher-side catalog upsert.
func UpsertCourseHandler(store *course.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req course.Course
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
			strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Name) == "" {
			http.Error(w, "id and name required", http.StatusBadRequest)
			return
		}
		if err := store.Upsert(r.Context(), req); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(req)
	}
}

// GET /me/courses: the caller's selection with marks.
func MyCoursesHandler(store *course.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		sel, err := store.Selection(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sel)
	}
}

// PUT /me/courses {"course_ids": [...]}: replaces the selection.
func SetMyCoursesHandler(store *course.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		var req struct {
			CourseIDs []string `json:"course_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := store.SetSelection(r.Context(), uid, req.CourseIDs); err != nil {
			if errors.Is(err, course.ErrEmptySelection) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		sel, err := store.Selection(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sel)
	}
}
