package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edutrack/edutrack/internal/course"
	"github.com/edutrack/edutrack/internal/quiz"
)

// POST /courses/{courseID}/questions: teacher-side bank import. Body is a
// JSON array of questions with answer keys.
func ImportQuestionsHandler(store *quiz.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := course.Resolve(chi.URLParam(r, "courseID"))
		var qs []quiz.Question
		if err := json.NewDecoder(r.Body).Decode(&qs); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if len(qs) == 0 {
			http.Error(w, "at least one question required", http.StatusBadRequest)
			return
		}
		for _, q := range qs {
			if q.ID == "" || q.Prompt == "" || len(q.Options) < 2 ||
				q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
				http.Error(w, "question "+q.ID+": prompt, 2+ options and a valid correct_answer required", http.StatusBadRequest)
				return
			}
		}
		if err := store.PutQuestionBank(r.Context(), courseID, qs); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"course_id": courseID, "imported": len(qs)})
	}
}

// GET /courses/{courseID}/questions: full bank for teachers, answer keys
// included.
func GetQuestionsHandler(store *quiz.SQLStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courseID := course.Resolve(chi.URLParam(r, "courseID"))
		qs, err := store.FetchQuestionBank(r.Context(), courseID)
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(qs)
	}
}
