package http

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/edutrack/edutrack/internal/auth"
	authmw "github.com/edutrack/edutrack/internal/auth/middleware"
	"github.com/edutrack/edutrack/internal/course"
	"github.com/edutrack/edutrack/internal/quiz"
	"github.com/edutrack/edutrack/internal/studyplan"
)

// GET /me/study-plan: personalized recommendations from quiz performance,
// plus the general materials. An empty recommendation list means every topic
// average is at or above the threshold.
func StudyPlanHandler(store quiz.ResultStore, threshold float64) http.HandlerFunc {
	type out struct {
		Averages        map[string]float64          `json:"averages"`
		LowScoreTopics  []string                    `json:"low_score_topics"`
		Recommendations []studyplan.Resource        `json:"recommendations"`
		GeneralMaterial []studyplan.GeneralMaterial `json:"general_materials"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		hist, err := store.AttemptHistory(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		topics := studyplan.LowScoreTopics(hist, threshold, studyplan.DefaultTopicMap)
		if topics == nil {
			topics = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{
			Averages:        studyplan.Averages(hist),
			LowScoreTopics:  topics,
			Recommendations: studyplan.Recommend(hist, threshold, studyplan.DefaultTopicMap, studyplan.DefaultCatalog),
			GeneralMaterial: studyplan.GeneralMaterials,
		})
	}
}

// GET /me/progress: chronological score points for the progress chart.
func ProgressHandler(store quiz.ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		hist, err := store.AttemptHistory(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(studyplan.ProgressPoints(hist))
	}
}

// GET /me/attendance: login dates, newest first.
func AttendanceHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		dates, err := auth.LoginDates(r.Context(), db, uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"logins": dates})
	}
}

// GET /me/dashboard: stat cards: course count, overall average, attendance
// over the last 30 days, and the rotating study tip.
func DashboardHandler(db *sql.DB, courses *course.SQLStore, store quiz.ResultStore, tips *studyplan.TipPrefs) http.HandlerFunc {
	type out struct {
		TotalCourses   int     `json:"total_courses"`
		AverageScore   float64 `json:"average_score"`
		AttendancePct  int     `json:"attendance_pct"`
		MotivationText string  `json:"motivational_tip"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())

		sel, err := courses.Selection(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		hist, err := store.AttemptHistory(r.Context(), uid)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		total, n := 0, 0
		for _, attempts := range hist {
			for _, a := range attempts {
				total += a.Score
				n++
			}
		}
		avg := 0.0
		if n > 0 {
			avg = float64(total) / float64(n)
		}

		rate, err := auth.AttendanceRate(r.Context(), db, uid, 30, time.Now())
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		tip, err := tips.Next(r.Context(), uid)
		if err != nil {
			// tip rotation is decoration; the dashboard still renders
			log.Printf("dashboard: tip rotation user=%s: %v", uid, err)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out{
			TotalCourses:   len(sel),
			AverageScore:   avg,
			AttendancePct:  rate,
			MotivationText: tip,
		})
	}
}
