package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/edutrack/edutrack/internal/api/http"
	"github.com/edutrack/edutrack/internal/auth"
	authmw "github.com/edutrack/edutrack/internal/auth/middleware"
	"github.com/edutrack/edutrack/internal/config"
	"github.com/edutrack/edutrack/internal/course"
	"github.com/edutrack/edutrack/internal/db"
	"github.com/edutrack/edutrack/internal/quiz"
	"github.com/edutrack/edutrack/internal/rbac"
	"github.com/edutrack/edutrack/internal/studyplan"
	syncx "github.com/edutrack/edutrack/internal/sync"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	hub := syncx.NewHub()
	resultStore := quiz.NewSQLStore(dbh, hub)
	sessions := quiz.NewManager(resultStore)
	courses := course.NewSQLStore(dbh)
	tips := studyplan.NewTipPrefs(dbh)

	authSvc := authmw.NewAuthService(cfg.AuthHMACSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public: account creation and sign-in
	r.Post("/auth/signup", auth.SignupHandler(dbh, authSvc))
	r.Post("/auth/login", auth.LoginHandler(dbh, authSvc))

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))

		// Session restore + profile (any authenticated role)
		pr.Get("/auth/me", auth.MeHandler(dbh))
		pr.Put("/auth/profile", auth.UpdateProfileHandler(dbh))

		// Course catalog and enrollment
		pr.With(rbac.Require("courses:view")).
			Get("/courses", api.ListCoursesHandler(courses))
		pr.With(rbac.Require("courses:manage")).
			Put("/courses", api.UpsertCourseHandler(courses))
		pr.With(rbac.Require("courses:select")).
			Get("/me/courses", api.MyCoursesHandler(courses))
		pr.With(rbac.Require("courses:select")).
			Put("/me/courses", api.SetMyCoursesHandler(courses))

		// Question banks (teacher side)
		pr.With(rbac.Require("questions:import")).
			Post("/courses/{courseID}/questions", api.ImportQuestionsHandler(resultStore))
		pr.With(rbac.Require("questions:view")).
			Get("/courses/{courseID}/questions", api.GetQuestionsHandler(resultStore))

		// Quiz flow
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/sessions", api.StartSessionHandler(sessions, cfg.QuizQuestionCount, cfg.QuizTimeLimitSec))
		pr.With(rbac.Require("quiz:take")).
			Get("/quiz/sessions/{sessionID}", api.GetSessionHandler(sessions))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/sessions/{sessionID}/answer", api.AnswerHandler(sessions))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/sessions/{sessionID}/advance", api.AdvanceHandler(sessions))
		pr.With(rbac.Require("quiz:take")).
			Post("/quiz/sessions/{sessionID}/submit", api.SubmitSessionHandler(sessions))
		pr.With(rbac.Require("quiz:take")).
			Delete("/quiz/sessions/{sessionID}", api.DiscardSessionHandler(sessions))

		// Results, study plan, dashboard
		pr.With(rbac.Require("results:view-own")).
			Get("/me/results", api.MyResultsHandler(resultStore))
		pr.With(rbac.Require("results:view-own")).
			Get("/me/results/stream", api.StreamResultsHandler(resultStore))
		pr.With(rbac.Require("results:view-own")).
			Get("/me/study-plan", api.StudyPlanHandler(resultStore, cfg.StudyPlanThreshold))
		pr.With(rbac.Require("results:view-own")).
			Get("/me/progress", api.ProgressHandler(resultStore))
		pr.With(rbac.Require("results:view-own")).
			Get("/me/dashboard", api.DashboardHandler(dbh, courses, resultStore, tips))
		pr.With(rbac.Require("results:view-own")).
			Get("/me/attendance", api.AttendanceHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
