package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/edutrack/edutrack/internal/auth/middleware"
	"github.com/edutrack/edutrack/internal/quiz"
)

// asUser stamps every request with a fixed authenticated subject, standing in
// for the JWT middleware.
func asUser(uid string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(authmw.WithSubject(r.Context(), uid)))
		})
	}
}

func quizRouter(uid string, mgr *quiz.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(asUser(uid))
	r.Post("/quiz/sessions", StartSessionHandler(mgr, 10, 600))
	r.Get("/quiz/sessions/{sessionID}", GetSessionHandler(mgr))
	r.Post("/quiz/sessions/{sessionID}/answer", AnswerHandler(mgr))
	r.Post("/quiz/sessions/{sessionID}/advance", AdvanceHandler(mgr))
	r.Post("/quiz/sessions/{sessionID}/submit", SubmitSessionHandler(mgr))
	r.Delete("/quiz/sessions/{sessionID}", DiscardSessionHandler(mgr))
	return r
}

func seedBank(t *testing.T, store *quiz.MemoryStore, courseID string, n int) []quiz.Question {
	t.Helper()
	qs := make([]quiz.Question, n)
	for i := range qs {
		qs[i] = quiz.Question{
			ID:            fmt.Sprintf("q%d", i),
			Prompt:        fmt.Sprintf("question %d", i),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
		}
	}
	require.NoError(t, store.PutQuestionBank(context.Background(), courseID, qs))
	return qs
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestQuizSessionLifecycle(t *testing.T) {
	store := quiz.NewInMemoryStore()
	bank := seedBank(t, store, "softwareEngineering", 20)
	mgr := quiz.NewManager(store)
	h := quizRouter("u1", mgr)

	// Short course codes resolve to catalog IDs.
	rr := doJSON(t, h, http.MethodPost, "/quiz/sessions", `{"course_id":"SE","count":5}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Answer keys never reach the client.
	assert.NotContains(t, rr.Body.String(), "correct_answer")

	var view quiz.SessionView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	require.Len(t, view.Questions, 5)
	assert.Equal(t, "softwareEngineering", view.CourseID)
	assert.Equal(t, 600, view.Remaining)

	key := map[string]int{}
	for _, q := range bank {
		key[q.ID] = q.CorrectAnswer
	}
	base := "/quiz/sessions/" + view.ID
	for _, q := range view.Questions {
		rr = doJSON(t, h, http.MethodPost, base+"/answer",
			fmt.Sprintf(`{"question_id":%q,"option_index":%d}`, q.ID, key[q.ID]))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr = doJSON(t, h, http.MethodPost, base+"/advance", `{"delta":100}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, 4, view.Position)

	rr = doJSON(t, h, http.MethodPost, base+"/submit", ``)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.True(t, view.Terminal)
	require.NotNil(t, view.Result)
	assert.Equal(t, 100, view.Result.Score)

	// Answering after completion is a conflict.
	rr = doJSON(t, h, http.MethodPost, base+"/answer", `{"question_id":"q0","option_index":1}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	hist, err := store.AttemptHistory(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, hist["softwareEngineering"], 1)
}

func TestStartSessionNoBank(t *testing.T) {
	mgr := quiz.NewManager(quiz.NewInMemoryStore())
	rr := doJSON(t, quizRouter("u1", mgr), http.MethodPost, "/quiz/sessions", `{"course_id":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStartSessionBadRequest(t *testing.T) {
	mgr := quiz.NewManager(quiz.NewInMemoryStore())
	rr := doJSON(t, quizRouter("u1", mgr), http.MethodPost, "/quiz/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSessionOwnership(t *testing.T) {
	store := quiz.NewInMemoryStore()
	seedBank(t, store, "dataStructures", 10)
	mgr := quiz.NewManager(store)

	rr := doJSON(t, quizRouter("u1", mgr), http.MethodPost, "/quiz/sessions", `{"course_id":"dataStructures"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var view quiz.SessionView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))

	// Another user cannot read or drive the session.
	intruder := quizRouter("u2", mgr)
	rr = doJSON(t, intruder, http.MethodGet, "/quiz/sessions/"+view.ID, ``)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr = doJSON(t, intruder, http.MethodPost, "/quiz/sessions/"+view.ID+"/submit", ``)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, quizRouter("u1", mgr), http.MethodGet, "/quiz/sessions/nope", ``)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDiscardSession(t *testing.T) {
	store := quiz.NewInMemoryStore()
	seedBank(t, store, "dataStructures", 10)
	mgr := quiz.NewManager(store)
	h := quizRouter("u1", mgr)

	rr := doJSON(t, h, http.MethodPost, "/quiz/sessions", `{"course_id":"dataStructures"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var view quiz.SessionView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))

	rr = doJSON(t, h, http.MethodDelete, "/quiz/sessions/"+view.ID, ``)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/quiz/sessions/"+view.ID, ``)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	hist, err := store.AttemptHistory(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, hist)
}
