package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack/internal/quiz"
)

func TestMyResultsHandler(t *testing.T) {
	store := quiz.NewInMemoryStore()
	require.NoError(t, store.AppendAttempt(context.Background(), "u1", quiz.AttemptResult{
		CourseID: "dataStructures", Score: 80, CompletedAt: time.Now(), TotalQuestions: 10,
	}))

	r := chi.NewRouter()
	r.Use(asUser("u1"))
	r.Get("/me/results", MyResultsHandler(store))

	rr := doJSON(t, r, http.MethodGet, "/me/results", ``)
	require.Equal(t, http.StatusOK, rr.Code)

	var hist quiz.AttemptHistory
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &hist))
	require.Len(t, hist["dataStructures"], 1)
	assert.Equal(t, 80, hist["dataStructures"][0].Score)
}

func TestStreamResultsPushesUpdates(t *testing.T) {
	store := quiz.NewInMemoryStore()

	r := chi.NewRouter()
	r.Use(asUser("u1"))
	r.Get("/me/results/stream", StreamResultsHandler(store))

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/me/results/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	readEvent := func() quiz.AttemptHistory {
		t.Helper()
		for sc.Scan() {
			line := sc.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var h quiz.AttemptHistory
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &h))
			return h
		}
		t.Fatalf("stream closed early: %v", sc.Err())
		return nil
	}

	assert.Empty(t, readEvent(), "first event is the current, empty history")

	require.NoError(t, store.AppendAttempt(context.Background(), "u1", quiz.AttemptResult{
		CourseID: "softwareEngineering", Score: 90, CompletedAt: time.Now(), TotalQuestions: 10,
	}))

	h := readEvent()
	require.Len(t, h["softwareEngineering"], 1)
	assert.Equal(t, 90, h["softwareEngineering"][0].Score)
}
