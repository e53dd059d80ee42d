package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	syncx "github.com/edutrack/edutrack/internal/sync"
)

// SQLStore is the ResultStore backed by the application database. It works
// against both sqlite and postgres (schema in internal/db). Change
// notification goes through an in-process hub; the event log keeps the raw
// append-only record of every attempt.
type SQLStore struct {
	db     *sql.DB
	hub    *syncx.Hub
	events *syncx.EventRepo
}

func NewSQLStore(db *sql.DB, hub *syncx.Hub) *SQLStore {
	return &SQLStore{db: db, hub: hub, events: syncx.NewEventRepo(db)}
}

// PutQuestionBank replaces the bank for a course. Used by the teacher-side
// import endpoint; the engine itself never mutates banks.
func (s *SQLStore) PutQuestionBank(ctx context.Context, courseID string, qs []Question) error {
	qj, err := json.Marshal(qs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO question_banks (course_id, questions_json, updated_at)
		 VALUES ($1,$2,$3)
		 ON CONFLICT (course_id) DO UPDATE SET questions_json=EXCLUDED.questions_json, updated_at=EXCLUDED.updated_at`,
		courseID, string(qj), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *SQLStore) FetchQuestionBank(ctx context.Context, courseID string) ([]Question, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT questions_json FROM question_banks WHERE course_id=$1`, courseID)
	var qjson string
	if err := row.Scan(&qjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: question bank %s", ErrNotFound, courseID)
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	var qs []Question
	if err := json.Unmarshal([]byte(qjson), &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

func (s *SQLStore) AppendAttempt(ctx context.Context, userID string, r AttemptResult) error {
	// Fresh timestamp-derived key per completion, matching the
	// userResults/{uid}/{courseId}/{ts} layout of the original store.
	id := strconv.FormatInt(time.Now().UnixMilli(), 10)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (id, user_id, course_id, score, total_questions, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		id, userID, r.CourseID, r.Score, r.TotalQuestions, r.CompletedAt.Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	dj, _ := json.Marshal(r)
	if err := s.events.Append(ctx, syncx.Event{
		Type:     "AttemptRecorded",
		Key:      userID + "|" + r.CourseID + "|" + id,
		DataJSON: string(dj),
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if s.hub != nil {
		s.hub.Notify(userID)
	}
	return nil
}

func (s *SQLStore) AttemptHistory(ctx context.Context, userID string) (AttemptHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT course_id, score, total_questions, completed_at
		   FROM attempts WHERE user_id=$1 ORDER BY completed_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	hist := AttemptHistory{}
	for rows.Next() {
		var r AttemptResult
		var completed int64
		if err := rows.Scan(&r.CourseID, &r.Score, &r.TotalQuestions, &completed); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		r.CompletedAt = time.Unix(completed, 0).UTC()
		hist[r.CourseID] = append(hist[r.CourseID], r)
	}
	return hist, rows.Err()
}

func (s *SQLStore) WatchAttemptHistory(ctx context.Context, userID string, fn func(AttemptHistory)) (func(), error) {
	if s.hub == nil {
		return nil, fmt.Errorf("%w: watch requires a hub", ErrStoreUnavailable)
	}
	push := func() {
		if h, err := s.AttemptHistory(ctx, userID); err == nil {
			fn(h)
		}
	}
	cancel := s.hub.Subscribe(userID, push)
	push() // initial snapshot
	return cancel, nil
}
