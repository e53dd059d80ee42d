package course

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrEmptySelection rejects saving a selection with no courses in it.
var ErrEmptySelection = errors.New("select at least one course")

// SQLStore persists the course catalog and per-user selections.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// Upsert adds or renames a catalog course.
func (s *SQLStore) Upsert(ctx context.Context, c Course) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, name, created_at) VALUES ($1,$2,$3)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`,
		c.ID, c.Name, time.Now().Unix())
	return err
}

// Catalog lists every available course, sorted by name.
func (s *SQLStore) Catalog(ctx context.Context) ([]Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM courses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetSelection replaces the user's enrolled courses. Marks reset to zero for
// the new selection, matching the enrollment flow of the original tracker.
func (s *SQLStore) SetSelection(ctx context.Context, userID string, courseIDs []string) error {
	if len(courseIDs) == 0 {
		return ErrEmptySelection
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_courses WHERE user_id=$1`, userID); err != nil {
		return err
	}
	for _, id := range courseIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_courses (user_id, course_id, marks) VALUES ($1,$2,0)`,
			userID, Resolve(id)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Selection lists the user's enrolled courses with marks.
func (s *SQLStore) Selection(ctx context.Context, userID string) ([]Selection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, uc.marks
		   FROM user_courses uc
		   JOIN courses c ON c.id = uc.course_id
		  WHERE uc.user_id=$1
		  ORDER BY c.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Selection{}
	for rows.Next() {
		var sel Selection
		if err := rows.Scan(&sel.ID, &sel.Name, &sel.Marks); err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, rows.Err()
}

// Enrolled reports whether the user selected the given course.
func (s *SQLStore) Enrolled(ctx context.Context, userID, courseID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM user_courses WHERE user_id=$1 AND course_id=$2`,
		userID, Resolve(courseID)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
