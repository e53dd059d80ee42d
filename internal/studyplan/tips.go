package studyplan

import (
	"context"
	"database/sql"
)

// Tips rotate on the dashboard, one per visit.
var Tips = []string{
	"Review your weakest topic for 20 minutes before anything else.",
	"Short, frequent quiz sessions beat one long cram.",
	"Explain a concept out loud as if teaching it to someone else.",
	"Retake a quiz a few days later to check what actually stuck.",
	"Plan tomorrow's study block before closing your books today.",
}

// TipPrefs stores the per-user rotation cursor. The cursor is an explicit
// persisted preference rather than process state, so rotation survives
// restarts and stays per-user.
type TipPrefs struct {
	db *sql.DB
}

func NewTipPrefs(db *sql.DB) *TipPrefs { return &TipPrefs{db: db} }

// Next returns the user's next tip and advances the cursor.
func (p *TipPrefs) Next(ctx context.Context, userID string) (string, error) {
	var last int
	err := p.db.QueryRowContext(ctx,
		`SELECT last_tip_index FROM user_prefs WHERE user_id=$1`, userID).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return "", err
	}

	next := (last + 1) % len(Tips)
	if err == sql.ErrNoRows {
		next = 0
	}

	if _, err := p.db.ExecContext(ctx,
		`INSERT INTO user_prefs (user_id, last_tip_index) VALUES ($1,$2)
		 ON CONFLICT (user_id) DO UPDATE SET last_tip_index=EXCLUDED.last_tip_index`,
		userID, next); err != nil {
		return "", err
	}
	return Tips[next], nil
}
