package auth

import (
	"context"
	"database/sql"
	"time"
)

// MarkLogin records today's sign-in for the user. The marker is keyed by
// calendar day, so repeated sign-ins on the same date are a no-op.
func MarkLogin(ctx context.Context, db *sql.DB, userID string, now time.Time) error {
	day := now.Format("2006-01-02")
	_, err := db.ExecContext(ctx,
		`INSERT INTO attendance (user_id, login_date) VALUES ($1,$2)
		 ON CONFLICT (user_id, login_date) DO NOTHING`,
		userID, day)
	return err
}

// LoginDates lists the user's attendance markers, newest first.
func LoginDates(ctx context.Context, db *sql.DB, userID string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT login_date FROM attendance WHERE user_id=$1 ORDER BY login_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// AttendanceRate returns the share of the last `days` calendar days with a
// login marker, as an integer percentage.
func AttendanceRate(ctx context.Context, db *sql.DB, userID string, days int, now time.Time) (int, error) {
	if days <= 0 {
		days = 30
	}
	since := now.AddDate(0, 0, -days+1).Format("2006-01-02")
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance WHERE user_id=$1 AND login_date >= $2`,
		userID, since).Scan(&n)
	if err != nil {
		return 0, err
	}
	return 100 * n / days, nil
}
