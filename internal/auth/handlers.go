package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	authmw "github.com/edutrack/edutrack/internal/auth/middleware"
)

// UserHandle is the authenticated identity returned to clients.
type UserHandle struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatar_url"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	User        UserHandle `json:"user"`
}

// POST /auth/signup {"email","password","username","full_name"}
func SignupHandler(db *sql.DB, a *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Username string `json:"username"`
			FullName string `json:"full_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Username == "" || len(req.Password) < 6 {
			http.Error(w, "email, username and a password of 6+ characters required", http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		now := time.Now()
		u := UserHandle{
			ID:           uuid.NewString(),
			Username:     req.Username,
			FullName:     req.FullName,
			Email:        req.Email,
			AvatarURL:    avatarURL(req.FullName),
			Role:         "student",
			CreatedAt:    now,
			LastSignInAt: now,
		}
		_, err = db.ExecContext(r.Context(),
			`INSERT INTO users (id, username, full_name, email, password_hash, avatar_url, role, created_at, last_sign_in_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			u.ID, u.Username, u.FullName, u.Email, string(hash), u.AvatarURL, u.Role, now.Unix(), now.Unix())
		if err != nil {
			// unique violation on username/email lands here for both drivers
			http.Error(w, "username or email already taken", http.StatusConflict)
			return
		}

		recordLogin(r, db, u.ID, now)

		tok, err := a.IssueJWT(u.ID, u.Role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: tok, User: u})
	}
}

// POST /auth/login {"email","password"}
func LoginHandler(db *sql.DB, a *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))

		u, hash, err := userByEmail(r, db, req.Email)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		now := time.Now()
		u.LastSignInAt = now
		_, _ = db.ExecContext(r.Context(), `UPDATE users SET last_sign_in_at=$1 WHERE id=$2`, now.Unix(), u.ID)
		recordLogin(r, db, u.ID, now)

		tok, err := a.IssueJWT(u.ID, u.Role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: tok, User: u})
	}
}

// GET /auth/me: session restore for a held token.
func MeHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		u, err := userByID(r, db, uid)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(u)
	}
}

// PUT /auth/profile {"full_name","avatar_url"}
func UpdateProfileHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := authmw.SubjectFromContext(r.Context())
		var req struct {
			FullName  string `json:"full_name"`
			AvatarURL string `json:"avatar_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.FullName) == "" {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.AvatarURL == "" {
			req.AvatarURL = avatarURL(req.FullName)
		}
		if _, err := db.ExecContext(r.Context(),
			`UPDATE users SET full_name=$1, avatar_url=$2 WHERE id=$3`,
			req.FullName, req.AvatarURL, uid); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		u, err := userByID(r, db, uid)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(u)
	}
}

// recordLogin writes the once-per-day attendance marker. Best-effort: a
// failed marker never blocks sign-in.
func recordLogin(r *http.Request, db *sql.DB, userID string, now time.Time) {
	if err := MarkLogin(r.Context(), db, userID, now); err != nil {
		log.Printf("auth: record login date user=%s: %v", userID, err)
	}
}

func userByEmail(r *http.Request, db *sql.DB, email string) (UserHandle, string, error) {
	row := db.QueryRowContext(r.Context(),
		`SELECT id, username, full_name, email, password_hash, avatar_url, role, created_at, last_sign_in_at
		   FROM users WHERE email=$1`, email)
	return scanUser(row)
}

func userByID(r *http.Request, db *sql.DB, id string) (UserHandle, error) {
	row := db.QueryRowContext(r.Context(),
		`SELECT id, username, full_name, email, password_hash, avatar_url, role, created_at, last_sign_in_at
		   FROM users WHERE id=$1`, id)
	u, _, err := scanUser(row)
	return u, err
}

func scanUser(row *sql.Row) (UserHandle, string, error) {
	var u UserHandle
	var hash string
	var created, lastSignIn int64
	if err := row.Scan(&u.ID, &u.Username, &u.FullName, &u.Email, &hash, &u.AvatarURL, &u.Role, &created, &lastSignIn); err != nil {
		return UserHandle{}, "", err
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	u.LastSignInAt = time.Unix(lastSignIn, 0).UTC()
	return u, hash, nil
}

// avatarURL derives a deterministic placeholder avatar from the name.
func avatarURL(fullName string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(fullName) + "&background=random"
}
