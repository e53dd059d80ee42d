package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/edutrack/edutrack/internal/auth/middleware"
)

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rr
}

func TestSignupAndLogin(t *testing.T) {
	dbh := openTestDB(t)
	svc := authmw.NewAuthService("test-secret")

	signup := SignupHandler(dbh, svc)
	rr := postJSON(t, signup,
		`{"email":"Ada@Example.com","password":"hunter22","username":"ada","full_name":"Ada Lovelace"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "ada", resp.User.Username)
	assert.Equal(t, "ada@example.com", resp.User.Email, "emails are normalized")
	assert.Equal(t, "student", resp.User.Role)
	assert.Contains(t, resp.User.AvatarURL, "ui-avatars.com")
	assert.Contains(t, resp.User.AvatarURL, "Ada+Lovelace")

	claims, err := svc.Parse(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.Sub)
	assert.Equal(t, "student", claims.Role)

	// Duplicate email is a conflict.
	rr = postJSON(t, signup,
		`{"email":"ada@example.com","password":"hunter22","username":"ada2","full_name":"Ada"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	login := LoginHandler(dbh, svc)
	rr = postJSON(t, login, `{"email":"ada@example.com","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postJSON(t, login, `{"email":"nobody@example.com","password":"hunter22"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = postJSON(t, login, `{"email":"ADA@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ada", resp.User.Username)

	// Signup plus login on the same day leave a single attendance marker.
	dates, err := LoginDates(context.Background(), dbh, resp.User.ID)
	require.NoError(t, err)
	assert.Len(t, dates, 1)
}

func TestSignupValidation(t *testing.T) {
	dbh := openTestDB(t)
	signup := SignupHandler(dbh, authmw.NewAuthService("test-secret"))

	rr := postJSON(t, signup, `{"email":"a@b.c","password":"short","username":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postJSON(t, signup, `{"password":"long-enough","username":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = postJSON(t, signup, `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMeAndProfileUpdate(t *testing.T) {
	dbh := openTestDB(t)
	svc := authmw.NewAuthService("test-secret")

	rr := postJSON(t, SignupHandler(dbh, svc),
		`{"email":"g@example.com","password":"hunter22","username":"grace","full_name":"Grace Hopper"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	withSub := func(r *http.Request) *http.Request {
		return r.WithContext(authmw.WithSubject(r.Context(), resp.User.ID))
	}

	rr = httptest.NewRecorder()
	MeHandler(dbh).ServeHTTP(rr, withSub(httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Equal(t, http.StatusOK, rr.Code)
	var u UserHandle
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &u))
	assert.Equal(t, "grace", u.Username)

	rr = httptest.NewRecorder()
	UpdateProfileHandler(dbh).ServeHTTP(rr, withSub(httptest.NewRequest(
		http.MethodPut, "/", strings.NewReader(`{"full_name":"Rear Admiral Grace Hopper"}`))))
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &u))
	assert.Equal(t, "Rear Admiral Grace Hopper", u.FullName)
	assert.Contains(t, u.AvatarURL, "Rear+Admiral")
}
