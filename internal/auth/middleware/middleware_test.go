package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewAuthService("test-secret")

	tok, err := svc.IssueJWT("u1", "student")
	require.NoError(t, err)

	c, err := svc.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.Sub)
	assert.Equal(t, "student", c.Role)
	assert.Equal(t, "edutrack", c.Issuer)
}

func TestParseRejectsWrongKey(t *testing.T) {
	tok, err := NewAuthService("secret-a").IssueJWT("u1", "student")
	require.NoError(t, err)

	c, err := NewAuthService("secret-b").Parse(tok)
	assert.Error(t, err)
	assert.Nil(t, c)
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewAuthService("test-secret")

	var gotSub, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := JWTMiddleware(svc)(next)

	// No token.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Garbage token.
	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Valid token reaches the handler with identity attached.
	tok, err := svc.IssueJWT("u42", "teacher")
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "u42", gotSub)
	assert.Equal(t, "teacher", gotRole)
}
