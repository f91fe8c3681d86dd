package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finflow/backend/internal/security"
	"github.com/finflow/backend/internal/users"
)

func newAuthRig(t *testing.T) (*gin.Engine, *fakeUsers, *fakeRefresh, *security.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	usersRepo := newFakeUsers()
	refresh := newFakeRefresh()
	jwtm := security.NewJWTManager("secret", time.Minute, time.Hour)
	h := NewAuthHandler(zap.NewNop(), usersRepo, refresh, jwtm)

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.POST("/api/auth/logout", h.Logout)
	return r, usersRepo, refresh, jwtm
}

func registerUser(t *testing.T, repo *fakeUsers, email, password string) *users.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	u, err := repo.Create(context.Background(), "Test User", email, "+12025550199", hash)
	require.NoError(t, err)
	return u
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginWithForm(t *testing.T) {
	r, usersRepo, _, jwtm := newAuthRig(t)
	u := registerUser(t, usersRepo, "ada@example.com", "s3cretpass")

	w := postForm(r, "/api/auth/login", url.Values{
		"username": {"ada@example.com"},
		"password": {"s3cretpass"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens security.Tokens
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.Equal(t, int64(60), tokens.ExpiresIn)

	subject, err := jwtm.ParseAccess(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, subject)
}

func TestLoginWithJSON(t *testing.T) {
	r, usersRepo, _, _ := newAuthRig(t)
	registerUser(t, usersRepo, "ada@example.com", "s3cretpass")

	w := postJSON(r, "/api/auth/login", `{"username": "ada@example.com", "password": "s3cretpass"}`)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestLoginWrongPassword(t *testing.T) {
	r, usersRepo, _, _ := newAuthRig(t)
	registerUser(t, usersRepo, "ada@example.com", "s3cretpass")

	w := postForm(r, "/api/auth/login", url.Values{
		"username": {"ada@example.com"},
		"password": {"wrong"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail": "Incorrect email or password"}`, w.Body.String())
}

func TestLoginUnknownUser(t *testing.T) {
	r, _, _, _ := newAuthRig(t)

	w := postForm(r, "/api/auth/login", url.Values{
		"username": {"nobody@example.com"},
		"password": {"whatever"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail": "Incorrect email or password"}`, w.Body.String())
}

func TestRefreshRotatesAndRejectsReplay(t *testing.T) {
	r, usersRepo, _, _ := newAuthRig(t)
	registerUser(t, usersRepo, "ada@example.com", "s3cretpass")

	w := postForm(r, "/api/auth/login", url.Values{
		"username": {"ada@example.com"},
		"password": {"s3cretpass"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var tokens security.Tokens
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))

	w = postJSON(r, "/api/auth/refresh", `{"refresh_token": "`+tokens.RefreshToken+`"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rotated security.Tokens
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rotated))
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The consumed token must be dead.
	w = postJSON(r, "/api/auth/refresh", `{"refresh_token": "`+tokens.RefreshToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The rotated one still works.
	w = postJSON(r, "/api/auth/refresh", `{"refresh_token": "`+rotated.RefreshToken+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	r, _, _, _ := newAuthRig(t)
	forged := security.NewJWTManager("other-secret", time.Minute, time.Hour)
	tokens, _, err := forged.Issue(uuid.New())
	require.NoError(t, err)

	w := postJSON(r, "/api/auth/refresh", `{"refresh_token": "`+tokens.RefreshToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutConsumesRefresh(t *testing.T) {
	r, usersRepo, _, _ := newAuthRig(t)
	registerUser(t, usersRepo, "ada@example.com", "s3cretpass")

	w := postForm(r, "/api/auth/login", url.Values{
		"username": {"ada@example.com"},
		"password": {"s3cretpass"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var tokens security.Tokens
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))

	w = postJSON(r, "/api/auth/logout", `{"refresh_token": "`+tokens.RefreshToken+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// Logging out twice is fine; refreshing afterwards is not.
	w = postJSON(r, "/api/auth/logout", `{"refresh_token": "`+tokens.RefreshToken+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/api/auth/refresh", `{"refresh_token": "`+tokens.RefreshToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
