package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clindoeil-api/internal/core/auth"
	"clindoeil-api/internal/repo/repotest"
	"clindoeil-api/internal/service"
	mdw "clindoeil-api/internal/transport/http/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

type nopNotifier struct{}

func (nopNotifier) SendVerificationLink(email, url string)  {}
func (nopNotifier) SendPasswordResetLink(email, url string) {}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type sessionData struct {
	AccessToken string `json:"accessToken"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

func newAuthRouter(t *testing.T) (*gin.Engine, *repotest.Users) {
	t.Helper()
	users := repotest.NewUsers()
	tokens := auth.NewTokenPair("clindoeil", "access-secret", 15*time.Minute, "refresh-secret", 24*time.Hour)
	svc := service.NewAuthService(users, tokens, nopNotifier{}, true)
	h := NewAuthHandler(svc, 30, false, "https://shop.test")

	r := gin.New()
	grp := r.Group("/api/auth")
	grp.POST("/register", h.Register)
	grp.POST("/login", h.Login)
	grp.GET("/logout", h.Logout)
	grp.GET("/refresh", h.Refresh)
	grp.POST("/forgot-password", h.ForgotPassword)

	protected := grp.Group("", mdw.AuthJWT(&tokens.Access, users))
	protected.PATCH("/update-password", h.UpdatePassword)
	protected.GET("/me", h.Me)
	return r, users
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) sessionData {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var s sessionData
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func refreshCookieOf(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == refreshCookie {
			return ck
		}
	}
	return nil
}

func register(t *testing.T, r *gin.Engine) (*httptest.ResponseRecorder, sessionData) {
	t.Helper()
	w := postJSON(r, "/api/auth/register", gin.H{
		"fullName": "Jane Doe",
		"email":    "jane@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return w, decodeSession(t, w)
}

func TestRegisterSetsSessionAndCookie(t *testing.T) {
	r, _ := newAuthRouter(t)
	w, sess := register(t, r)

	assert.NotEmpty(t, sess.AccessToken)
	assert.Equal(t, "jane@example.com", sess.User.Email)
	// The password hash must never appear in a response body.
	assert.NotContains(t, w.Body.String(), "passwordHash")

	ck := refreshCookieOf(w)
	require.NotNil(t, ck)
	assert.NotEmpty(t, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
	assert.Equal(t, 30*24*60*60, ck.MaxAge)
	assert.False(t, ck.Secure) // non-production config
}

func TestRegisterDuplicateIsBadRequest(t *testing.T) {
	r, _ := newAuthRouter(t)
	register(t, r)

	w := postJSON(r, "/api/auth/register", gin.H{
		"fullName": "Jane Again",
		"email":    "jane@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	r, _ := newAuthRouter(t)
	register(t, r)

	w := postJSON(r, "/api/auth/login", gin.H{"email": "jane@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/auth/login", gin.H{"email": "jane@example.com", "password": "password123"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLogoutOverwritesCookie(t *testing.T) {
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	ck := refreshCookieOf(w)
	require.NotNil(t, ck)
	assert.Equal(t, "loggedout", ck.Value)
	assert.LessOrEqual(t, ck.MaxAge, 10)
}

func TestRefresh(t *testing.T) {
	r, _ := newAuthRouter(t)
	reg, _ := register(t, r)
	ck := refreshCookieOf(reg)
	require.NotNil(t, ck)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: ck.Value})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "accessToken")

	// No cookie at all.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A mangled refresh token.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "garbage"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	r, _ := newAuthRouter(t)
	w := postJSON(r, "/api/auth/forgot-password", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdatePasswordInvalidatesOldToken(t *testing.T) {
	r, _ := newAuthRouter(t)
	_, sess := register(t, r)

	me := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	require.Equal(t, http.StatusOK, me(sess.AccessToken))

	// PasswordChangedAt is backdated one second, so the pre-change token has
	// to be older than that before the gate can reject it.
	time.Sleep(2100 * time.Millisecond)

	body, _ := json.Marshal(gin.H{"passwordCurrent": "password123", "password": "password456"})
	req := httptest.NewRequest(http.MethodPatch, "/api/auth/update-password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decodeSession(t, w)
	require.NotEmpty(t, fresh.AccessToken)

	assert.Equal(t, http.StatusUnauthorized, me(sess.AccessToken))
	assert.Equal(t, http.StatusOK, me(fresh.AccessToken))
}
