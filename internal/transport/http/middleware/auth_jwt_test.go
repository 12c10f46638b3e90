package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clindoeil-api/internal/core/auth"
	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/repo/repotest"
)

func init() { gin.SetMode(gin.TestMode) }

func newGateEngine(j *auth.JWTer, users domain.UserRepository, roles ...string) *gin.Engine {
	r := gin.New()
	grp := r.Group("/", AuthJWT(j, users))
	if len(roles) > 0 {
		grp.Use(RequireRoles(roles...))
	}
	grp.GET("/secret", func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": u.ID})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedUser(t *testing.T, users *repotest.Users, role string) *domain.User {
	t.Helper()
	u := &domain.User{ID: "u-" + role, FullName: "Jane", Email: role + "@example.com", Role: role}
	require.NoError(t, users.Create(u))
	return u
}

func TestAuthJWTMissingHeader(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Minute}
	r := newGateEngine(j, repotest.NewUsers())

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
}

func TestAuthJWTBadToken(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Minute}
	r := newGateEngine(j, repotest.NewUsers())

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "garbage").Code)
}

func TestAuthJWTUserGone(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Minute}
	users := repotest.NewUsers()
	r := newGateEngine(j, users)

	tok, err := j.Issue("nobody")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, tok).Code)
}

func TestAuthJWTBannedUser(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Minute}
	users := repotest.NewUsers()
	u := seedUser(t, users, domain.RoleUser)
	r := newGateEngine(j, users)

	tok, err := j.Issue(u.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doGet(r, tok).Code)

	require.NoError(t, users.SoftDelete(u.ID))
	assert.Equal(t, http.StatusUnauthorized, doGet(r, tok).Code)
}

func TestAuthJWTPasswordChangedAfterIssue(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Minute}
	users := repotest.NewUsers()
	u := seedUser(t, users, domain.RoleUser)
	r := newGateEngine(j, users)

	tok, err := j.Issue(u.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doGet(r, tok).Code)

	changed := time.Now().Add(time.Minute)
	u.PasswordChangedAt = &changed
	require.NoError(t, users.Save(u))

	assert.Equal(t, http.StatusUnauthorized, doGet(r, tok).Code)
}

func TestRequireRoles(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Minute}
	users := repotest.NewUsers()
	plain := seedUser(t, users, domain.RoleUser)
	admin := seedUser(t, users, domain.RoleAdmin)
	r := newGateEngine(j, users, domain.RoleAdmin)

	plainTok, err := j.Issue(plain.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, doGet(r, plainTok).Code)

	adminTok, err := j.Issue(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doGet(r, adminTok).Code)
}
