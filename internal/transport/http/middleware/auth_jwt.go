package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"clindoeil-api/internal/core/auth"
	"clindoeil-api/internal/domain"
	resp "clindoeil-api/internal/transport/http/response"
)

// CtxUserKey is where AuthJWT stashes the authenticated *domain.User.
const CtxUserKey = "currentUser"

// AuthJWT authenticates the bearer token and loads the current user. The
// four rejection cases (missing/malformed token, verification failure, user
// gone, password changed after issuance) are all 401; the password check is
// the only server-side revocation mechanism for otherwise stateless tokens.
func AuthJWT(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.AbortFail(c, http.StatusUnauthorized, "you are not logged in")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortFail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		u, err := users.FindByID(claims.UID)
		if err != nil {
			resp.AbortFail(c, http.StatusInternalServerError, "internal error")
			return
		}
		if u == nil {
			resp.AbortFail(c, http.StatusUnauthorized, "the user belonging to this token no longer exists")
			return
		}
		if claims.IssuedAt != nil && u.ChangedPasswordAfter(claims.IssuedAt.Time) {
			resp.AbortFail(c, http.StatusUnauthorized, "password was changed recently, please log in again")
			return
		}

		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// RequireRoles gates a route to the given roles. Pure check, no I/O.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			resp.AbortFail(c, http.StatusUnauthorized, "you are not logged in")
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		resp.AbortFail(c, http.StatusForbidden, "you do not have permission to perform this action")
	}
}

func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(CtxUserKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
