package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clindoeil-api/internal/service"
	mdw "clindoeil-api/internal/transport/http/middleware"
	resp "clindoeil-api/internal/transport/http/response"
)

const refreshCookie = "refreshToken"

type AuthHandler struct {
	svc        *service.AuthService
	cookieDays int
	secure     bool // gate the Secure attribute on the production flag
	siteBase   string
}

func NewAuthHandler(svc *service.AuthService, cookieDays int, secure bool, siteBase string) *AuthHandler {
	return &AuthHandler{svc: svc, cookieDays: cookieDays, secure: secure, siteBase: siteBase}
}

type registerIn struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.svc.Register(in.FullName, in.Email, in.Password, h.origin(c))
	if err != nil {
		resp.FromError(c, err)
		return
	}
	h.sendSession(c, http.StatusCreated, sess)
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.svc.Login(in.Email, in.Password)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	h.sendSession(c, http.StatusOK, sess)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.svc.VerifyEmail(c.Param("token")); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "email verified successfully, you can now log in"})
}

// Logout overwrites the refresh cookie with an expired placeholder. The
// server keeps no session state; any live access token simply runs out.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, "loggedout", 10, "/", "", h.secure, true)
	resp.OK(c, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		resp.Fail(c, http.StatusUnauthorized, "you are not logged in")
		return
	}
	access, err := h.svc.Refresh(token)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"accessToken": access})
}

type forgotIn struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in forgotIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.ForgotPassword(in.Email, h.origin(c)); err != nil {
		resp.FromError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "a reset link has been generated"})
}

type resetIn struct {
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in resetIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.svc.ResetPassword(c.Param("token"), in.Password)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	h.sendSession(c, http.StatusOK, sess)
}

type updatePasswordIn struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	u := mdw.CurrentUser(c)
	if u == nil {
		resp.Fail(c, http.StatusUnauthorized, "you are not logged in")
		return
	}
	var in updatePasswordIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Fail(c, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.svc.UpdatePassword(u, in.PasswordCurrent, in.Password)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	h.sendSession(c, http.StatusOK, sess)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u := mdw.CurrentUser(c)
	if u == nil {
		resp.Fail(c, http.StatusUnauthorized, "you are not logged in")
		return
	}
	resp.OK(c, gin.H{"user": u})
}

// sendSession writes the refresh cookie (HTTP-only, SameSite strict, Secure
// in production) and returns the access token with the sanitized user.
func (h *AuthHandler) sendSession(c *gin.Context, status int, sess *service.Session) {
	maxAge := h.cookieDays * 24 * 60 * 60
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookie, sess.RefreshToken, maxAge, "/", "", h.secure, true)

	body := gin.H{"accessToken": sess.AccessToken, "user": sess.User}
	if status == http.StatusCreated {
		resp.Created(c, body)
		return
	}
	resp.OK(c, body)
}

func (h *AuthHandler) origin(c *gin.Context) string {
	if o := c.GetHeader("Origin"); o != "" {
		return o
	}
	return h.siteBase
}
