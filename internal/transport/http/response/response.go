package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clindoeil-api/internal/domain"
)

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New keeps data non-null so clients never see "data": null.
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

// OK writes a 200 with the standard envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, New(CodeOK, CodeMsgMap[CodeOK], data))
}

// Created writes a 201.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, New(CodeOK, CodeMsgMap[CodeOK], data))
}

// Fail writes the envelope with a matching HTTP status.
func Fail(c *gin.Context, status int, msg string) {
	if msg == "" {
		msg = CodeMsgMap[status]
	}
	c.JSON(status, New(status, msg, struct{}{}))
}

// AbortFail is Fail plus middleware-chain abort.
func AbortFail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, New(status, msg, struct{}{}))
}

// FromError maps the domain error taxonomy to HTTP statuses. Anything
// unrecognized is an unexpected infrastructure failure and surfaces as 500
// with a generic message.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrInvalidOrExpiredToken):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthenticated):
		Fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		Fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	default:
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, CodeMsgMap[CodeServerError])
	}
}
