package domain

import "errors"

// Business errors. Handlers translate these to HTTP status codes; the
// messages shown to clients are deliberately generic where specificity
// would help an attacker (credentials, token consumption).
var (
	ErrValidation            = errors.New("invalid input")
	ErrDuplicateEmail        = errors.New("email already in use")
	ErrInvalidCredentials    = errors.New("incorrect email or password")
	ErrUnauthenticated       = errors.New("not authenticated")
	ErrForbidden             = errors.New("permission denied")
	ErrInvalidOrExpiredToken = errors.New("token is invalid or has expired")
	ErrNotFound              = errors.New("not found")
)
