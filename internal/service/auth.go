package service

import (
	"fmt"
	"time"

	"clindoeil-api/internal/core/auth"
	"clindoeil-api/internal/domain"
	"clindoeil-api/internal/notify"
	"clindoeil-api/pkg/utils"
)

const minPasswordLen = 8

// Session is what every successful auth operation hands back: a short-lived
// access token for the response body, a refresh token destined for the
// HTTP-only cookie, and the user with the credential hash already excluded
// by its JSON mapping.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

// AuthService orchestrates the session lifecycle: registration, login,
// refresh, the reset/verification token flows and password changes.
type AuthService struct {
	users      domain.UserRepository
	tokens     *auth.TokenPair
	notifier   notify.Notifier
	autoVerify bool

	// Now is the clock; tests move it to exercise expiry windows.
	Now func() time.Time
}

func NewAuthService(users domain.UserRepository, tokens *auth.TokenPair, notifier notify.Notifier, autoVerify bool) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		notifier:   notifier,
		autoVerify: autoVerify,
		Now:        time.Now,
	}
}

// Register creates the user and logs them in immediately. When the
// auto-verify toggle is off, a single-use verification token is generated
// and delivered out-of-band; its hash is the only thing persisted.
func (s *AuthService) Register(fullName, email, password, origin string) (*Session, error) {
	email = domain.NormalizeEmail(email)
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name is required", domain.ErrValidation)
	}
	if !domain.ValidEmail(email) {
		return nil, fmt.Errorf("%w: please provide a valid email", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	u := &domain.User{
		ID:              utils.NewID(),
		FullName:        fullName,
		Email:           email,
		PasswordHash:    utils.HashPassword(password),
		Role:            domain.RoleUser,
		IsEmailVerified: s.autoVerify,
	}

	var rawVerification string
	if !s.autoVerify {
		rawVerification = u.NewVerificationToken()
	}

	if err := s.users.Create(u); err != nil {
		return nil, err
	}

	if rawVerification != "" {
		s.notifier.SendVerificationLink(u.Email, origin+"/verify-email/"+rawVerification)
	}

	return s.issueSession(u)
}

// Login fails identically for an unknown email and a wrong password.
func (s *AuthService) Login(email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: please provide email and password", domain.ErrValidation)
	}
	u, err := s.users.FindByEmail(domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issueSession(u)
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself is not rotated; it stays good until its own expiry.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := s.tokens.Refresh.Parse(refreshToken)
	if err != nil {
		return "", domain.ErrUnauthenticated
	}
	u, err := s.users.FindByID(claims.UID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", domain.ErrUnauthenticated
	}
	return s.tokens.Access.Issue(u.ID)
}

// VerifyEmail consumes a raw verification token. Never-issued, already
// consumed and malformed tokens are indistinguishable to the caller.
func (s *AuthService) VerifyEmail(rawToken string) error {
	_, err := s.users.ConsumeVerificationToken(domain.HashToken(rawToken))
	return err
}

// ForgotPassword issues a reset token and delivers the raw value through the
// notification channel. Unknown emails surface as ErrNotFound; this leaks
// account existence and is kept as-is deliberately.
func (s *AuthService) ForgotPassword(email, origin string) error {
	u, err := s.users.FindByEmail(domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: there is no user with that email address", domain.ErrNotFound)
	}
	raw := u.NewResetToken(s.Now())
	if err := s.users.Save(u); err != nil {
		return err
	}
	s.notifier.SendPasswordResetLink(u.Email, origin+"/reset-password/"+raw)
	return nil
}

// ResetPassword consumes the token (at most once, enforced by the store's
// conditional update), sets the new password and opens a fresh session.
func (s *AuthService) ResetPassword(rawToken, newPassword string) (*Session, error) {
	if len(newPassword) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	u, err := s.users.ConsumeResetToken(domain.HashToken(rawToken), s.Now())
	if err != nil {
		return nil, err
	}
	s.setPassword(u, newPassword)
	if err := s.users.Save(u); err != nil {
		return nil, err
	}
	return s.issueSession(u)
}

// UpdatePassword changes an authenticated user's password after verifying
// the current one, then re-issues the token pair.
func (s *AuthService) UpdatePassword(u *domain.User, current, newPassword string) (*Session, error) {
	if !utils.CheckPassword(current, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}
	s.setPassword(u, newPassword)
	if err := s.users.Save(u); err != nil {
		return nil, err
	}
	return s.issueSession(u)
}

// setPassword re-hashes and stamps PasswordChangedAt one second in the past
// so a token issued in the same instant is still rejected.
func (s *AuthService) setPassword(u *domain.User, password string) {
	u.PasswordHash = utils.HashPassword(password)
	changed := s.Now().Add(-time.Second)
	u.PasswordChangedAt = &changed
}

func (s *AuthService) issueSession(u *domain.User) (*Session, error) {
	access, err := s.tokens.Access.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Refresh.Issue(u.ID)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: u}, nil
}
