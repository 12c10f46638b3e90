package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var emailRe = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// ResetTokenTTL is the validity window of a password-reset token.
const ResetTokenTTL = 10 * time.Minute

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	FullName     string `gorm:"size:64;not null" json:"fullName"`
	Email        string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Role         string `gorm:"size:16;not null;default:USER" json:"role"`

	IsEmailVerified        bool   `gorm:"not null;default:false" json:"isEmailVerified"`
	EmailVerificationToken string `gorm:"size:64;index" json:"-"`

	// Set on every password change except initial creation. Tokens issued
	// before this instant are rejected by the auth middleware.
	PasswordChangedAt *time.Time `json:"-"`

	ResetPasswordToken   string     `gorm:"size:64;index" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Before(*u.PasswordChangedAt)
}

// NewVerificationToken generates a raw email-verification token and stores
// only its one-way hash on the user. The raw value is delivered out-of-band
// and never persisted.
func (u *User) NewVerificationToken() string {
	raw := randomToken()
	u.EmailVerificationToken = HashToken(raw)
	return raw
}

// NewResetToken generates a raw password-reset token, stores its hash and a
// 10-minute expiry on the user, and returns the raw value.
func (u *User) NewResetToken(now time.Time) string {
	raw := randomToken()
	u.ResetPasswordToken = HashToken(raw)
	exp := now.Add(ResetTokenTTL)
	u.ResetPasswordExpires = &exp
	return raw
}

// HashToken is the one-way digest stored in place of a raw verification or
// reset token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NormalizeEmail lowercases and trims an address the way the user schema
// stores it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool { return emailRe.MatchString(email) }

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	Save(u *User) error
	List(offset, limit int) ([]User, int64, error)
	SoftDelete(id string) error

	// ConsumeVerificationToken marks the matching user verified and clears
	// the token in one conditional update. Returns ErrInvalidOrExpiredToken
	// when no row matches.
	ConsumeVerificationToken(tokenHash string) (*User, error)

	// ConsumeResetToken clears a matching, unexpired reset token in one
	// conditional update so a token is consumed at most once under
	// concurrent requests. Returns ErrInvalidOrExpiredToken when no row
	// matches.
	ConsumeResetToken(tokenHash string, now time.Time) (*User, error)
}
