package repo

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"clindoeil-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(u *domain.User) error {
	if err := r.db.Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) Save(u *domain.User) error { return r.db.Save(u).Error }

func (r *UserRepo) List(offset, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	tx := r.db.Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := tx.Offset(offset).Limit(limit).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) SoftDelete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.User{}).Error
}

func (r *UserRepo) ConsumeVerificationToken(tokenHash string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "email_verification_token = ?", tokenHash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	if err != nil {
		return nil, err
	}

	// Conditional update keyed on the stored hash: whoever clears it first
	// wins, a concurrent consumer sees zero rows.
	res := r.db.Model(&domain.User{}).
		Where("id = ? AND email_verification_token = ?", u.ID, tokenHash).
		Updates(map[string]any{
			"is_email_verified":        true,
			"email_verification_token": "",
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	u.IsEmailVerified = true
	u.EmailVerificationToken = ""
	return &u, nil
}

func (r *UserRepo) ConsumeResetToken(tokenHash string, now time.Time) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "reset_password_token = ? AND reset_password_expires > ?", tokenHash, now).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	if err != nil {
		return nil, err
	}

	res := r.db.Model(&domain.User{}).
		Where("id = ? AND reset_password_token = ?", u.ID, tokenHash).
		Updates(map[string]any{
			"reset_password_token":   "",
			"reset_password_expires": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInvalidOrExpiredToken
	}
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
	return &u, nil
}

// isDupKey avoids depending on gorm.ErrDuplicatedKey, which not every
// dialector reports.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
