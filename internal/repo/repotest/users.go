// Package repotest holds in-memory repository implementations used by the
// service, middleware and handler tests.
package repotest

import (
	"sort"
	"sync"
	"time"

	"clindoeil-api/internal/domain"
)

type Users struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	deleted map[string]bool
}

func NewUsers() *Users {
	return &Users{byID: map[string]*domain.User{}, deleted: map[string]bool{}}
}

func cloneUser(u *domain.User) *domain.User { c := *u; return &c }

func (s *Users) Create(u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ex := range s.byID {
		if ex.Email == u.Email && !s.deleted[ex.ID] {
			return domain.ErrDuplicateEmail
		}
	}
	s.byID[u.ID] = cloneUser(u)
	return nil
}

func (s *Users) FindByID(id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok || s.deleted[id] {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *Users) FindByEmail(email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email && !s.deleted[u.ID] {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *Users) Save(u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[u.ID] = cloneUser(u)
	return nil
}

func (s *Users) List(offset, limit int) ([]domain.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.User
	for _, u := range s.byID {
		if !s.deleted[u.ID] {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *Users) SoftDelete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted[id] = true
	return nil
}

func (s *Users) ConsumeVerificationToken(tokenHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.EmailVerificationToken == tokenHash && tokenHash != "" && !s.deleted[u.ID] {
			u.IsEmailVerified = true
			u.EmailVerificationToken = ""
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidOrExpiredToken
}

func (s *Users) ConsumeResetToken(tokenHash string, now time.Time) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.ResetPasswordToken != tokenHash || tokenHash == "" || s.deleted[u.ID] {
			continue
		}
		if u.ResetPasswordExpires == nil || !u.ResetPasswordExpires.After(now) {
			break
		}
		u.ResetPasswordToken = ""
		u.ResetPasswordExpires = nil
		return cloneUser(u), nil
	}
	return nil, domain.ErrInvalidOrExpiredToken
}
