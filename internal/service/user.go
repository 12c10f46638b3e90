package service

import "clindoeil-api/internal/domain"

// UserService backs the admin surface: listing and banning accounts.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(offset, limit int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(offset, limit)
}

// Ban soft-deletes the account; the auth middleware then treats the user as
// gone and rejects outstanding tokens.
func (s *UserService) Ban(id string) error {
	u, err := s.users.FindByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	return s.users.SoftDelete(id)
}
