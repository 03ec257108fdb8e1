package services

import (
	"context"

	"github.com/glucolog/glucolog/internal/domain"
)

// UserService resolves accounts for request scoping.
type UserService struct {
	users domain.UserRepository
}

func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	return s.users.GetUserByToken(ctx, token)
}
