package service

import (
	"context"
	"fmt"
	"strings"

	"focushub/internal/microservices/http-api/dto"
	"focushub/internal/microservices/http-api/repository"
)

type UserService interface {
	GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error)
}

type userService struct {
	store repository.Store
}

func NewUserService(store repository.Store) UserService {
	return &userService{store: store}
}

// GetByUsername looks up a public profile. Usernames match exactly.
func (s *userService) GetByUsername(ctx context.Context, username string) (*dto.UserResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return dto.FromModelToUserResponse(user), nil
}
