package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"pictu/api/internal/models"
	"pictu/api/internal/repository"
)

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id string, role models.UserRole) error
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	users UserDirectory
	log   zerolog.Logger
}

func NewUserService(users UserDirectory, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetOne(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// UpdateRole changes a user's role. Admins may not change their own role.
func (s *UserService) UpdateRole(ctx context.Context, id string, role models.UserRole, actor models.User) (models.User, error) {
	if id == actor.ID {
		return models.User{}, ErrSelfAction
	}

	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	return s.users.GetByID(ctx, id)
}

func (s *UserService) Remove(ctx context.Context, id string, actor models.User) error {
	if id == actor.ID {
		return ErrSelfAction
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
