package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pictu/api/internal/models"
	"pictu/api/internal/repository"
)

func TestUserServiceUpdateRole(t *testing.T) {
	admin := models.User{ID: "admin-1", Role: models.UserRoleAdmin}

	t.Run("admin cannot change own role", func(t *testing.T) {
		users := new(mockUserDirectory)
		svc := NewUserService(users, zerolog.Nop())

		_, err := svc.UpdateRole(context.Background(), admin.ID, models.UserRoleUser, admin)
		require.ErrorIs(t, err, ErrSelfAction)
		users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("promotes another user", func(t *testing.T) {
		users := new(mockUserDirectory)
		svc := NewUserService(users, zerolog.Nop())

		promoted := models.User{ID: "u2", Role: models.UserRoleAdmin}
		users.On("UpdateRole", mock.Anything, "u2", models.UserRoleAdmin).Return(nil)
		users.On("GetByID", mock.Anything, "u2").Return(promoted, nil)

		user, err := svc.UpdateRole(context.Background(), "u2", models.UserRoleAdmin, admin)
		require.NoError(t, err)
		assert.Equal(t, models.UserRoleAdmin, user.Role)
	})

	t.Run("unknown user maps to not found", func(t *testing.T) {
		users := new(mockUserDirectory)
		svc := NewUserService(users, zerolog.Nop())
		users.On("UpdateRole", mock.Anything, "missing", models.UserRoleUser).Return(repository.ErrUserNotFound)

		_, err := svc.UpdateRole(context.Background(), "missing", models.UserRoleUser, admin)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestUserServiceRemove(t *testing.T) {
	admin := models.User{ID: "admin-1", Role: models.UserRoleAdmin}

	t.Run("admin cannot delete themselves", func(t *testing.T) {
		users := new(mockUserDirectory)
		svc := NewUserService(users, zerolog.Nop())

		require.ErrorIs(t, svc.Remove(context.Background(), admin.ID, admin), ErrSelfAction)
		users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deletes another user", func(t *testing.T) {
		users := new(mockUserDirectory)
		svc := NewUserService(users, zerolog.Nop())
		users.On("Delete", mock.Anything, "u2").Return(nil)

		require.NoError(t, svc.Remove(context.Background(), "u2", admin))
		users.AssertExpectations(t)
	})
}
