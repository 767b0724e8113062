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
	"pictu/api/internal/security"
)

func TestAuthServiceRegister(t *testing.T) {
	t.Run("creates user with hashed password and token", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, testConfig(), zerolog.Nop())

		users.On("FindByEmail", mock.Anything, "new@example.com").Return(models.User{}, repository.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			ok, err := security.VerifyPassword("hunter2secret", u.PasswordHash)
			return u.Email == "new@example.com" && u.Role == models.UserRoleUser && err == nil && ok
		})).Return(nil)

		result, err := svc.Register(context.Background(), RegisterInput{
			Email:     "  New@Example.com ",
			Password:  "hunter2secret",
			FirstName: "Ada",
			LastName:  "Lovelace",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, "new@example.com", result.User.Email)

		claims, err := security.ParseAccessToken(result.AccessToken, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, result.User.ID, claims.UserID)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("rejects blank credentials", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, testConfig(), zerolog.Nop())

		_, err := svc.Register(context.Background(), RegisterInput{Email: "   ", Password: ""})
		assert.ErrorIs(t, err, ErrInvalidInput)
		users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, testConfig(), zerolog.Nop())

		users.On("FindByEmail", mock.Anything, "taken@example.com").Return(models.User{ID: "u1"}, nil)

		_, err := svc.Register(context.Background(), RegisterInput{
			Email:    "taken@example.com",
			Password: "hunter2secret",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthServiceLogin(t *testing.T) {
	hash, err := security.HashPassword("correct-horse")
	require.NoError(t, err)
	user := models.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash, Role: models.UserRoleUser}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, testConfig(), zerolog.Nop())
		users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		result, err := svc.Login(context.Background(), LoginInput{Email: "Ada@Example.com", Password: "correct-horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})

	// Both failure modes return the same error so responses cannot be
	// used to probe which emails are registered.
	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		users := new(mockUserStore)
		svc := NewAuthService(users, testConfig(), zerolog.Nop())
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(models.User{}, repository.ErrUserNotFound)
		users.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		_, errUnknown := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever"})
		_, errWrong := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "wrong"})

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})
}
