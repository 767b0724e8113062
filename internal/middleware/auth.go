package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pictu/api/internal/config"
	"pictu/api/internal/repository"
	"pictu/api/internal/security"
)

const CurrentUserKey = "current_user"

// Auth requires a valid bearer token and attaches the freshly loaded user
// to the context. Role comes from the user row, not the token.
func Auth(cfg *config.AppConfig, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		if !resolveUser(c, cfg, users, strings.TrimPrefix(authHeader, "Bearer ")) {
			return
		}

		c.Next()
	}
}

// OptionalAuth lets anonymous requests through with no identity, but a
// token that is present and invalid is still rejected.
func OptionalAuth(cfg *config.AppConfig, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		if !resolveUser(c, cfg, users, strings.TrimPrefix(authHeader, "Bearer ")) {
			return
		}

		c.Next()
	}
}

func resolveUser(c *gin.Context, cfg *config.AppConfig, users *repository.UserRepository, tokenStr string) bool {
	claims, err := security.ParseAccessToken(tokenStr, cfg.Security.JWTSecret)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return false
	}

	user, err := users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
		return false
	}

	c.Set(CurrentUserKey, user)
	return true
}
