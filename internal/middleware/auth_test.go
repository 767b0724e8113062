package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"pictu/api/internal/config"
	"pictu/api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testCfg() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{JWTSecret: "test-secret"},
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	router := gin.New()
	router.GET("/protected", Auth(testCfg(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	router := gin.New()
	router.GET("/protected", Auth(testCfg(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	router := gin.New()
	router.GET("/open", OptionalAuth(testCfg(), nil), func(c *gin.Context) {
		_, exists := c.Get(CurrentUserKey)
		assert.False(t, exists)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthStillRejectsBadToken(t *testing.T) {
	router := gin.New()
	router.GET("/open", OptionalAuth(testCfg(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	handler := func(role models.UserRole) http.Handler {
		router := gin.New()
		router.GET("/admin", func(c *gin.Context) {
			c.Set(CurrentUserKey, models.User{ID: "u1", Role: role})
		}, RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("admin passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(models.UserRoleAdmin).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(models.UserRoleUser).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		router := gin.New()
		router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
