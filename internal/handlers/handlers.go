package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pictu/api/internal/config"
	"pictu/api/internal/jobs"
	"pictu/api/internal/middleware"
	"pictu/api/internal/models"
	"pictu/api/internal/repository"
	"pictu/api/internal/service"
	"pictu/api/internal/storage"
)

type HandlerSet struct {
	log               zerolog.Logger
	cfg               *config.AppConfig
	authService       *service.AuthService
	userService       *service.UserService
	imageService      *service.ImageService
	collectionService *service.CollectionService
	users             *repository.UserRepository
	db                *pgxpool.Pool
	cache             *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, queue *jobs.Queue, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	imageRepo := repository.NewImageRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)

	return HandlerSet{
		log:               log,
		cfg:               cfg,
		authService:       service.NewAuthService(userRepo, cfg, log),
		userService:       service.NewUserService(userRepo, log),
		imageService:      service.NewImageService(imageRepo, store, queue, cfg, log),
		collectionService: service.NewCollectionService(collectionRepo, imageRepo, log),
		users:             userRepo,
		db:                db,
		cache:             cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/health", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)

	requireAuth := middleware.Auth(h.cfg, h.users)
	optionalAuth := middleware.OptionalAuth(h.cfg, h.users)

	users := router.Group("/users")
	users.Use(requireAuth)
	users.GET("/profile", h.Profile)
	usersAdmin := users.Group("")
	usersAdmin.Use(middleware.RequireAdmin())
	usersAdmin.GET("", h.ListUsers)
	usersAdmin.GET("/:id", h.GetUser)
	usersAdmin.PATCH("/:id/role", h.UpdateUserRole)
	usersAdmin.DELETE("/:id", h.DeleteUser)

	images := router.Group("/images")
	images.GET("", optionalAuth, h.ListImages)
	images.GET("/pending", requireAuth, middleware.RequireAdmin(), h.ListPendingImages)
	images.GET("/:id", optionalAuth, h.GetImage)
	images.POST("", requireAuth, h.UploadImage)
	images.PATCH("/:id", requireAuth, h.UpdateImage)
	images.DELETE("/:id", requireAuth, h.DeleteImage)
	images.GET("/:id/signed-url", requireAuth, h.SignedURL)
	images.PATCH("/:id/approve", requireAuth, middleware.RequireAdmin(), h.ApproveImage)

	collections := router.Group("/collections")
	collections.GET("", optionalAuth, h.ListCollections)
	collections.GET("/:id", optionalAuth, h.GetCollection)
	collections.POST("", requireAuth, h.CreateCollection)
	collections.PATCH("/:id", requireAuth, h.UpdateCollection)
	collections.PATCH("/:id/images", requireAuth, h.UpdateCollectionImages)
	collections.DELETE("/:id", requireAuth, h.DeleteCollection)
}

func currentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}

// optionalUser returns nil on anonymous requests.
func optionalUser(c *gin.Context) *models.User {
	user, ok := currentUser(c)
	if !ok {
		return nil
	}
	return &user
}

func mustUser(c *gin.Context) (models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return user, ok
}

// respondError maps service sentinels onto the HTTP taxonomy; anything
// unrecognized is a 500 with the upstream message attached.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrQuotaExceeded),
		errors.Is(err, service.ErrSelfAction):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidUpload),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
