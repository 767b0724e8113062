package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"time"

	"github.com/rs/zerolog"

	"pictu/api/internal/config"
	"pictu/api/internal/ids"
	"pictu/api/internal/media/sniffer"
	"pictu/api/internal/models"
	"pictu/api/internal/repository"
)

type ImageStore interface {
	Create(ctx context.Context, image models.Image) error
	GetByID(ctx context.Context, id string) (models.Image, error)
	ListPublic(ctx context.Context, callerID string, callerIsAdmin bool) ([]models.Image, error)
	ListPending(ctx context.Context, limit, offset int) ([]models.Image, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Image, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, id string, title, description *string, isPrivate *bool) error
	SetApproved(ctx context.Context, id string, approved bool) error
	MarkDeleted(ctx context.Context, id string) error
	DeleteRow(ctx context.Context, id string) error
}

type ObjectStorage interface {
	Bucket() string
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, objectKey string) error
	PresignedURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	PublicURL(objectKey string) string
}

// CleanupQueue receives compensation tasks when an image delete fails
// partway between the object store and the database.
type CleanupQueue interface {
	EnqueueImageCleanup(ctx context.Context, imageID, objectKey string) error
}

type ImageService struct {
	images ImageStore
	store  ObjectStorage
	queue  CleanupQueue
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewImageService(images ImageStore, store ObjectStorage, queue CleanupQueue, cfg *config.AppConfig, log zerolog.Logger) *ImageService {
	return &ImageService{
		images: images,
		store:  store,
		queue:  queue,
		cfg:    cfg,
		log:    log,
	}
}

func (s *ImageService) ListPublic(ctx context.Context, caller *models.User) ([]models.Image, error) {
	callerID := ""
	isAdmin := false
	if caller != nil {
		callerID = caller.ID
		isAdmin = caller.IsAdmin()
	}
	return s.images.ListPublic(ctx, callerID, isAdmin)
}

// ListPending feeds the moderation queue, oldest uploads first.
func (s *ImageService) ListPending(ctx context.Context, limit, offset int) ([]models.Image, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.images.ListPending(ctx, limit, offset)
}

func (s *ImageService) GetOne(ctx context.Context, id string, caller *models.User) (models.Image, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return models.Image{}, ErrNotFound
		}
		return models.Image{}, err
	}

	if !image.ReadableBy(caller) {
		return models.Image{}, ErrForbidden
	}
	return image, nil
}

type UploadInput struct {
	Owner       models.User
	File        multipart.File
	Header      *multipart.FileHeader
	Title       string
	Description string
	IsPrivate   bool
}

// Upload validates and stores a new image. All validation happens before
// the object or the row exist; a rejected upload leaves no trace.
func (s *ImageService) Upload(ctx context.Context, input UploadInput) (models.Image, error) {
	if input.File == nil || input.Header == nil {
		return models.Image{}, fmt.Errorf("%w: file required", ErrInvalidUpload)
	}

	data, err := io.ReadAll(io.LimitReader(input.File, s.cfg.Upload.MaxSizeBytes+1))
	if err != nil {
		return models.Image{}, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return models.Image{}, fmt.Errorf("%w: empty file", ErrInvalidUpload)
	}
	if int64(len(data)) >= s.cfg.Upload.MaxSizeBytes || input.Header.Size >= s.cfg.Upload.MaxSizeBytes {
		return models.Image{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidUpload, s.cfg.Upload.MaxSizeBytes)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	detected, err := sniffer.DetectHead(head)
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}

	declared := sniffer.MimeTypeFromHeader(input.Header.Header)
	if declared != "" && declared != detected.MIME {
		return models.Image{}, fmt.Errorf("%w: declared %s, actual %s", ErrInvalidUpload, declared, detected.MIME)
	}

	count, err := s.images.CountByUser(ctx, input.Owner.ID)
	if err != nil {
		return models.Image{}, fmt.Errorf("count images: %w", err)
	}
	if count >= s.cfg.Upload.Quota {
		return models.Image{}, ErrQuotaExceeded
	}

	imageID := ids.New()
	objectKey := buildObjectKey(imageID, string(detected.Type))

	if err := s.store.Upload(ctx, objectKey, bytes.NewReader(data), int64(len(data)), detected.MIME); err != nil {
		return models.Image{}, fmt.Errorf("store upload: %w", err)
	}

	now := time.Now().UTC()
	image := models.Image{
		ID:          imageID,
		UserID:      input.Owner.ID,
		Title:       input.Title,
		Description: input.Description,
		Bucket:      s.store.Bucket(),
		ObjectKey:   objectKey,
		URL:         s.store.PublicURL(objectKey),
		MimeType:    detected.MIME,
		SizeBytes:   int64(len(data)),
		IsApproved:  input.Owner.IsAdmin(),
		IsPrivate:   input.IsPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.images.Create(ctx, image); err != nil {
		// The object is already up; hand it to the cleanup queue rather
		// than leaving it orphaned.
		if qerr := s.queue.EnqueueImageCleanup(ctx, imageID, objectKey); qerr != nil {
			s.log.Error().Err(qerr).Str("object_key", objectKey).Msg("enqueue orphan cleanup failed")
		}
		return models.Image{}, fmt.Errorf("save metadata: %w", err)
	}

	return image, nil
}

type UpdateImageInput struct {
	Title       *string
	Description *string
	IsPrivate   *bool
}

func (s *ImageService) Update(ctx context.Context, id string, patch UpdateImageInput, caller models.User) (models.Image, error) {
	image, err := s.getOwned(ctx, id, caller)
	if err != nil {
		return models.Image{}, err
	}

	if err := s.images.Update(ctx, image.ID, patch.Title, patch.Description, patch.IsPrivate); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return models.Image{}, ErrNotFound
		}
		return models.Image{}, err
	}

	return s.images.GetByID(ctx, image.ID)
}

// Remove deletes the stored object and the row. The row is tombstoned
// first so a failure between the two systems is recoverable by the cleanup
// consumer instead of silently orphaning the object.
func (s *ImageService) Remove(ctx context.Context, id string, caller models.User) error {
	image, err := s.getOwned(ctx, id, caller)
	if err != nil {
		return err
	}

	if err := s.images.MarkDeleted(ctx, image.ID); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.Remove(ctx, image.ObjectKey); err != nil {
		s.enqueueCleanup(ctx, image)
		return fmt.Errorf("delete object: %w", err)
	}

	if err := s.images.DeleteRow(ctx, image.ID); err != nil {
		s.enqueueCleanup(ctx, image)
		return fmt.Errorf("delete row: %w", err)
	}

	return nil
}

func (s *ImageService) Approve(ctx context.Context, id string, approved bool) (models.Image, error) {
	if err := s.images.SetApproved(ctx, id, approved); err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return models.Image{}, ErrNotFound
		}
		return models.Image{}, err
	}
	return s.images.GetByID(ctx, id)
}

// SignedURL returns the public URL for public images and a short-lived
// presigned URL for private ones.
func (s *ImageService) SignedURL(ctx context.Context, id string, caller models.User) (string, error) {
	image, err := s.GetOne(ctx, id, &caller)
	if err != nil {
		return "", err
	}

	if !image.IsPrivate {
		return image.URL, nil
	}

	return s.store.PresignedURL(ctx, image.ObjectKey, s.cfg.Upload.SignedURLTTL)
}

func (s *ImageService) getOwned(ctx context.Context, id string, caller models.User) (models.Image, error) {
	image, err := s.images.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return models.Image{}, ErrNotFound
		}
		return models.Image{}, err
	}

	if image.UserID != caller.ID && !caller.IsAdmin() {
		return models.Image{}, ErrForbidden
	}
	return image, nil
}

func (s *ImageService) enqueueCleanup(ctx context.Context, image models.Image) {
	if err := s.queue.EnqueueImageCleanup(ctx, image.ID, image.ObjectKey); err != nil {
		s.log.Error().Err(err).
			Str("image_id", image.ID).
			Str("object_key", image.ObjectKey).
			Msg("enqueue cleanup failed")
	}
}

func buildObjectKey(imageID string, ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, fmt.Sprintf("%s.%s", imageID, ext))
}
