package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"pictu/api/internal/ids"
	"pictu/api/internal/models"
	"pictu/api/internal/repository"
)

type CollectionStore interface {
	Create(ctx context.Context, collection models.Collection) error
	GetByID(ctx context.Context, id string) (models.Collection, error)
	ListVisible(ctx context.Context, callerID string) ([]models.Collection, error)
	Update(ctx context.Context, id string, title, description *string, isPrivate *bool) error
	Delete(ctx context.Context, id string) error
	AddImages(ctx context.Context, collectionID string, imageIDs []string) error
	RemoveImages(ctx context.Context, collectionID string, imageIDs []string) error
}

type CollectionService struct {
	collections CollectionStore
	images      ImageStore
	log         zerolog.Logger
}

func NewCollectionService(collections CollectionStore, images ImageStore, log zerolog.Logger) *CollectionService {
	return &CollectionService{
		collections: collections,
		images:      images,
		log:         log,
	}
}

func (s *CollectionService) ListVisible(ctx context.Context, caller *models.User) ([]models.Collection, error) {
	callerID := ""
	if caller != nil {
		callerID = caller.ID
	}
	return s.collections.ListVisible(ctx, callerID)
}

func (s *CollectionService) GetOne(ctx context.Context, id string, caller *models.User) (models.Collection, error) {
	collection, err := s.collections.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return models.Collection{}, ErrNotFound
		}
		return models.Collection{}, err
	}

	if !collection.ReadableBy(caller) {
		return models.Collection{}, ErrForbidden
	}
	return collection, nil
}

type CreateCollectionInput struct {
	Title       string
	Description string
	// IsPrivate defaults to true when the request omits the field.
	IsPrivate *bool
}

func (s *CollectionService) Create(ctx context.Context, input CreateCollectionInput, owner models.User) (models.Collection, error) {
	isPrivate := true
	if input.IsPrivate != nil {
		isPrivate = *input.IsPrivate
	}

	collection := models.Collection{
		ID:          ids.New(),
		UserID:      owner.ID,
		Title:       input.Title,
		Description: input.Description,
		IsPrivate:   isPrivate,
	}

	if err := s.collections.Create(ctx, collection); err != nil {
		return models.Collection{}, err
	}

	return s.collections.GetByID(ctx, collection.ID)
}

type UpdateCollectionInput struct {
	Title       *string
	Description *string
	IsPrivate   *bool
}

func (s *CollectionService) Update(ctx context.Context, id string, patch UpdateCollectionInput, caller models.User) (models.Collection, error) {
	if _, err := s.getOwned(ctx, id, caller); err != nil {
		return models.Collection{}, err
	}

	if err := s.collections.Update(ctx, id, patch.Title, patch.Description, patch.IsPrivate); err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return models.Collection{}, ErrNotFound
		}
		return models.Collection{}, err
	}

	return s.collections.GetByID(ctx, id)
}

func (s *CollectionService) Remove(ctx context.Context, id string, caller models.User) error {
	if _, err := s.getOwned(ctx, id, caller); err != nil {
		return err
	}

	if err := s.collections.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

type MembershipInput struct {
	AddImageIDs    []string
	RemoveImageIDs []string
}

// UpdateMembership applies an id-list diff to the collection. Added images
// must exist and be readable by the caller; removals are unrestricted.
func (s *CollectionService) UpdateMembership(ctx context.Context, id string, input MembershipInput, caller models.User) (models.Collection, error) {
	if _, err := s.getOwned(ctx, id, caller); err != nil {
		return models.Collection{}, err
	}

	if len(input.AddImageIDs) > 0 {
		if err := s.checkAttachable(ctx, input.AddImageIDs, caller); err != nil {
			return models.Collection{}, err
		}
		if err := s.collections.AddImages(ctx, id, input.AddImageIDs); err != nil {
			return models.Collection{}, err
		}
	}

	if len(input.RemoveImageIDs) > 0 {
		if err := s.collections.RemoveImages(ctx, id, input.RemoveImageIDs); err != nil {
			return models.Collection{}, err
		}
	}

	return s.collections.GetByID(ctx, id)
}

func (s *CollectionService) checkAttachable(ctx context.Context, imageIDs []string, caller models.User) error {
	images, err := s.images.ListByIDs(ctx, imageIDs)
	if err != nil {
		return err
	}

	found := make(map[string]models.Image, len(images))
	for _, image := range images {
		found[image.ID] = image
	}

	for _, imageID := range imageIDs {
		image, ok := found[imageID]
		if !ok {
			return fmt.Errorf("%w: image %s", ErrNotFound, imageID)
		}
		if !image.ReadableBy(&caller) {
			return fmt.Errorf("%w: image %s", ErrForbidden, imageID)
		}
	}
	return nil
}

func (s *CollectionService) getOwned(ctx context.Context, id string, caller models.User) (models.Collection, error) {
	collection, err := s.collections.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCollectionNotFound) {
			return models.Collection{}, ErrNotFound
		}
		return models.Collection{}, err
	}

	if collection.UserID != caller.ID && !caller.IsAdmin() {
		return models.Collection{}, ErrForbidden
	}
	return collection, nil
}
