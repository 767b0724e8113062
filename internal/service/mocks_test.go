package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"pictu/api/internal/models"
)

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Create(ctx context.Context, image models.Image) error {
	return m.Called(ctx, image).Error(0)
}

func (m *mockImageStore) GetByID(ctx context.Context, id string) (models.Image, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Image), args.Error(1)
}

func (m *mockImageStore) ListPublic(ctx context.Context, callerID string, callerIsAdmin bool) ([]models.Image, error) {
	args := m.Called(ctx, callerID, callerIsAdmin)
	return args.Get(0).([]models.Image), args.Error(1)
}

func (m *mockImageStore) ListPending(ctx context.Context, limit, offset int) ([]models.Image, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Image), args.Error(1)
}

func (m *mockImageStore) ListByIDs(ctx context.Context, ids []string) ([]models.Image, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Image), args.Error(1)
}

func (m *mockImageStore) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockImageStore) Update(ctx context.Context, id string, title, description *string, isPrivate *bool) error {
	return m.Called(ctx, id, title, description, isPrivate).Error(0)
}

func (m *mockImageStore) SetApproved(ctx context.Context, id string, approved bool) error {
	return m.Called(ctx, id, approved).Error(0)
}

func (m *mockImageStore) MarkDeleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockImageStore) DeleteRow(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockObjectStorage struct {
	mock.Mock
}

func (m *mockObjectStorage) Bucket() string {
	return m.Called().String(0)
}

func (m *mockObjectStorage) Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error {
	return m.Called(ctx, objectKey, reader, size, contentType).Error(0)
}

func (m *mockObjectStorage) Remove(ctx context.Context, objectKey string) error {
	return m.Called(ctx, objectKey).Error(0)
}

func (m *mockObjectStorage) PresignedURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	args := m.Called(ctx, objectKey, expires)
	return args.String(0), args.Error(1)
}

func (m *mockObjectStorage) PublicURL(objectKey string) string {
	return m.Called(objectKey).String(0)
}

type mockCleanupQueue struct {
	mock.Mock
}

func (m *mockCleanupQueue) EnqueueImageCleanup(ctx context.Context, imageID, objectKey string) error {
	return m.Called(ctx, imageID, objectKey).Error(0)
}

type mockCollectionStore struct {
	mock.Mock
}

func (m *mockCollectionStore) Create(ctx context.Context, collection models.Collection) error {
	return m.Called(ctx, collection).Error(0)
}

func (m *mockCollectionStore) GetByID(ctx context.Context, id string) (models.Collection, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Collection), args.Error(1)
}

func (m *mockCollectionStore) ListVisible(ctx context.Context, callerID string) ([]models.Collection, error) {
	args := m.Called(ctx, callerID)
	return args.Get(0).([]models.Collection), args.Error(1)
}

func (m *mockCollectionStore) Update(ctx context.Context, id string, title, description *string, isPrivate *bool) error {
	return m.Called(ctx, id, title, description, isPrivate).Error(0)
}

func (m *mockCollectionStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCollectionStore) AddImages(ctx context.Context, collectionID string, imageIDs []string) error {
	return m.Called(ctx, collectionID, imageIDs).Error(0)
}

func (m *mockCollectionStore) RemoveImages(ctx context.Context, collectionID string, imageIDs []string) error {
	return m.Called(ctx, collectionID, imageIDs).Error(0)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) Create(ctx context.Context, user models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserStore) GetByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) GetByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUserDirectory) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockUserDirectory) UpdateRole(ctx context.Context, id string, role models.UserRole) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockUserDirectory) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
