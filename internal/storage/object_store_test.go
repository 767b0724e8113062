package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pictu/api/internal/config"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *mockClient) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucketName, objectName, opts).Error(0)
}

func (m *mockClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expires, reqParams)
	return args.Get(0).(*url.URL), args.Error(1)
}

func (m *mockClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *mockClient) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func testStore(client Client) *ObjectStore {
	return NewObjectStoreWithClient(client, config.StorageConfig{
		Endpoint: "storage.example.com",
		Bucket:   "pictu-images",
		Region:   "us-east-1",
	})
}

func TestObjectStoreUpload(t *testing.T) {
	client := new(mockClient)
	store := testStore(client)

	data := []byte("image bytes")
	client.On("PutObject", mock.Anything, "pictu-images", "2026/01/01/key.png", mock.Anything, int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"}).Return(minio.UploadInfo{Size: int64(len(data))}, nil)

	err := store.Upload(context.Background(), "2026/01/01/key.png", bytes.NewReader(data), int64(len(data)), "image/png")
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestObjectStoreRemove(t *testing.T) {
	client := new(mockClient)
	store := testStore(client)

	client.On("RemoveObject", mock.Anything, "pictu-images", "key.png", minio.RemoveObjectOptions{}).Return(nil)

	require.NoError(t, store.Remove(context.Background(), "key.png"))
	client.AssertExpectations(t)
}

func TestObjectStorePresignedURL(t *testing.T) {
	client := new(mockClient)
	store := testStore(client)

	signed := &url.URL{Scheme: "https", Host: "storage.example.com", Path: "/pictu-images/key.png", RawQuery: "X-Amz-Signature=abc"}
	client.On("PresignedGetObject", mock.Anything, "pictu-images", "key.png", 3*time.Minute, url.Values{}).Return(signed, nil)

	got, err := store.PresignedURL(context.Background(), "key.png", 3*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, signed.String(), got)
}

func TestObjectStorePublicURL(t *testing.T) {
	store := testStore(nil)
	assert.Equal(t, "https://storage.example.com/pictu-images/key.png", store.PublicURL("key.png"))

	httpStore := NewObjectStoreWithClient(nil, config.StorageConfig{
		Endpoint: "http://localhost:9000/",
		Bucket:   "pictu-images",
	})
	assert.Equal(t, "http://localhost:9000/pictu-images/key.png", httpStore.PublicURL("key.png"))
}

func TestObjectStoreEnsureBucket(t *testing.T) {
	t.Run("creates missing bucket", func(t *testing.T) {
		client := new(mockClient)
		store := testStore(client)

		client.On("BucketExists", mock.Anything, "pictu-images").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "pictu-images", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)

		require.NoError(t, store.EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("leaves existing bucket alone", func(t *testing.T) {
		client := new(mockClient)
		store := testStore(client)

		client.On("BucketExists", mock.Anything, "pictu-images").Return(true, nil)

		require.NoError(t, store.EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})
}
