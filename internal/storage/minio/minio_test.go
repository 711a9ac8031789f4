package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// Интеграционные тесты пакета minio:
// — поднимают MinIO через testcontainers-go;
// — проверяют New (fail-fast без бакета), UploadImage (валидация, ключ, публичный URL)
//   и DeleteImage (удаление, чужой URL, повторное удаление).
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -race -count=1

const (
	rootUser     = "root"
	rootPassword = "rootpass"
	bucket       = "listings"
)

var testImages = config.ImagesConfig{
	MaxSizeBytes:        1 << 20,
	AllowedContentTypes: []string{"image/png", "image/jpeg", "image/webp"},
}

func startMinio(t *testing.T, createBucket bool, publicBase string) (*ImagesStorage, error) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image: "docker.io/minio/minio:latest",
		Env: map[string]string{
			"MINIO_ROOT_USER":     rootUser,
			"MINIO_ROOT_PASSWORD": rootPassword,
		},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "9000/tcp")

	if createBucket {
		admin, err := mclient.New(host+":"+port.Port(), &mclient.Options{
			Creds: credentials.NewStaticV4(rootUser, rootPassword, ""),
		})
		require.NoError(t, err)
		require.NoError(t, admin.MakeBucket(ctx, bucket, mclient.MakeBucketOptions{Region: "us-east-1"}))
	}

	return New(ctx, config.S3Config{
		Endpoint:      fmt.Sprintf("http://%s:%s", host, port.Port()),
		RootUser:      rootUser,
		RootPassword:  rootPassword,
		Bucket:        bucket,
		PublicBaseURL: publicBase,
	}, testImages)
}

func TestObjectKey(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	key := objectKey(owner, "image/png")
	require.True(t, strings.HasPrefix(key, "listings/"+owner.String()+"/"))
	require.True(t, strings.HasSuffix(key, ".png"))

	require.True(t, strings.HasSuffix(objectKey(owner, "image/jpeg"), ".jpg"))
	require.False(t, strings.Contains(objectKey(owner, "application/octet-stream"), "."))
}

func TestIntegration_New_BucketMustExist(t *testing.T) {
	_, err := startMinio(t, false, "")
	require.Error(t, err)
}

func TestIntegration_UploadAndDelete(t *testing.T) {
	st, err := startMinio(t, true, "")
	require.NoError(t, err)
	ctx := context.Background()
	owner := uuid.New()

	body := []byte{0x89, 0x50, 0x4e, 0x47}
	url, err := st.UploadImage(ctx, owner, "image/png", body)
	require.NoError(t, err)
	require.Contains(t, url, "/"+bucket+"/listings/"+owner.String()+"/")

	// Без PublicBaseURL объект доступен по прямому адресу бакета только с подписью,
	// поэтому содержимое проверяем через клиент.
	key := strings.TrimPrefix(url, st.baseURL+"/")
	obj, err := st.client.GetObject(ctx, bucket, key, mclient.GetObjectOptions{})
	require.NoError(t, err)
	got, err := io.ReadAll(obj)
	require.NoError(t, err)
	require.Equal(t, body, got)

	require.NoError(t, st.DeleteImage(ctx, url))
	require.ErrorIs(t, st.DeleteImage(ctx, url), storage.ErrNotFound)
	require.ErrorIs(t, st.DeleteImage(ctx, "https://elsewhere/x.png"), storage.ErrNotFound)
}

func TestIntegration_Upload_InvalidArgs(t *testing.T) {
	st, err := startMinio(t, true, "http://cdn.local/")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = st.UploadImage(ctx, uuid.New(), "image/gif", []byte{1})
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = st.UploadImage(ctx, uuid.New(), "image/png", make([]byte, (1<<20)+1))
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	url, err := st.UploadImage(ctx, uuid.New(), "image/webp", []byte{1})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://cdn.local/listings/"))
	require.Equal(t, "http://cdn.local", st.baseURL)
}
