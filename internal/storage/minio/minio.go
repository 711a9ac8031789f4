// minio — хранилище изображений объявлений (storage.Images) на MinIO/S3.
// minio.go — конструктор клиента: нормализует endpoint, выбирает Secure
// по схеме и проверяет наличие бакета.
// images.go — загрузка изображения и сборка публичного URL.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// ImagesStorage — адаптер MinIO для изображений объявлений.
type ImagesStorage struct {
	s3      config.S3Config
	images  config.ImagesConfig
	client  *mclient.Client
	baseURL string
}

// New создаёт клиент и выполняет fail-fast-проверку бакета.
func New(ctx context.Context, s3 config.S3Config, images config.ImagesConfig) (*ImagesStorage, error) {
	const op = "storage/minio/New"

	endpoint := s3.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(s3.RootUser, s3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, s3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, s3.Bucket)
	}

	// Без PublicBaseURL объекты отдаются напрямую из бакета (path-style).
	base := strings.TrimRight(s3.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		base = scheme + "://" + endpoint + "/" + s3.Bucket
	}

	return &ImagesStorage{s3: s3, images: images, client: client, baseURL: base}, nil
}

var _ storage.Images = (*ImagesStorage)(nil)
