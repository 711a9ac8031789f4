package minio

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"

	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// UploadImage кладёт изображение по ключу "listings/<ownerID>/<uuid>.<ext>"
// и возвращает его публичный URL.
func (s *ImagesStorage) UploadImage(ctx context.Context, ownerID uuid.UUID, contentType string, data []byte) (string, error) {
	const op = "storage/minio/images/UploadImage"

	if len(data) == 0 || int64(len(data)) > s.images.MaxSizeBytes {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	if !slices.Contains(s.images.AllowedContentTypes, contentType) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	key := objectKey(ownerID, contentType)

	_, err := s.client.PutObject(ctx, s.s3.Bucket, key, bytes.NewReader(data), int64(len(data)),
		mclient.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.baseURL + "/" + key, nil
}

// DeleteImage удаляет объект, на который указывает публичный URL.
// Чужой URL или отсутствующий объект -> storage.ErrNotFound.
func (s *ImagesStorage) DeleteImage(ctx context.Context, imageURL string) error {
	const op = "storage/minio/images/DeleteImage"

	key, ok := strings.CutPrefix(imageURL, s.baseURL+"/")
	if !ok || key == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if _, err := s.client.StatObject(ctx, s.s3.Bucket, key, mclient.StatObjectOptions{}); err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.client.RemoveObject(ctx, s.s3.Bucket, key, mclient.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func objectKey(ownerID uuid.UUID, contentType string) string {
	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	}

	return path.Join("listings", ownerID.String(), uuid.NewString()+ext)
}
