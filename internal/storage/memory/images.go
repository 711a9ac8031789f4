package memory

import (
	"context"
	"encoding/base64"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// UploadImage без внешнего хранилища: изображение возвращается как data URL.
// Ограничения по типу и размеру те же, что и у MinIO-реализации.
func (s *Storage) UploadImage(ctx context.Context, _ uuid.UUID, contentType string, data []byte) (string, error) {
	const op = "storage/memory/UploadImage"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(data) == 0 || int64(len(data)) > s.cfg.MaxSizeBytes {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	if !slices.Contains(s.cfg.AllowedContentTypes, contentType) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// DeleteImage: data URL живёт внутри объявления, удалять нечего.
func (s *Storage) DeleteImage(ctx context.Context, imageURL string) error {
	const op = "storage/memory/DeleteImage"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !strings.HasPrefix(imageURL, "data:") {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
