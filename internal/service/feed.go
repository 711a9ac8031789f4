package service

import (
	"context"
	"fmt"

	"github.com/pribylovaa/go-iso-board/internal/feed"
	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
)

// Feed загружает рабочий набор объявлений и применяет фильтр, сортировку и закрепление.
// Пустая выдача — не ошибка: Result.Empty == true.
func (s *Service) Feed(ctx context.Context, q feed.Query) (feed.Result, error) {
	const op = "service/feed/Feed"

	lg := log.From(ctx).With("op", op)

	items, err := s.listings.ListListings(ctx)
	if err != nil {
		return feed.Result{}, fmt.Errorf("%s: %w", op, storageError(lg, err, "list listings failed"))
	}

	res := s.engine.Apply(items, q)
	lg.Debug("feed applied",
		"category", res.Query.Category,
		"sort", string(res.Query.Sort),
		"total", res.Total,
	)

	return res, nil
}
