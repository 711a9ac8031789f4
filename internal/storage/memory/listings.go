package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// cloneListing — глубокая копия объявления.
func cloneListing(l *models.Listing) *models.Listing {
	out := *l
	out.CommentsList = slices.Clone(l.CommentsList)
	out.Bids = slices.Clone(l.Bids)

	if l.Finder != nil {
		f := *l.Finder
		out.Finder = &f
	}

	if l.Acquired != nil {
		a := *l.Acquired
		out.Acquired = &a
	}

	return &out
}

// resolveOwner подтягивает актуальные ник/аватар/доверие владельца.
// Вызывается под блокировкой чтения.
func (s *Storage) resolveOwner(l *models.Listing) {
	if u, ok := s.users[l.Owner.ID]; ok {
		l.Owner = u.Ref()
	}
}

func (s *Storage) CreateListing(ctx context.Context, l *models.Listing) error {
	const op = "storage/memory/CreateListing"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[l.ID]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	c := cloneListing(l)
	c.Comments = len(c.CommentsList)
	s.listings[l.ID] = c

	return nil
}

func (s *Storage) ListingByID(ctx context.Context, id string) (*models.Listing, error) {
	const op = "storage/memory/ListingByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := cloneListing(l)
	s.resolveOwner(out)

	return out, nil
}

func (s *Storage) ListListings(ctx context.Context) ([]models.Listing, error) {
	return s.collect(ctx, "storage/memory/ListListings", func(*models.Listing) bool { return true })
}

func (s *Storage) ListingsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	return s.collect(ctx, "storage/memory/ListingsByOwner", func(l *models.Listing) bool {
		return l.Owner.ID == ownerID
	})
}

// collect отбирает объявления по условию; порядок: сначала новые, затем по ID.
func (s *Storage) collect(ctx context.Context, op string, keep func(*models.Listing) bool) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if !keep(l) {
			continue
		}

		c := cloneListing(l)
		s.resolveOwner(c)
		out = append(out, *c)
	}

	slices.SortFunc(out, func(a, b models.Listing) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})

	return out, nil
}

func (s *Storage) DeleteListing(ctx context.Context, id string) error {
	const op = "storage/memory/DeleteListing"

	return s.mutate(ctx, op, id, func(*models.Listing) error {
		delete(s.listings, id)
		return nil
	})
}

func (s *Storage) IncrementUpvotes(ctx context.Context, id string) (int64, error) {
	const op = "storage/memory/IncrementUpvotes"

	var upvotes int64
	err := s.mutate(ctx, op, id, func(l *models.Listing) error {
		l.Upvotes++
		upvotes = l.Upvotes
		return nil
	})

	return upvotes, err
}

func (s *Storage) AppendComment(ctx context.Context, id string, c models.Comment) (int, error) {
	const op = "storage/memory/AppendComment"

	var count int
	err := s.mutate(ctx, op, id, func(l *models.Listing) error {
		l.CommentsList = append(l.CommentsList, c)
		l.Comments = len(l.CommentsList)
		count = l.Comments
		return nil
	})

	return count, err
}

func (s *Storage) UpdateTopOffer(ctx context.Context, id string, value int64) error {
	const op = "storage/memory/UpdateTopOffer"

	return s.mutate(ctx, op, id, func(l *models.Listing) error {
		l.TopOffer = value
		return nil
	})
}

func (s *Storage) AppendBid(ctx context.Context, id string, b models.Bid) error {
	const op = "storage/memory/AppendBid"

	return s.mutate(ctx, op, id, func(l *models.Listing) error {
		l.Bids = append(l.Bids, b)
		return nil
	})
}

func (s *Storage) SetFinder(ctx context.Context, id string, finder models.UserRef) error {
	const op = "storage/memory/SetFinder"

	return s.mutate(ctx, op, id, func(l *models.Listing) error {
		l.Finder = &finder
		return nil
	})
}

func (s *Storage) SetAcquired(ctx context.Context, id string, a models.Acquisition) error {
	const op = "storage/memory/SetAcquired"

	return s.mutate(ctx, op, id, func(l *models.Listing) error {
		l.Acquired = &a
		return nil
	})
}

// mutate выполняет fn над объявлением под эксклюзивной блокировкой.
func (s *Storage) mutate(ctx context.Context, op, id string, fn func(l *models.Listing) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.listings[id]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if err := fn(l); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
