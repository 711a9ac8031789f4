package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// listingSelect — выборка объявления с актуальной карточкой владельца.
// Снимок owner_* используется, если пользователь удалён.
const listingSelect = `
SELECT l.id, l.name, l.category, l.details, l.top_offer, l.upvotes, l.comments_count, l.image_url,
       l.owner_id,
       COALESCE(u.name::text, l.owner_name),
       COALESCE(u.avatar, l.owner_avatar),
       COALESCE(u.trust_score, l.owner_trust),
       l.funds_verified, l.created_at, l.duration_days, l.finder,
       l.acquired_price, l.acquired_buyback, l.acquired_at
FROM listings l
LEFT JOIN users u ON u.id = l.owner_id
`

func scanListing(row pgx.Row) (*models.Listing, error) {
	var (
		l        models.Listing
		category string
		finder   []byte
		price    *int64
		buyback  *bool
		acqAt    *time.Time
	)

	if err := row.Scan(
		&l.ID,
		&l.Name,
		&category,
		&l.Details,
		&l.TopOffer,
		&l.Upvotes,
		&l.Comments,
		&l.ImageURL,
		&l.Owner.ID,
		&l.Owner.Name,
		&l.Owner.Avatar,
		&l.Owner.TrustScore,
		&l.FundsVerified,
		&l.CreatedAt,
		&l.Duration,
		&finder,
		&price,
		&buyback,
		&acqAt,
	); err != nil {
		return nil, err
	}

	l.Category = models.Category(category)

	if len(finder) > 0 {
		var f models.UserRef
		if err := json.Unmarshal(finder, &f); err != nil {
			return nil, fmt.Errorf("decode finder: %w", err)
		}
		l.Finder = &f
	}

	if price != nil && acqAt != nil {
		l.Acquired = &models.Acquisition{Price: *price, AcquiredAt: *acqAt}
		if buyback != nil {
			l.Acquired.HasBuyback = *buyback
		}
	}

	return &l, nil
}

// CreateListing сохраняет объявление вместе с начальными комментариями и ставками.
func (s *Storage) CreateListing(ctx context.Context, l *models.Listing) error {
	const op = "storage/postgres/listings/CreateListing"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q := `
	INSERT INTO listings (id, name, category, details, top_offer, upvotes, comments_count, image_url,
	                      owner_id, owner_name, owner_avatar, owner_trust, funds_verified, created_at, duration_days)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = tx.Exec(ctx, q,
		l.ID,
		l.Name,
		string(l.Category),
		l.Details,
		l.TopOffer,
		l.Upvotes,
		len(l.CommentsList),
		l.ImageURL,
		l.Owner.ID,
		l.Owner.Name,
		l.Owner.Avatar,
		l.Owner.TrustScore,
		l.FundsVerified,
		l.CreatedAt,
		l.Duration,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	for _, c := range l.CommentsList {
		if err := insertComment(ctx, tx, l.ID, c); err != nil {
			return fmt.Errorf("%s: %w", op, mapPgError(err))
		}
	}

	for _, b := range l.Bids {
		if err := insertBid(ctx, tx, l.ID, b); err != nil {
			return fmt.Errorf("%s: %w", op, mapPgError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) ListingByID(ctx context.Context, id string) (*models.Listing, error) {
	const op = "storage/postgres/listings/ListingByID"

	l, err := scanListing(s.db.QueryRow(ctx, listingSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.loadChildren(ctx, []*models.Listing{l}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return l, nil
}

func (s *Storage) ListListings(ctx context.Context) ([]models.Listing, error) {
	const op = "storage/postgres/listings/ListListings"

	out, err := s.queryListings(ctx, listingSelect+` ORDER BY l.created_at DESC, l.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) ListingsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	const op = "storage/postgres/listings/ListingsByOwner"

	out, err := s.queryListings(ctx, listingSelect+` WHERE l.owner_id = $1 ORDER BY l.created_at DESC, l.id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (s *Storage) queryListings(ctx context.Context, q string, args ...any) ([]models.Listing, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ptrs []*models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadChildren(ctx, ptrs); err != nil {
		return nil, err
	}

	out := make([]models.Listing, 0, len(ptrs))
	for _, l := range ptrs {
		out = append(out, *l)
	}

	return out, nil
}

// loadChildren подгружает комментарии и ставки двумя запросами на весь набор.
func (s *Storage) loadChildren(ctx context.Context, listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	ids := make([]string, 0, len(listings))
	byID := make(map[string]*models.Listing, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
		byID[l.ID] = l
	}

	rows, err := s.db.Query(ctx, `
	SELECT listing_id, id, author_id, author_name, author_avatar, author_trust, text, created_at
	FROM listing_comments
	WHERE listing_id = ANY($1)
	ORDER BY seq`, ids)
	if err != nil {
		return err
	}

	for rows.Next() {
		var (
			listingID string
			c         models.Comment
		)

		if err := rows.Scan(&listingID, &c.ID, &c.Author.ID, &c.Author.Name, &c.Author.Avatar,
			&c.Author.TrustScore, &c.Text, &c.Timestamp); err != nil {
			rows.Close()
			return err
		}

		if l := byID[listingID]; l != nil {
			l.CommentsList = append(l.CommentsList, c)
		}
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(ctx, `
	SELECT listing_id, id, bidder_id, bidder_name, bidder_avatar, bidder_trust, price, condition, finders_note, created_at
	FROM listing_bids
	WHERE listing_id = ANY($1)
	ORDER BY seq`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			listingID string
			b         models.Bid
		)

		if err := rows.Scan(&listingID, &b.ID, &b.Bidder.ID, &b.Bidder.Name, &b.Bidder.Avatar,
			&b.Bidder.TrustScore, &b.Price, &b.Condition, &b.FindersNote, &b.CreatedAt); err != nil {
			return err
		}

		if l := byID[listingID]; l != nil {
			l.Bids = append(l.Bids, b)
		}
	}

	return rows.Err()
}

func (s *Storage) DeleteListing(ctx context.Context, id string) error {
	const op = "storage/postgres/listings/DeleteListing"

	return s.execOne(ctx, op, `DELETE FROM listings WHERE id = $1`, id)
}

// IncrementUpvotes — атомарный инкремент на стороне БД.
func (s *Storage) IncrementUpvotes(ctx context.Context, id string) (int64, error) {
	const op = "storage/postgres/listings/IncrementUpvotes"

	var upvotes int64
	err := s.db.QueryRow(ctx,
		`UPDATE listings SET upvotes = upvotes + 1 WHERE id = $1 RETURNING upvotes`, id,
	).Scan(&upvotes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return upvotes, nil
}

// AppendComment увеличивает счётчик и вставляет комментарий в одной транзакции.
func (s *Storage) AppendComment(ctx context.Context, id string, c models.Comment) (int, error) {
	const op = "storage/postgres/listings/AppendComment"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var count int
	err = tx.QueryRow(ctx,
		`UPDATE listings SET comments_count = comments_count + 1 WHERE id = $1 RETURNING comments_count`, id,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertComment(ctx, tx, id, c); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (s *Storage) UpdateTopOffer(ctx context.Context, id string, value int64) error {
	const op = "storage/postgres/listings/UpdateTopOffer"

	return s.execOne(ctx, op, `UPDATE listings SET top_offer = $2 WHERE id = $1`, id, value)
}

func (s *Storage) AppendBid(ctx context.Context, id string, b models.Bid) error {
	const op = "storage/postgres/listings/AppendBid"

	if err := insertBid(ctx, s.db, id, b); err != nil {
		return fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	return nil
}

func (s *Storage) SetFinder(ctx context.Context, id string, finder models.UserRef) error {
	const op = "storage/postgres/listings/SetFinder"

	raw, err := json.Marshal(finder)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return s.execOne(ctx, op, `UPDATE listings SET finder = $2 WHERE id = $1`, id, raw)
}

func (s *Storage) SetAcquired(ctx context.Context, id string, a models.Acquisition) error {
	const op = "storage/postgres/listings/SetAcquired"

	return s.execOne(ctx, op,
		`UPDATE listings SET acquired_price = $2, acquired_buyback = $3, acquired_at = $4 WHERE id = $1`,
		id, a.Price, a.HasBuyback, a.AcquiredAt)
}

// execOne выполняет запрос, затрагивающий ровно одно объявление.
func (s *Storage) execOne(ctx context.Context, op, q string, args ...any) error {
	tag, err := s.db.Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPgError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// execer — общий интерфейс пула и транзакции.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertComment(ctx context.Context, db execer, listingID string, c models.Comment) error {
	_, err := db.Exec(ctx, `
	INSERT INTO listing_comments (id, listing_id, author_id, author_name, author_avatar, author_trust, text, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, listingID, c.Author.ID, c.Author.Name, c.Author.Avatar, c.Author.TrustScore, c.Text, c.Timestamp)

	return err
}

func insertBid(ctx context.Context, db execer, listingID string, b models.Bid) error {
	_, err := db.Exec(ctx, `
	INSERT INTO listing_bids (id, listing_id, bidder_id, bidder_name, bidder_avatar, bidder_trust, price, condition, finders_note, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, listingID, b.Bidder.ID, b.Bidder.Name, b.Bidder.Avatar, b.Bidder.TrustScore,
		b.Price, b.Condition, b.FindersNote, b.CreatedAt)

	return err
}
