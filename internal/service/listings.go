package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/pribylovaa/go-iso-board/internal/feed"
	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

const (
	defaultListingName    = "Untitled Hunt"
	defaultListingDetails = "No details provided"
)

// ImageUpload — изображение, присланное клиентом вместе с запросом.
type ImageUpload struct {
	ContentType string
	Data        []byte
}

// CreateListingInput — поля нового объявления.
// ImageURL имеет приоритет над Image (готовый URL из черновика ассистента).
type CreateListingInput struct {
	Name     string
	Category string
	Details  string
	TopOffer int64
	Duration int
	ImageURL string
	Image    *ImageUpload
}

// Compliance — обязательные подтверждения продавца в предложении.
type Compliance struct {
	Possession  bool
	OffPlatform bool
	Identity    bool
}

func (c Compliance) complete() bool {
	return c.Possession && c.OffPlatform && c.Identity
}

// ProposalInput — структурированное предложение продавца.
type ProposalInput struct {
	OfferPrice  int64
	Message     string
	Compliance  Compliance
	Condition   string
	FindersNote string
}

// Dashboard — личный кабинет: активные поиски, коллекция и поиски с предложениями.
type Dashboard struct {
	MyHunts     []models.Listing
	Collection  []models.Listing
	ActionItems []models.Listing
}

// CreateListing публикует объявление от имени actor.
//
// Поведение:
//   - пустое имя -> "Untitled Hunt", пустое описание -> "No details provided";
//   - категория вне набора -> Collectibles, отрицательная ставка -> 0;
//   - срок по умолчанию из listings.default_duration;
//   - сбой загрузки изображения не блокирует создание: ставится заглушка;
//   - FundsVerified — владелец прошёл проверку личности.
func (s *Service) CreateListing(ctx context.Context, actor *models.User, in CreateListingInput) (*models.Listing, error) {
	const op = "service/listings/CreateListing"

	if actor == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	lg := log.From(ctx).With("op", op, "user_id", actor.ID.String())

	now := s.now()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultListingName
	}

	details := strings.TrimSpace(in.Details)
	if details == "" {
		details = defaultListingDetails
	}

	category, ok := models.ParseCategory(strings.TrimSpace(in.Category))
	if !ok {
		category = models.Category(s.cfg.AI.DefaultCategory)
		if _, known := models.ParseCategory(string(category)); !known {
			category = models.CategoryCollectibles
		}
	}

	duration := in.Duration
	if duration <= 0 {
		duration = s.cfg.Listings.DefaultDuration
	}

	l := &models.Listing{
		ID:            ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Name:          name,
		Category:      category,
		Details:       details,
		TopOffer:      max(in.TopOffer, 0),
		ImageURL:      s.resolveImage(ctx, lg, actor.ID, in.ImageURL, in.Image),
		Owner:         actor.Ref(),
		FundsVerified: actor.Onboarded(),
		CreatedAt:     now,
		Duration:      duration,
	}

	if err := s.listings.CreateListing(ctx, l); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "create listing failed"))
	}

	lg.Info("listing created", "listing_id", l.ID, "category", string(l.Category))

	return l, nil
}

// resolveImage возвращает URL изображения объявления; при любом сбое — заглушку.
func (s *Service) resolveImage(ctx context.Context, lg *slog.Logger, ownerID uuid.UUID, url string, img *ImageUpload) string {
	if url = strings.TrimSpace(url); url != "" {
		return url
	}

	if img == nil || len(img.Data) == 0 {
		return s.cfg.Images.Placeholder
	}

	uploaded, err := s.images.UploadImage(ctx, ownerID, img.ContentType, img.Data)
	if err != nil {
		lg.Warn("image upload failed, using placeholder", "err", err, "content_type", img.ContentType)
		return s.cfg.Images.Placeholder
	}

	return uploaded
}

// ListingByID возвращает объявление. Ставки видит только владелец.
func (s *Service) ListingByID(ctx context.Context, id string, viewerID uuid.UUID) (*models.Listing, error) {
	const op = "service/listings/ListingByID"

	lg := log.From(ctx).With("op", op, "listing_id", id)

	l, err := s.listings.ListingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get listing failed"))
	}

	if !l.OwnedBy(viewerID) {
		l.Bids = nil
	}

	return l, nil
}

// CoSign — «мне тоже нужно»: +1 к upvotes. Уникальность по пользователю не проверяется.
func (s *Service) CoSign(ctx context.Context, listingID string) (int64, error) {
	const op = "service/listings/CoSign"

	lg := log.From(ctx).With("op", op, "listing_id", listingID)

	upvotes, err := s.listings.IncrementUpvotes(ctx, listingID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, storageError(lg, err, "increment upvotes failed"))
	}

	return upvotes, nil
}

// AddComment добавляет комментарий; счётчик растёт в той же операции хранилища.
func (s *Service) AddComment(ctx context.Context, listingID string, author *models.UserRef, text string) (*models.Comment, int, error) {
	const op = "service/listings/AddComment"

	if author == nil {
		return nil, 0, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	lg := log.From(ctx).With("op", op, "listing_id", listingID)

	text = strings.TrimSpace(text)
	if text == "" {
		lg.Warn("invalid argument: empty comment")
		return nil, 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	c := models.Comment{
		ID:        uuid.New(),
		Author:    *author,
		Text:      text,
		Timestamp: s.now(),
	}

	count, err := s.listings.AppendComment(ctx, listingID, c)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, storageError(lg, err, "append comment failed"))
	}

	return &c, count, nil
}

// ownedListing загружает объявление и проверяет, что actorID — владелец.
func (s *Service) ownedListing(ctx context.Context, lg *slog.Logger, id string, actorID uuid.UUID) (*models.Listing, error) {
	l, err := s.listings.ListingByID(ctx, id)
	if err != nil {
		return nil, storageError(lg, err, "get listing failed")
	}

	if !l.OwnedBy(actorID) {
		lg.Warn("actor is not the owner", "actor_id", actorID.String())
		return nil, ErrUnauthorized
	}

	return l, nil
}

// DeleteListing удаляет объявление владельца и, если возможно, его изображение.
func (s *Service) DeleteListing(ctx context.Context, listingID string, actorID uuid.UUID) error {
	const op = "service/listings/DeleteListing"

	lg := log.From(ctx).With("op", op, "listing_id", listingID)

	l, err := s.ownedListing(ctx, lg, listingID, actorID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.listings.DeleteListing(ctx, listingID); err != nil {
		return fmt.Errorf("%s: %w", op, storageError(lg, err, "delete listing failed"))
	}

	if l.ImageURL != "" && l.ImageURL != s.cfg.Images.Placeholder {
		if err := s.images.DeleteImage(ctx, l.ImageURL); err != nil && !errors.Is(err, storage.ErrNotFound) {
			lg.Warn("image cleanup failed", "err", err)
		}
	}

	lg.Info("listing deleted")

	return nil
}

// EditTopOffer меняет верхнюю ставку. Только владелец.
// Нечисловое или неположительное значение отклоняется с ErrInvalidArgument.
func (s *Service) EditTopOffer(ctx context.Context, listingID, raw string, actorID uuid.UUID) (int64, error) {
	const op = "service/listings/EditTopOffer"

	lg := log.From(ctx).With("op", op, "listing_id", listingID)

	if _, err := s.ownedListing(ctx, lg, listingID, actorID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	value := feed.ParseBudget(raw)
	if value == nil || *value <= 0 {
		lg.Warn("invalid argument: top offer", "raw", raw)
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.listings.UpdateTopOffer(ctx, listingID, *value); err != nil {
		return 0, fmt.Errorf("%s: %w", op, storageError(lg, err, "update top offer failed"))
	}

	return *value, nil
}

// SubmitProposal отправляет владельцу официальное предложение.
//
// Порядок проверок: вход -> существование -> не владелец -> срок -> содержимое.
// При успехе сообщение уходит в переписку (StartOrResumeConversation),
// а на объявлении сохраняется ставка. Возвращает ID переписки отправителя.
func (s *Service) SubmitProposal(ctx context.Context, listingID string, bidder *models.User, in ProposalInput) (uuid.UUID, error) {
	const op = "service/listings/SubmitProposal"

	if bidder == nil {
		s.metrics.Proposal("not_authenticated")
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	lg := log.From(ctx).With("op", op, "listing_id", listingID, "user_id", bidder.ID.String())

	l, err := s.listings.ListingByID(ctx, listingID)
	if err != nil {
		s.metrics.Proposal("not_found")
		return uuid.Nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get listing failed"))
	}

	if l.OwnedBy(bidder.ID) {
		lg.Warn("owner cannot bid on own listing")
		s.metrics.Proposal("unauthorized")
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}

	now := s.now()
	if l.Expired(now) {
		lg.Warn("listing expired", "days_left", l.DaysLeft(now))
		s.metrics.Proposal("expired")
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrExpired)
	}

	message := strings.TrimSpace(in.Message)
	if !in.Compliance.complete() || message == "" || in.OfferPrice <= 0 {
		lg.Warn("invalid proposal",
			"compliance", in.Compliance.complete(),
			"empty_message", message == "",
			"price", in.OfferPrice,
		)
		s.metrics.Proposal("invalid")
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	threadID, err := s.StartOrResumeConversation(ctx, l, bidder, l.Owner.ID, FormatProposal(in.OfferPrice, message))
	if err != nil {
		s.metrics.Proposal("failed")
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	bid := models.Bid{
		ID:          uuid.New(),
		Bidder:      bidder.Ref(),
		Price:       in.OfferPrice,
		Condition:   strings.TrimSpace(in.Condition),
		FindersNote: strings.TrimSpace(in.FindersNote),
		CreatedAt:   now,
	}

	// Переписка уже создана: ставка вторична, её сбой только логируется.
	if err := s.listings.AppendBid(ctx, listingID, bid); err != nil {
		lg.Error("append bid failed", "err", err)
	}

	s.metrics.Proposal("accepted")
	lg.Info("proposal submitted", "thread_id", threadID.String(), "price", in.OfferPrice)

	return threadID, nil
}

// FormatProposal — текст официального предложения в переписке.
func FormatProposal(price int64, message string) string {
	return fmt.Sprintf("OFFICIAL PROPOSAL: $%d\n\n%s\n\n"+
		"[x] Verified Possession/Funds\n"+
		"[x] Accepted Off-Platform Terms\n"+
		"[x] Agreed to Identity Check", price, message)
}

// ListBids — ставки по объявлению. Только владелец.
func (s *Service) ListBids(ctx context.Context, listingID string, actorID uuid.UUID) ([]models.Bid, error) {
	const op = "service/listings/ListBids"

	lg := log.From(ctx).With("op", op, "listing_id", listingID)

	l, err := s.ownedListing(ctx, lg, listingID, actorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if l.Bids == nil {
		return []models.Bid{}, nil
	}

	return l.Bids, nil
}

// AssignFinder назначает искателя. Только владелец; себя назначить нельзя.
func (s *Service) AssignFinder(ctx context.Context, listingID string, actorID, finderID uuid.UUID) (*models.UserRef, error) {
	const op = "service/listings/AssignFinder"

	lg := log.From(ctx).With("op", op, "listing_id", listingID, "finder_id", finderID.String())

	if _, err := s.ownedListing(ctx, lg, listingID, actorID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if finderID == actorID || finderID == uuid.Nil {
		lg.Warn("invalid argument: finder")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	finder, err := s.users.UserByID(ctx, finderID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get finder failed"))
	}

	ref := finder.Ref()
	if err := s.listings.SetFinder(ctx, listingID, ref); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "set finder failed"))
	}

	return &ref, nil
}

// MarkAcquired переводит объявление в «куплено». Только владелец, один раз.
// Нулевая цена -> текущая верхняя ставка.
func (s *Service) MarkAcquired(ctx context.Context, listingID string, actorID uuid.UUID, price int64, hasBuyback bool) (*models.Acquisition, error) {
	const op = "service/listings/MarkAcquired"

	lg := log.From(ctx).With("op", op, "listing_id", listingID)

	l, err := s.ownedListing(ctx, lg, listingID, actorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if l.Acquired != nil {
		lg.Warn("listing already acquired")
		return nil, fmt.Errorf("%s: %w", op, ErrConflict)
	}

	if price < 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if price == 0 {
		price = l.TopOffer
	}

	a := models.Acquisition{Price: price, HasBuyback: hasBuyback, AcquiredAt: s.now()}
	if err := s.listings.SetAcquired(ctx, listingID, a); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "set acquired failed"))
	}

	lg.Info("listing acquired", "price", price)

	return &a, nil
}

// Dashboard собирает личный кабинет пользователя.
func (s *Service) Dashboard(ctx context.Context, actorID uuid.UUID) (*Dashboard, error) {
	const op = "service/listings/Dashboard"

	lg := log.From(ctx).With("op", op, "user_id", actorID.String())

	own, err := s.listings.ListingsByOwner(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "list own listings failed"))
	}

	d := &Dashboard{
		MyHunts:     []models.Listing{},
		Collection:  []models.Listing{},
		ActionItems: []models.Listing{},
	}

	for _, l := range own {
		if l.Acquired != nil {
			d.Collection = append(d.Collection, l)
			continue
		}

		d.MyHunts = append(d.MyHunts, l)
		if len(l.Bids) > 0 {
			d.ActionItems = append(d.ActionItems, l)
		}
	}

	// Коллекция — от последних покупок.
	slices.SortStableFunc(d.Collection, func(a, b models.Listing) int {
		return b.Acquired.AcquiredAt.Compare(a.Acquired.AcquiredAt)
	})

	return d, nil
}
