package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
)

// StartDraft открывает новый диалог создания объявления.
func (s *Service) StartDraft(ctx context.Context, ownerID uuid.UUID) (*models.DraftSession, error) {
	const op = "service/drafts/StartDraft"

	lg := log.From(ctx).With("op", op, "user_id", ownerID.String())

	now := s.now()
	d := &models.DraftSession{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		State:     models.DraftCollecting,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "save draft failed"))
	}

	return d, nil
}

// DraftByID возвращает диалог владельца.
func (s *Service) DraftByID(ctx context.Context, ownerID, id uuid.UUID) (*models.DraftSession, error) {
	const op = "service/drafts/DraftByID"

	lg := log.From(ctx).With("op", op, "draft_id", id.String())

	d, err := s.drafts.DraftByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get draft failed"))
	}

	return d, nil
}

// DraftTurn отправляет реплику пользователя и применяет ответ модели.
//
// Модель вызывается вне блокировки. Пока вызов в полёте, сессия помечена Busy
// и вторая реплика получает ErrConflict. Если за это время сессию закрыли,
// переоткрыли или удалили, ответ отбрасывается.
func (s *Service) DraftTurn(ctx context.Context, ownerID, id uuid.UUID, text string, img *ImageUpload) (*models.DraftSession, error) {
	const op = "service/drafts/DraftTurn"

	lg := log.From(ctx).With("op", op, "draft_id", id.String())

	text = strings.TrimSpace(text)
	hasImage := img != nil && len(img.Data) > 0
	if text == "" && !hasImage {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	// Проверка до загрузки изображения, чтобы не плодить объекты для чужих сессий.
	if _, err := s.draftFor(ctx, lg, ownerID, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var image *models.ChatImage
	if hasImage {
		image = &models.ChatImage{
			MIMEType: img.ContentType,
			Data:     img.Data,
			URL:      s.resolveImage(ctx, lg, ownerID, "", img),
		}
	}

	history, version, err := s.beginTurn(ctx, lg, ownerID, id, text, image)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reply, outcome := s.extract(ctx, lg, history, text, image)

	// Сессия помечена Busy: завершение не должно зависеть от отмены запроса.
	ctx = context.WithoutCancel(ctx)

	unlock := s.draftLocks.lock(id)
	defer unlock()

	d, err := s.drafts.DraftByID(ctx, ownerID, id)
	if err != nil {
		s.metrics.AICall("draft", aiStale)
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "reload draft failed"))
	}

	if d.Version != version || d.State != models.DraftCollecting {
		s.metrics.AICall("draft", aiStale)
		lg.Info("stale draft reply dropped", "version", version, "current", d.Version)
		return d, nil
	}

	s.metrics.AICall("draft", outcome)
	s.applyReply(d, reply)
	d.Busy = false
	d.UpdatedAt = s.now()

	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "save draft failed"))
	}

	if d.State == models.DraftFinalized {
		lg.Info("draft finalized", "category", string(d.Draft.Category))
	}

	return d, nil
}

// beginTurn под блокировкой записывает реплику пользователя и помечает сессию занятой.
// Возвращает историю до реплики и версию, с которой сверяется ответ модели.
func (s *Service) beginTurn(ctx context.Context, lg *slog.Logger, ownerID, id uuid.UUID, text string, image *models.ChatImage) ([]models.ChatTurn, int, error) {
	unlock := s.draftLocks.lock(id)
	defer unlock()

	d, err := s.draftFor(ctx, lg, ownerID, id)
	if err != nil {
		return nil, 0, err
	}

	if d.Busy {
		lg.Warn("draft turn already in flight")
		return nil, 0, ErrConflict
	}

	history := slices.Clone(d.History)

	turn := models.ChatTurn{Role: models.ChatUser, Text: text, Time: s.now()}
	if image != nil {
		stored := &models.ChatImage{MIMEType: image.MIMEType, URL: image.URL}
		turn.ImageURL = image.URL
		d.LastImage = stored
	}

	d.History = append(d.History, turn)
	d.Busy = true
	d.Version++
	d.UpdatedAt = s.now()

	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		return nil, 0, storageError(lg, err, "save draft failed")
	}

	return history, d.Version, nil
}

// draftFor загружает сессию и проверяет, что в неё ещё можно писать.
func (s *Service) draftFor(ctx context.Context, lg *slog.Logger, ownerID, id uuid.UUID) (*models.DraftSession, error) {
	d, err := s.drafts.DraftByID(ctx, ownerID, id)
	if err != nil {
		return nil, storageError(lg, err, "get draft failed")
	}

	if d.State == models.DraftFinalized {
		lg.Warn("turn on finalized draft")
		return nil, ErrDraftFinalized
	}

	return d, nil
}

// extract вызывает модель с таймаутом. Любой сбой превращается в текст-заглушку.
func (s *Service) extract(ctx context.Context, lg *slog.Logger, history []models.ChatTurn, text string, image *models.ChatImage) (*models.DraftReply, string) {
	if s.gen == nil {
		return &models.DraftReply{Text: ChatUnavailableText}, aiUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.AI.Timeout)
	defer cancel()

	reply, err := s.gen.ExtractDraft(callCtx, history, text, image)
	if err != nil {
		lg.Error("draft extraction failed", "err", err)
		return &models.DraftReply{Text: DraftFailedText}, aiOutcome(err)
	}

	if reply == nil {
		return &models.DraftReply{Text: DraftEmptyText}, aiOK
	}

	return reply, aiOK
}

// applyReply: валидный черновик закрывает диалог, остальное становится репликой модели.
func (s *Service) applyReply(d *models.DraftSession, reply *models.DraftReply) {
	if reply.Draft != nil {
		if draft, ok := s.validateDraft(reply.Draft, d.LastImage); ok {
			d.Draft = draft
			d.State = models.DraftFinalized
			return
		}

		if strings.TrimSpace(reply.Text) == "" {
			reply = &models.DraftReply{Text: DraftMissingNameText}
		}
	}

	text := strings.TrimSpace(reply.Text)
	if text == "" {
		text = DraftEmptyText
	}

	d.History = append(d.History, models.ChatTurn{Role: models.ChatModel, Text: text, Time: s.now()})
}

// validateDraft нормализует поля черновика; без названия черновик не принимается.
func (s *Service) validateDraft(in *models.ListingDraft, last *models.ChatImage) (*models.ListingDraft, bool) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, false
	}

	category, ok := models.ParseCategory(string(in.Category))
	if !ok {
		category, ok = models.ParseCategory(s.cfg.AI.DefaultCategory)
		if !ok {
			category = models.CategoryCollectibles
		}
	}

	details := strings.TrimSpace(in.Details)
	if details == "" {
		details = defaultListingDetails
	}

	out := &models.ListingDraft{
		Name:           name,
		Category:       category,
		Details:        details,
		EstimatedValue: max(0, in.EstimatedValue),
	}

	if last != nil {
		out.ImageURL = last.URL
	}

	return out, true
}

// ReopenDraft возвращает закрытый черновик к диалогу. Ответ модели в полёте будет отброшен.
func (s *Service) ReopenDraft(ctx context.Context, ownerID, id uuid.UUID) (*models.DraftSession, error) {
	const op = "service/drafts/ReopenDraft"

	lg := log.From(ctx).With("op", op, "draft_id", id.String())

	unlock := s.draftLocks.lock(id)
	defer unlock()

	d, err := s.drafts.DraftByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get draft failed"))
	}

	d.State = models.DraftCollecting
	d.Draft = nil
	d.Busy = false
	d.Version++
	d.UpdatedAt = s.now()

	if err := s.drafts.SaveDraft(ctx, d); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "save draft failed"))
	}

	return d, nil
}

// DiscardDraft удаляет диалог.
func (s *Service) DiscardDraft(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "service/drafts/DiscardDraft"

	lg := log.From(ctx).With("op", op, "draft_id", id.String())

	unlock := s.draftLocks.lock(id)
	defer unlock()

	if err := s.drafts.DeleteDraft(ctx, ownerID, id); err != nil {
		return fmt.Errorf("%s: %w", op, storageError(lg, err, "delete draft failed"))
	}

	return nil
}
