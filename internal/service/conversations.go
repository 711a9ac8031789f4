package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// StartOrResumeConversation пишет сообщение from -> toID по объявлению listing.
//
// Переписка уникальна по (владелец ящика, объявление, собеседник):
//   - найдена -> сообщение добавляется, переписка становится active и поднимается наверх;
//   - не найдена -> создаётся со снимком профиля получателя и первым сообщением.
//
// Получатель получает зеркальную копию с входящим сообщением (unread + 1).
// Возвращает ID переписки в ящике отправителя.
func (s *Service) StartOrResumeConversation(ctx context.Context, listing *models.Listing, from *models.User, toID uuid.UUID, text string) (uuid.UUID, error) {
	const op = "service/conversations/StartOrResumeConversation"

	if from == nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrNotAuthenticated)
	}

	lg := log.From(ctx).With("op", op, "listing_id", listing.ID, "from", from.ID.String(), "to", toID.String())

	text = strings.TrimSpace(text)
	if text == "" || toID == from.ID || toID == uuid.Nil {
		lg.Warn("invalid argument: empty text or recipient")
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	recipient, err := s.participant(ctx, toID, listing)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get recipient failed"))
	}

	unlock := s.inboxLocks.lock(from.ID, toID)
	defer unlock()

	now := s.now()
	msg := models.Message{ID: uuid.New(), Sender: models.SenderMe, Text: text, Time: now}

	key := models.ThreadKey{OwnerID: from.ID, ListingID: listing.ID, CounterpartyID: toID}
	t, err := s.threads.ThreadByKey(ctx, key)
	switch {
	case err == nil:
		lg.Debug("resuming thread", "thread_id", t.ID.String())
	case errors.Is(err, storage.ErrNotFound):
		t = &models.Thread{
			ID:          uuid.New(),
			OwnerID:     from.ID,
			ListingID:   listing.ID,
			Item:        listing.Name,
			Participant: recipient,
		}
	default:
		return uuid.Nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get thread failed"))
	}

	t.Append(msg)

	if err := s.threads.SaveThread(ctx, t); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "save thread failed"))
	}
	s.events.publish(models.ThreadEvent{OwnerID: from.ID, ThreadID: t.ID, Status: t.Status, Message: &msg})

	if err := s.deliver(ctx, lg, toID, listing.ID, listing.Name, s.participantOf(from), msg); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return t.ID, nil
}

// SendMessage — ответ в существующей переписке.
// В переписку из корзины писать нельзя (ErrThreadDeleted); архивная возвращается во входящие.
func (s *Service) SendMessage(ctx context.Context, ownerID, threadID uuid.UUID, text string) (*models.Message, error) {
	const op = "service/conversations/SendMessage"

	lg := log.From(ctx).With("op", op, "user_id", ownerID.String(), "thread_id", threadID.String())

	text = strings.TrimSpace(text)
	if text == "" {
		lg.Warn("invalid argument: empty message")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	// Собеседник нужен до блокировки, чтобы взять оба ящика сразу.
	peek, err := s.threads.ThreadByID(ctx, ownerID, threadID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get thread failed"))
	}

	unlock := s.inboxLocks.lock(ownerID, peek.Participant.ID)
	defer unlock()

	t, err := s.threads.ThreadByID(ctx, ownerID, threadID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get thread failed"))
	}

	if t.Status == models.ThreadDeleted {
		lg.Warn("compose in deleted folder")
		return nil, fmt.Errorf("%s: %w", op, ErrThreadDeleted)
	}

	msg := models.Message{ID: uuid.New(), Sender: models.SenderMe, Text: text, Time: s.now()}
	t.Append(msg)

	if err := s.threads.SaveThread(ctx, t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "save thread failed"))
	}
	s.events.publish(models.ThreadEvent{OwnerID: ownerID, ThreadID: t.ID, Status: t.Status, Message: &msg})

	sender, err := s.participant(ctx, ownerID, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get sender failed"))
	}

	if err := s.deliver(ctx, lg, t.Participant.ID, t.ListingID, t.Item, sender, msg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &msg, nil
}

// deliver кладёт входящее сообщение в ящик получателя, создавая переписку при необходимости.
// Вызывается под блокировкой ящика получателя.
func (s *Service) deliver(ctx context.Context, lg *slog.Logger, recipientID uuid.UUID, listingID, item string, sender models.Participant, sent models.Message) error {
	key := models.ThreadKey{OwnerID: recipientID, ListingID: listingID, CounterpartyID: sender.ID}

	t, err := s.threads.ThreadByKey(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		t = &models.Thread{
			ID:          uuid.New(),
			OwnerID:     recipientID,
			ListingID:   listingID,
			Item:        item,
			Participant: sender,
		}
	default:
		return storageError(lg, err, "get recipient thread failed")
	}

	in := models.Message{ID: uuid.New(), Sender: models.SenderThem, Text: sent.Text, Time: sent.Time}
	t.Append(in)

	if err := s.threads.SaveThread(ctx, t); err != nil {
		return storageError(lg, err, "save recipient thread failed")
	}

	s.events.publish(models.ThreadEvent{OwnerID: recipientID, ThreadID: t.ID, Status: t.Status, Message: &in})

	return nil
}

// participant строит снимок собеседника. Если пользователь не найден,
// а он владелец listing, используется карточка из объявления с доверием по умолчанию.
func (s *Service) participant(ctx context.Context, id uuid.UUID, listing *models.Listing) (models.Participant, error) {
	u, err := s.users.UserByID(ctx, id)
	if err == nil {
		return s.participantOf(u), nil
	}

	if !errors.Is(err, storage.ErrNotFound) {
		return models.Participant{}, err
	}

	p := models.Participant{
		ID:         id,
		Status:     "offline",
		Role:       models.RoleMember,
		TrustScore: s.cfg.Listings.DefaultTrust,
	}

	if listing != nil && listing.Owner.ID == id {
		p.Name = listing.Owner.Name
		p.Avatar = listing.Owner.Avatar
	}

	if p.Name == "" {
		// Без имени переписку не отобразить.
		return models.Participant{}, err
	}

	p.Verified = p.TrustScore > s.cfg.Listings.VerifiedTrustAbove

	return p, nil
}

func (s *Service) participantOf(u *models.User) models.Participant {
	role := u.Role
	if role == "" {
		role = models.RoleMember
	}

	return models.Participant{
		ID:         u.ID,
		Name:       u.Name,
		Avatar:     u.Avatar,
		Status:     "offline",
		Role:       role,
		TrustScore: u.TrustScore,
		Verified:   u.TrustScore > s.cfg.Listings.VerifiedTrustAbove,
	}
}

// SetStatus перемещает переписку между папками.
//   - destroyed -> переписка удаляется безвозвратно;
//   - active|archived|deleted -> статус меняется, история сохраняется;
//   - принимаются и действия archive|delete|restore|destroy;
//   - отсутствующая переписка -> no-op без ошибки.
func (s *Service) SetStatus(ctx context.Context, ownerID, threadID uuid.UUID, raw string) error {
	const op = "service/conversations/SetStatus"

	lg := log.From(ctx).With("op", op, "user_id", ownerID.String(), "thread_id", threadID.String())

	status, ok := models.ParseThreadStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		lg.Warn("invalid argument: unknown status", "status", raw)
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	unlock := s.inboxLocks.lock(ownerID)
	defer unlock()

	var err error
	if status == models.ThreadDestroyed {
		err = s.threads.DeleteThread(ctx, ownerID, threadID)
	} else {
		err = s.threads.UpdateThreadStatus(ctx, ownerID, threadID, status)
	}

	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Debug("thread not found, nothing to do")
			return nil
		}

		return fmt.Errorf("%s: %w", op, storageError(lg, err, "set status failed"))
	}

	if status == models.ThreadDestroyed {
		s.metrics.ThreadDestroyed()
	}

	s.events.publish(models.ThreadEvent{OwnerID: ownerID, ThreadID: threadID, Status: status})
	lg.Info("thread status changed", "status", string(status))

	return nil
}

// Folder — переписки с заданным статусом, сначала недавно активные.
// Пустая папка -> active.
func (s *Service) Folder(ctx context.Context, ownerID uuid.UUID, folder string) ([]models.Thread, error) {
	const op = "service/conversations/Folder"

	lg := log.From(ctx).With("op", op, "user_id", ownerID.String())

	status := models.ThreadActive
	if folder = strings.ToLower(strings.TrimSpace(folder)); folder != "" {
		var ok bool
		status, ok = models.ParseThreadStatus(folder)
		if !ok || status == models.ThreadDestroyed {
			lg.Warn("invalid argument: folder", "folder", folder)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
	}

	all, err := s.threads.ListThreads(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "list threads failed"))
	}

	out := make([]models.Thread, 0, len(all))
	for _, t := range all {
		if t.Status == status {
			out = append(out, t)
		}
	}

	return out, nil
}

// Thread возвращает переписку из ящика владельца.
func (s *Service) Thread(ctx context.Context, ownerID, threadID uuid.UUID) (*models.Thread, error) {
	const op = "service/conversations/Thread"

	lg := log.From(ctx).With("op", op, "user_id", ownerID.String(), "thread_id", threadID.String())

	t, err := s.threads.ThreadByID(ctx, ownerID, threadID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storageError(lg, err, "get thread failed"))
	}

	return t, nil
}

// MarkRead обнуляет счётчик непрочитанных.
func (s *Service) MarkRead(ctx context.Context, ownerID, threadID uuid.UUID) error {
	const op = "service/conversations/MarkRead"

	lg := log.From(ctx).With("op", op, "user_id", ownerID.String(), "thread_id", threadID.String())

	unlock := s.inboxLocks.lock(ownerID)
	defer unlock()

	if err := s.threads.MarkThreadRead(ctx, ownerID, threadID); err != nil {
		return fmt.Errorf("%s: %w", op, storageError(lg, err, "mark read failed"))
	}

	return nil
}

// Subscribe подписывает на события ящика. cancel закрывает канал.
func (s *Service) Subscribe(ownerID uuid.UUID) (<-chan models.ThreadEvent, func()) {
	return s.events.subscribe(ownerID)
}
