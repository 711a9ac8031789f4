package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// inbox — ящик одного пользователя.
// order хранит идентификаторы от недавно активных к старым.
type inbox struct {
	order []uuid.UUID
	byID  map[uuid.UUID]*models.Thread
	byKey map[models.ThreadKey]uuid.UUID
}

func newInbox() *inbox {
	return &inbox{
		byID:  make(map[uuid.UUID]*models.Thread),
		byKey: make(map[models.ThreadKey]uuid.UUID),
	}
}

func (b *inbox) remove(id uuid.UUID) {
	t, ok := b.byID[id]
	if !ok {
		return
	}

	delete(b.byKey, t.Key())
	delete(b.byID, id)
	b.order = slices.DeleteFunc(b.order, func(x uuid.UUID) bool { return x == id })
}

func cloneThread(t *models.Thread) *models.Thread {
	out := *t
	out.Messages = slices.Clone(t.Messages)
	return &out
}

func (s *Storage) ThreadByKey(ctx context.Context, key models.ThreadKey) (*models.Thread, error) {
	const op = "storage/memory/ThreadByKey"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.inboxes[key.OwnerID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	id, ok := b.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return cloneThread(b.byID[id]), nil
}

func (s *Storage) ThreadByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Thread, error) {
	const op = "storage/memory/ThreadByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.thread(ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cloneThread(t), nil
}

func (s *Storage) SaveThread(ctx context.Context, t *models.Thread) error {
	const op = "storage/memory/SaveThread"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if t.Status == models.ThreadDestroyed {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.inboxes[t.OwnerID]
	if !ok {
		b = newInbox()
		s.inboxes[t.OwnerID] = b
	}

	// Тот же ключ под другим ID — конфликт уникальности.
	if existing, ok := b.byKey[t.Key()]; ok && existing != t.ID {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	b.remove(t.ID)
	b.byID[t.ID] = cloneThread(t)
	b.byKey[t.Key()] = t.ID
	b.order = append([]uuid.UUID{t.ID}, b.order...)

	return nil
}

func (s *Storage) UpdateThreadStatus(ctx context.Context, ownerID, id uuid.UUID, status models.ThreadStatus) error {
	const op = "storage/memory/UpdateThreadStatus"

	if status == models.ThreadDestroyed {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	return s.mutateThread(ctx, op, ownerID, id, func(t *models.Thread) {
		t.Status = status
	})
}

func (s *Storage) MarkThreadRead(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "storage/memory/MarkThreadRead"

	return s.mutateThread(ctx, op, ownerID, id, func(t *models.Thread) {
		t.Unread = 0
	})
}

func (s *Storage) DeleteThread(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "storage/memory/DeleteThread"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.thread(ownerID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.inboxes[ownerID].remove(id)

	return nil
}

func (s *Storage) ListThreads(ctx context.Context, ownerID uuid.UUID) ([]models.Thread, error) {
	const op = "storage/memory/ListThreads"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.inboxes[ownerID]
	if !ok {
		return []models.Thread{}, nil
	}

	out := make([]models.Thread, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, *cloneThread(b.byID[id]))
	}

	return out, nil
}

// thread возвращает переписку без копирования; вызывать под блокировкой.
func (s *Storage) thread(ownerID, id uuid.UUID) (*models.Thread, error) {
	b, ok := s.inboxes[ownerID]
	if !ok {
		return nil, storage.ErrNotFound
	}

	t, ok := b.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return t, nil
}

func (s *Storage) mutateThread(ctx context.Context, op string, ownerID, id uuid.UUID, fn func(t *models.Thread)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.thread(ownerID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	fn(t)

	return nil
}
