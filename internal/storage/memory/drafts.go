package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

func cloneDraft(d *models.DraftSession) *models.DraftSession {
	out := *d
	out.History = slices.Clone(d.History)

	if d.LastImage != nil {
		img := *d.LastImage
		out.LastImage = &img
	}

	if d.Draft != nil {
		dr := *d.Draft
		out.Draft = &dr
	}

	return &out
}

func (s *Storage) SaveDraft(ctx context.Context, d *models.DraftSession) error {
	const op = "storage/memory/SaveDraft"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.drafts[d.ID]; ok && cur.OwnerID != d.OwnerID {
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	}

	s.drafts[d.ID] = cloneDraft(d)

	return nil
}

func (s *Storage) DraftByID(ctx context.Context, ownerID, id uuid.UUID) (*models.DraftSession, error) {
	const op = "storage/memory/DraftByID"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok || d.OwnerID != ownerID {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return cloneDraft(d), nil
}

func (s *Storage) DeleteDraft(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "storage/memory/DeleteDraft"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok || d.OwnerID != ownerID {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	delete(s.drafts, id)

	return nil
}
