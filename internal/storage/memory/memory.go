// memory — потокобезопасная in-memory реализация всех контрактов storage.
// Используется по умолчанию (storage.* = memory) и в unit-тестах сервисного слоя.
// Наружу всегда отдаются копии: вызывающий код не может изменить состояние в обход методов.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

// Storage — хранилище рабочего набора в памяти процесса.
type Storage struct {
	mu  sync.RWMutex
	cfg config.ImagesConfig
	now func() time.Time

	listings map[string]*models.Listing

	users       map[uuid.UUID]*models.User
	usersByMail map[string]uuid.UUID

	inboxes map[uuid.UUID]*inbox

	revoked  map[string]time.Time
	insights map[string]insightEntry
	drafts   map[uuid.UUID]*models.DraftSession
}

type insightEntry struct {
	value     models.MarketInsight
	expiresAt time.Time
}

// New создаёт пустое хранилище.
func New(cfg config.ImagesConfig) *Storage {
	return &Storage{
		cfg:         cfg,
		now:         time.Now,
		listings:    make(map[string]*models.Listing),
		users:       make(map[uuid.UUID]*models.User),
		usersByMail: make(map[string]uuid.UUID),
		inboxes:     make(map[uuid.UUID]*inbox),
		revoked:     make(map[string]time.Time),
		insights:    make(map[string]insightEntry),
		drafts:      make(map[uuid.UUID]*models.DraftSession),
	}
}

// SetClock подменяет источник времени (для тестов TTL).
func (s *Storage) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Close — для симметрии с остальными реализациями.
func (s *Storage) Close() {}

// Проверка на соответствие контрактам.
var (
	_ storage.Listings     = (*Storage)(nil)
	_ storage.Users        = (*Storage)(nil)
	_ storage.Threads      = (*Storage)(nil)
	_ storage.Images       = (*Storage)(nil)
	_ storage.Sessions     = (*Storage)(nil)
	_ storage.InsightCache = (*Storage)(nil)
	_ storage.Drafts       = (*Storage)(nil)
)
