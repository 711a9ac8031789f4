// service содержит бизнес-логику iso-board:
//   - лента и операции над объявлениями (listings.go, feed.go);
//   - жизненный цикл переписки (conversations.go);
//   - диалог создания объявления с ассистентом и рыночные сводки (drafts.go, assistant.go);
//   - регистрация, вход и профиль (auth.go, token.go).
//
// Service не хранит состояние запроса; все изменяемые данные живут за интерфейсами storage,
// поэтому бэкенды (memory/postgres/mongo/minio/redis) взаимозаменяемы.
// Ошибки возвращаются sentinel-значениями ниже и маппятся транспортом в HTTP-статусы.
package service

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/config"
	"github.com/pribylovaa/go-iso-board/internal/feed"
	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/storage"
)

var (
	// ErrInvalidArgument — входные данные не прошли валидацию. HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotAuthenticated — операция требует вошедшего пользователя. HTTP 401.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidCredentials — неверная пара email/пароль. HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken — токен повреждён, истёк или отозван. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthorized — пользователь не владелец ресурса. HTTP 403.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound — сущность не найдена. HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности или состояния. HTTP 409.
	ErrConflict = errors.New("conflict")
	// ErrThreadDeleted — в переписку из корзины писать нельзя. HTTP 409.
	ErrThreadDeleted = errors.New("thread is deleted")
	// ErrDraftFinalized — черновик уже собран, нужен Reopen. HTTP 409.
	ErrDraftFinalized = errors.New("draft is finalized")
	// ErrExpired — срок объявления истёк. HTTP 410.
	ErrExpired = errors.New("listing expired")
	// ErrUnavailable — внешний сервис недоступен. HTTP 503.
	ErrUnavailable = errors.New("service unavailable")
	// ErrInternal — внутренняя ошибка. HTTP 500.
	ErrInternal = errors.New("internal")
)

// Stores — набор хранилищ, с которыми работает сервис.
type Stores struct {
	Listings storage.Listings
	Users    storage.Users
	Threads  storage.Threads
	Images   storage.Images
	Sessions storage.Sessions
	Drafts   storage.Drafts
}

// Recorder — доменные метрики. Реализация: internal/metrics.
type Recorder interface {
	Proposal(outcome string)
	AICall(kind, outcome string)
	ThreadDestroyed()
}

type nopRecorder struct{}

func (nopRecorder) Proposal(string)       {}
func (nopRecorder) AICall(string, string) {}
func (nopRecorder) ThreadDestroyed()      {}

// Service — бизнес-логика iso-board.
type Service struct {
	listings storage.Listings
	users    storage.Users
	threads  storage.Threads
	images   storage.Images
	sessions storage.Sessions
	drafts   storage.Drafts

	cfg    *config.Config
	engine feed.Engine

	gen      Generator            // nil, если ai.api_key не задан
	insights storage.InsightCache // nil -> сводки не кэшируются
	metrics  Recorder

	inboxLocks stripedLock
	draftLocks stripedLock
	events     *broker

	now func() time.Time
}

// New создаёт сервис. Генератор и кэш сводок подключаются сеттерами.
func New(st Stores, cfg *config.Config) *Service {
	return &Service{
		listings: st.Listings,
		users:    st.Users,
		threads:  st.Threads,
		images:   st.Images,
		sessions: st.Sessions,
		drafts:   st.Drafts,
		cfg:      cfg,
		engine:   feed.Engine{PinTrustAbove: cfg.Listings.PinTrustAbove},
		metrics:  nopRecorder{},
		events:   newBroker(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetGenerator подключает генеративную модель (опционально).
func (s *Service) SetGenerator(g Generator) {
	s.gen = g
}

// SetInsightCache подключает кэш рыночных сводок (опционально).
func (s *Service) SetInsightCache(c storage.InsightCache) {
	s.insights = c
}

// SetRecorder подключает доменные метрики.
func (s *Service) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	s.metrics = r
}

// SetClock подменяет источник времени (тесты сроков объявлений и токенов).
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// storageError переводит ошибку хранилища в ошибку сервиса и пишет её в лог
// с уровнем по природе ошибки: клиентские — Warn, остальные — Error.
func storageError(lg *slog.Logger, err error, msg string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		lg.Warn(msg+": not found", "err", err)
		return ErrNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		lg.Warn(msg+": already exists", "err", err)
		return ErrConflict
	case errors.Is(err, storage.ErrInvalidArgument):
		lg.Warn(msg+": invalid argument", "err", err)
		return ErrInvalidArgument
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		lg.Warn(msg+": context done", "err", err)
		return err
	default:
		lg.Error(msg, "err", err)
		return ErrInternal
	}
}

// stripedLock — фиксированный набор мьютексов, выбираемых по хэшу ключа.
// Сериализует изменения одного ящика (или черновика) без глобальной блокировки.
type stripedLock struct {
	stripes [numStripes]sync.Mutex
}

const numStripes = 64

func (l *stripedLock) index(id uuid.UUID) int {
	h := fnv.New32a()
	_, _ = h.Write(id[:])
	return int(h.Sum32() % numStripes)
}

// lock берёт блокировки для набора ключей в стабильном порядке и возвращает unlock.
func (l *stripedLock) lock(ids ...uuid.UUID) func() {
	var taken [numStripes]bool
	for _, id := range ids {
		taken[l.index(id)] = true
	}

	for i := range taken {
		if taken[i] {
			l.stripes[i].Lock()
		}
	}

	return func() {
		for i := len(taken) - 1; i >= 0; i-- {
			if taken[i] {
				l.stripes[i].Unlock()
			}
		}
	}
}

// broker рассылает события ящика подписчикам (SSE).
// Медленный подписчик теряет события, но не блокирует запись.
type broker struct {
	mu   sync.RWMutex
	next int
	subs map[uuid.UUID]map[int]chan models.ThreadEvent
}

func newBroker() *broker {
	return &broker{subs: make(map[uuid.UUID]map[int]chan models.ThreadEvent)}
}

func (b *broker) subscribe(ownerID uuid.UUID) (<-chan models.ThreadEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan models.ThreadEvent, 16)
	if b.subs[ownerID] == nil {
		b.subs[ownerID] = make(map[int]chan models.ThreadEvent)
	}
	b.subs[ownerID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			delete(b.subs[ownerID], id)
			if len(b.subs[ownerID]) == 0 {
				delete(b.subs, ownerID)
			}
			close(ch)
		})
	}

	return ch, cancel
}

func (b *broker) publish(ev models.ThreadEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[ev.OwnerID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
