// storage описывает контракты хранилищ iso-board.
// Реализации: memory (по умолчанию и для тестов), postgres (объявления и пользователи),
// mongo (переписка), minio (изображения), cache (Redis: сессии и рыночные сводки).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/models"
)

//go:generate mockgen -source=storage.go -destination=../../mocks/mock_storage.go -package=mocks

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — конфликт уникальности (email, id, ключ переписки).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument — нарушены ограничения запроса (тип/размер изображения).
	ErrInvalidArgument = errors.New("invalid argument")
)

// Listings — объявления и их вложенные коллекции.
// Все изменения атомарны на уровне одного объявления.
type Listings interface {
	// CreateListing сохраняет новое объявление. Дубликат ID -> ErrAlreadyExists.
	CreateListing(ctx context.Context, l *models.Listing) error

	// ListingByID возвращает объявление вместе с комментариями и ставками.
	ListingByID(ctx context.Context, id string) (*models.Listing, error)

	// ListListings возвращает рабочий набор (сначала новые).
	ListListings(ctx context.Context) ([]models.Listing, error)

	// ListingsByOwner — объявления одного владельца (сначала новые).
	ListingsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error)

	// DeleteListing удаляет объявление целиком.
	DeleteListing(ctx context.Context, id string) error

	// IncrementUpvotes увеличивает счётчик на 1 и возвращает новое значение.
	IncrementUpvotes(ctx context.Context, id string) (int64, error)

	// AppendComment добавляет комментарий и увеличивает счётчик в одной операции.
	// Возвращает новое значение счётчика.
	AppendComment(ctx context.Context, id string, c models.Comment) (int, error)

	// UpdateTopOffer заменяет верхнюю ставку.
	UpdateTopOffer(ctx context.Context, id string, value int64) error

	// AppendBid добавляет структурированное предложение.
	AppendBid(ctx context.Context, id string, b models.Bid) error

	// SetFinder назначает искателя.
	SetFinder(ctx context.Context, id string, finder models.UserRef) error

	// SetAcquired переводит объявление в терминальное состояние «куплено».
	SetAcquired(ctx context.Context, id string, a models.Acquisition) error
}

// Users — учётные записи.
type Users interface {
	// SaveUser создаёт пользователя. Занятый email или ник -> ErrAlreadyExists.
	SaveUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUser перезаписывает профиль (ник, аватар, роль, соцсети, паспорт, доверие).
	UpdateUser(ctx context.Context, u *models.User) error
}

// Threads — хранилище переписки. Ключ поиска — (владелец ящика, объявление, собеседник).
type Threads interface {
	// ThreadByKey ищет переписку по составному ключу.
	ThreadByKey(ctx context.Context, key models.ThreadKey) (*models.Thread, error)

	// ThreadByID ищет переписку в ящике владельца.
	ThreadByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Thread, error)

	// SaveThread создаёт или полностью перезаписывает переписку
	// и поднимает её в начало ящика.
	SaveThread(ctx context.Context, t *models.Thread) error

	// UpdateThreadStatus меняет статус, не трогая историю и порядок.
	UpdateThreadStatus(ctx context.Context, ownerID, id uuid.UUID, status models.ThreadStatus) error

	// MarkThreadRead обнуляет счётчик непрочитанных.
	MarkThreadRead(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteThread удаляет переписку безвозвратно.
	DeleteThread(ctx context.Context, ownerID, id uuid.UUID) error

	// ListThreads — весь ящик, сначала недавно активные.
	ListThreads(ctx context.Context, ownerID uuid.UUID) ([]models.Thread, error)
}

// Images — загрузка изображений объявлений.
type Images interface {
	// UploadImage сохраняет изображение и возвращает публичный URL.
	// Недопустимый тип или размер -> ErrInvalidArgument.
	UploadImage(ctx context.Context, ownerID uuid.UUID, contentType string, data []byte) (string, error)

	// DeleteImage удаляет ранее загруженное изображение по его URL.
	// URL, не принадлежащий хранилищу, -> ErrNotFound.
	DeleteImage(ctx context.Context, imageURL string) error
}

// Sessions — отозванные access-токены (по jti) до истечения их срока.
type Sessions interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// InsightCache — кэш рыночных сводок по названию товара.
type InsightCache interface {
	// Insight возвращает сводку и признак её наличия.
	Insight(ctx context.Context, key string) (*models.MarketInsight, bool, error)
	SetInsight(ctx context.Context, key string, in *models.MarketInsight, ttl time.Duration) error
}

// Drafts — сессии создания объявлений с ассистентом.
type Drafts interface {
	SaveDraft(ctx context.Context, d *models.DraftSession) error
	DraftByID(ctx context.Context, ownerID, id uuid.UUID) (*models.DraftSession, error)
	DeleteDraft(ctx context.Context, ownerID, id uuid.UUID) error
}
