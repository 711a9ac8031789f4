// models содержит доменные сущности iso-board.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Day — единица срока жизни объявления.
const Day = 24 * time.Hour

// Category — фиксированный набор категорий ISO-объявлений.
type Category string

const (
	CategorySneakers        Category = "Sneakers"
	CategoryWatches         Category = "Watches"
	CategoryArchivalFashion Category = "Archival Fashion"
	CategoryCollectibles    Category = "Collectibles"
)

// Categories — все допустимые категории в порядке отображения.
var Categories = []Category{
	CategorySneakers,
	CategoryWatches,
	CategoryArchivalFashion,
	CategoryCollectibles,
}

// ParseCategory возвращает категорию и признак того, что она из допустимого набора.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}

	return "", false
}

// UserRef — денормализованная проекция пользователя, которую видят чужие карточки.
type UserRef struct {
	ID         uuid.UUID
	Name       string
	Avatar     string
	TrustScore int
}

// Comment — неизменяемый комментарий под объявлением.
type Comment struct {
	ID        uuid.UUID
	Author    UserRef
	Text      string
	Timestamp time.Time
}

// Bid — структурированное предложение продавца; видно только владельцу объявления.
type Bid struct {
	ID          uuid.UUID
	Bidder      UserRef
	Price       int64
	Condition   string
	FindersNote string
	CreatedAt   time.Time
}

// Acquisition — терминальное состояние «куплено».
type Acquisition struct {
	Price      int64
	HasBuyback bool
	AcquiredAt time.Time
}

// Listing — ISO-объявление («ищу»).
//   - ID — ULID, генерируется при создании и сортируется по времени;
//   - Comments всегда равен len(CommentsList);
//   - Duration — срок жизни в днях от CreatedAt.
type Listing struct {
	ID            string
	Name          string
	Category      Category
	Details       string
	TopOffer      int64
	Upvotes       int64
	Comments      int
	CommentsList  []Comment
	ImageURL      string
	Owner         UserRef
	FundsVerified bool
	CreatedAt     time.Time
	Duration      int
	Finder        *UserRef
	Bids          []Bid
	Acquired      *Acquisition
}

// ExpiresAt — момент истечения объявления.
func (l *Listing) ExpiresAt() time.Time {
	return l.CreatedAt.Add(time.Duration(l.Duration) * Day)
}

// DaysLeft — число оставшихся дней, округлённое вверх. Может быть отрицательным.
func (l *Listing) DaysLeft(now time.Time) int {
	left := l.ExpiresAt().Sub(now)
	return int(math.Ceil(float64(left) / float64(Day)))
}

// Expired — объявление больше не принимает предложения (DaysLeft <= 0).
func (l *Listing) Expired(now time.Time) bool {
	return l.DaysLeft(now) <= 0
}

// OwnedBy сообщает, является ли userID владельцем объявления.
func (l *Listing) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && l.Owner.ID == userID
}
