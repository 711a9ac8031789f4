package models

import (
	"time"

	"github.com/google/uuid"
)

// ThreadStatus — папка, в которой лежит переписка.
type ThreadStatus string

const (
	ThreadActive   ThreadStatus = "active"
	ThreadArchived ThreadStatus = "archived"
	ThreadDeleted  ThreadStatus = "deleted"
	// ThreadDestroyed — инструкция на удаление; в хранилище никогда не попадает.
	ThreadDestroyed ThreadStatus = "destroyed"
)

// ParseThreadStatus принимает как статусы, так и действия UI
// (archive/delete/restore/destroy).
func ParseThreadStatus(s string) (ThreadStatus, bool) {
	switch s {
	case "active", "restore":
		return ThreadActive, true
	case "archived", "archive":
		return ThreadArchived, true
	case "deleted", "delete":
		return ThreadDeleted, true
	case "destroyed", "destroy":
		return ThreadDestroyed, true
	default:
		return "", false
	}
}

// Sender — направление сообщения относительно владельца ящика.
type Sender string

const (
	SenderMe   Sender = "me"
	SenderThem Sender = "them"
)

// Message — одно сообщение в переписке.
type Message struct {
	ID     uuid.UUID
	Sender Sender
	Text   string
	Time   time.Time
}

// Participant — снимок профиля собеседника на момент создания переписки.
type Participant struct {
	ID         uuid.UUID
	Name       string
	Avatar     string
	Status     string
	Role       Role
	TrustScore int
	Verified   bool
}

// Thread — переписка в ящике OwnerID.
// Уникальна по (OwnerID, ListingID, Participant.ID).
type Thread struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	ListingID     string
	Item          string
	Participant   Participant
	LastMessage   string
	LastTimestamp time.Time
	Unread        int
	Status        ThreadStatus
	Messages      []Message
}

// ThreadKey — составной ключ поиска переписки.
type ThreadKey struct {
	OwnerID        uuid.UUID
	ListingID      string
	CounterpartyID uuid.UUID
}

// Key возвращает составной ключ переписки.
func (t *Thread) Key() ThreadKey {
	return ThreadKey{OwnerID: t.OwnerID, ListingID: t.ListingID, CounterpartyID: t.Participant.ID}
}

// Append добавляет сообщение, обновляет превью и возвращает переписку во «входящие».
func (t *Thread) Append(m Message) {
	t.Messages = append(t.Messages, m)
	t.LastMessage = m.Text
	t.LastTimestamp = m.Time
	t.Status = ThreadActive

	if m.Sender == SenderThem {
		t.Unread++
	}
}

// ThreadEvent — уведомление подписчиков ящика об изменении переписки.
type ThreadEvent struct {
	OwnerID  uuid.UUID
	ThreadID uuid.UUID
	Status   ThreadStatus
	Message  *Message
}
