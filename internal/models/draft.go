package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole — автор реплики в диалоге с ассистентом.
type ChatRole string

const (
	ChatUser  ChatRole = "user"
	ChatModel ChatRole = "model"
)

// ChatImage — изображение, приложенное к реплике.
type ChatImage struct {
	MIMEType string
	Data     []byte
	URL      string
}

// ChatTurn — реплика в истории черновика.
type ChatTurn struct {
	Role     ChatRole
	Text     string
	ImageURL string
	Image    *ChatImage
	Time     time.Time
}

// ListingDraft — структурированный результат извлечения.
type ListingDraft struct {
	Name           string
	Category       Category
	Details        string
	EstimatedValue int64
	ImageURL       string
}

// DraftReply — ответ генератора: либо свободный текст, либо черновик.
type DraftReply struct {
	Text  string
	Draft *ListingDraft
}

// DraftState — состояние диалога создания объявления.
type DraftState string

const (
	DraftCollecting DraftState = "collecting"
	DraftFinalized  DraftState = "finalized"
)

// DraftSession — диалог создания объявления с ассистентом.
// LastImage запоминается отдельно от текста и применяется к итоговому черновику.
type DraftSession struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	State     DraftState
	History   []ChatTurn
	LastImage *ChatImage
	Draft     *ListingDraft
	Busy      bool
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Source — ссылка-источник рыночной сводки.
type Source struct {
	Title string
	URI   string
}

// MarketInsight — краткая рыночная сводка по товару.
type MarketInsight struct {
	Text        string
	Sources     []Source
	Unavailable bool
}
