package dto

import (
	"time"

	"github.com/pribylovaa/go-iso-board/internal/models"
)

type ChatTurn struct {
	Role     string    `json:"role"`
	Text     string    `json:"text"`
	ImageURL string    `json:"image_url,omitempty"`
	Time     time.Time `json:"time,omitzero"`
}

// ChatRequest — свободный диалог с ассистентом; история хранится на клиенте.
type ChatRequest struct {
	History []ChatTurn `json:"history,omitempty"`
	Text    string     `json:"text"`
}

// ToModel — роли вне user/model отбрасываются.
func (r ChatRequest) ToModel() []models.ChatTurn {
	out := make([]models.ChatTurn, 0, len(r.History))
	for _, t := range r.History {
		role := models.ChatRole(t.Role)
		if role != models.ChatUser && role != models.ChatModel {
			continue
		}
		out = append(out, models.ChatTurn{Role: role, Text: t.Text})
	}
	return out
}

type ChatResponse struct {
	Text string `json:"text"`
}

type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

type Insight struct {
	Text        string   `json:"text"`
	Sources     []Source `json:"sources"`
	Unavailable bool     `json:"unavailable"`
}

func InsightFromModel(in *models.MarketInsight) Insight {
	out := Insight{Text: in.Text, Sources: make([]Source, 0, len(in.Sources)), Unavailable: in.Unavailable}
	for _, s := range in.Sources {
		out.Sources = append(out.Sources, Source{Title: s.Title, URI: s.URI})
	}
	return out
}

type ListingDraft struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Details        string `json:"details"`
	EstimatedValue int64  `json:"estimated_value"`
	ImageURL       string `json:"image_url,omitempty"`
}

// Draft — диалог создания объявления. Draft заполнен в состоянии finalized.
type Draft struct {
	ID        string        `json:"id"`
	State     string        `json:"state"`
	History   []ChatTurn    `json:"history"`
	Draft     *ListingDraft `json:"draft,omitempty"`
	Busy      bool          `json:"busy"`
	Version   int           `json:"version"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type DraftTurnRequest struct {
	Text  string      `json:"text"`
	Image *ImageInput `json:"image,omitempty"`
}

func DraftFromModel(d *models.DraftSession) Draft {
	out := Draft{
		ID:        d.ID.String(),
		State:     string(d.State),
		History:   make([]ChatTurn, 0, len(d.History)),
		Busy:      d.Busy,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}

	for _, t := range d.History {
		out.History = append(out.History, ChatTurn{
			Role:     string(t.Role),
			Text:     t.Text,
			ImageURL: t.ImageURL,
			Time:     t.Time,
		})
	}

	if d.Draft != nil {
		out.Draft = &ListingDraft{
			Name:           d.Draft.Name,
			Category:       string(d.Draft.Category),
			Details:        d.Draft.Details,
			EstimatedValue: d.Draft.EstimatedValue,
			ImageURL:       d.Draft.ImageURL,
		}
	}

	return out
}
