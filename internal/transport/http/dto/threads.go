package dto

import (
	"time"

	"github.com/pribylovaa/go-iso-board/internal/models"
)

type Participant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	Status     string `json:"status"`
	Role       string `json:"role"`
	TrustScore int    `json:"trust_score"`
	Verified   bool   `json:"verified"`
}

type Message struct {
	ID     string    `json:"id"`
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
}

// Thread — переписка. Messages заполняется только в GET /threads/{id}.
type Thread struct {
	ID            string      `json:"id"`
	ListingID     string      `json:"listing_id"`
	Item          string      `json:"item"`
	Participant   Participant `json:"participant"`
	LastMessage   string      `json:"last_message"`
	LastTimestamp time.Time   `json:"last_timestamp"`
	Unread        int         `json:"unread"`
	Status        string      `json:"status"`
	Messages      []Message   `json:"messages,omitempty"`
}

type Folder struct {
	Folder  string   `json:"folder"`
	Threads []Thread `json:"threads"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

// StatusRequest — статус (active|archived|deleted|destroyed) или действие
// (archive|delete|restore|destroy).
type StatusRequest struct {
	Status string `json:"status"`
}

// ThreadEvent — payload SSE-события "thread".
type ThreadEvent struct {
	ThreadID string   `json:"thread_id"`
	Status   string   `json:"status"`
	Message  *Message `json:"message,omitempty"`
}

func MessageFromModel(m models.Message) Message {
	return Message{ID: m.ID.String(), Sender: string(m.Sender), Text: m.Text, Time: m.Time}
}

func ThreadFromModel(t *models.Thread, withMessages bool) Thread {
	out := Thread{
		ID:        t.ID.String(),
		ListingID: t.ListingID,
		Item:      t.Item,
		Participant: Participant{
			ID:         t.Participant.ID.String(),
			Name:       t.Participant.Name,
			Avatar:     t.Participant.Avatar,
			Status:     t.Participant.Status,
			Role:       string(t.Participant.Role),
			TrustScore: t.Participant.TrustScore,
			Verified:   t.Participant.Verified,
		},
		LastMessage:   t.LastMessage,
		LastTimestamp: t.LastTimestamp,
		Unread:        t.Unread,
		Status:        string(t.Status),
	}

	if withMessages {
		out.Messages = make([]Message, 0, len(t.Messages))
		for _, m := range t.Messages {
			out.Messages = append(out.Messages, MessageFromModel(m))
		}
	}

	return out
}

func FolderFromModel(folder string, in []models.Thread) Folder {
	out := Folder{Folder: folder, Threads: make([]Thread, 0, len(in))}
	for i := range in {
		out.Threads = append(out.Threads, ThreadFromModel(&in[i], false))
	}
	return out
}

func ThreadEventFromModel(ev models.ThreadEvent) ThreadEvent {
	out := ThreadEvent{ThreadID: ev.ThreadID.String(), Status: string(ev.Status)}
	if ev.Message != nil {
		m := MessageFromModel(*ev.Message)
		out.Message = &m
	}
	return out
}
