package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/go-iso-board/internal/pkg/log"
	"github.com/pribylovaa/go-iso-board/internal/transport/http/dto"
	apierrors "github.com/pribylovaa/go-iso-board/internal/transport/http/errors"
)

// ListThreads — папка ящика: GET /threads?folder=active|archived|deleted.
func (h *Handlers) ListThreads(w http.ResponseWriter, r *http.Request) {
	folder := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("folder")))

	threads, err := h.Svc.Folder(r.Context(), actorID(r), folder)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if folder == "" {
		folder = "active"
	}

	writeJSON(w, http.StatusOK, dto.FolderFromModel(folder, threads))
}

func (h *Handlers) GetThread(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	t, err := h.Svc.Thread(r.Context(), actorID(r), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ThreadFromModel(t, true))
}

func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in dto.MessageRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	m, err := h.Svc.SendMessage(r.Context(), actorID(r), id, in.Text)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MessageFromModel(*m))
}

// SetThreadStatus — archive/delete/restore/destroy. Отсутствующая переписка — тоже 204.
func (h *Handlers) SetThreadStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in dto.StatusRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Svc.SetStatus(r.Context(), actorID(r), id, in.Status); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Svc.MarkRead(r.Context(), actorID(r), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ThreadEvents — SSE-поток изменений ящика (event: thread).
// Медленный клиент теряет события, а не тормозит отправителей: буфер подписки ограничен.
func (h *Handlers) ThreadEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lg := log.From(ctx)
	rc := http.NewResponseController(w)

	events, cancel := h.Svc.Subscribe(actorID(r))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		lg.Warn("sse flush unsupported", "err", err)
		return
	}

	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(dto.ThreadEventFromModel(ev))
			if err != nil {
				lg.Error("sse marshal failed", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: thread\ndata: %s\n\n", data); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}
