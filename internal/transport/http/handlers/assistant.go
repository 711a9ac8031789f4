package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-iso-board/internal/transport/http/dto"
	apierrors "github.com/pribylovaa/go-iso-board/internal/transport/http/errors"
)

func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var in dto.ChatRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	text, err := h.Svc.Assistant(r.Context(), in.ToModel(), in.Text)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChatResponse{Text: text})
}

// MarketInsights — GET /insights?item=<название товара>.
func (h *Handlers) MarketInsights(w http.ResponseWriter, r *http.Request) {
	in, err := h.Svc.MarketInsights(r.Context(), r.URL.Query().Get("item"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InsightFromModel(in))
}

func (h *Handlers) ListingInsights(w http.ResponseWriter, r *http.Request) {
	in, err := h.Svc.ListingInsights(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InsightFromModel(in))
}

func (h *Handlers) StartDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.StartDraft(r.Context(), actorID(r))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.DraftFromModel(d))
}

func (h *Handlers) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	d, err := h.Svc.DraftByID(r.Context(), actorID(r), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DraftFromModel(d))
}

// DraftTurn — реплика пользователя. Сбой генератора не ошибка: в истории появляется
// реплика-заглушка, клиент предлагает ручной ввод.
func (h *Handlers) DraftTurn(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in dto.DraftTurnRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	d, err := h.Svc.DraftTurn(r.Context(), actorID(r), id, in.Text, in.Image.ToService())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DraftFromModel(d))
}

func (h *Handlers) ReopenDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	d, err := h.Svc.ReopenDraft(r.Context(), actorID(r), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DraftFromModel(d))
}

func (h *Handlers) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.Svc.DiscardDraft(r.Context(), actorID(r), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
