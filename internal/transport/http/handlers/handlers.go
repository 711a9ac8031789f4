package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/service"
	apierrors "github.com/pribylovaa/go-iso-board/internal/transport/http/errors"
	"github.com/pribylovaa/go-iso-board/internal/transport/http/middleware"
)

// Handlers агрегирует зависимости HTTP-обработчиков.
type Handlers struct {
	Svc *service.Service
	// MaxBody — предел тела запроса; картинки приходят base64, поэтому с запасом.
	MaxBody int64
	// Heartbeat — период комментариев-пингов в SSE-потоке.
	Heartbeat time.Duration
	Now       func() time.Time
}

func New(svc *service.Service, maxBody int64) *Handlers {
	return &Handlers{
		Svc:       svc,
		MaxBody:   maxBody,
		Heartbeat: 25 * time.Second,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля и хвосты после объекта.
func (h *Handlers) decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	if h.MaxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBody)
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(value); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return apierrors.ErrPayloadTooLarge
		}
		return fmt.Errorf("%w: %v", apierrors.ErrBadRequest, err)
	}

	if dec.Decode(&struct{}{}) != io.EOF {
		return apierrors.ErrBadRequest
	}

	return nil
}

// uuidParam — UUID из пути; битое значение -> 400.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, service.ErrInvalidArgument
	}
	return id, nil
}

// actorID — id аутентифицированного пользователя или uuid.Nil.
func actorID(r *http.Request) uuid.UUID {
	if u := middleware.UserFrom(r.Context()); u != nil {
		return u.ID
	}
	return uuid.Nil
}
