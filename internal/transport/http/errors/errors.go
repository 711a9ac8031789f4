// errors стандартизирует ответы об ошибках HTTP-слоя iso-board.
// На вход принимает ошибку сервисного слоя (обёрнутый sentinel из service),
// на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/go-iso-board/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// Ошибки самого транспортного слоя.
var (
	// ErrRateLimited — превышен лимит запросов к AI-эндпоинтам.
	ErrRateLimited = stderrors.New("rate limited")
	// ErrBadRequest — тело или параметры запроса не разбираются.
	ErrBadRequest = stderrors.New("bad request")
	// ErrPayloadTooLarge — тело запроса больше допустимого.
	ErrPayloadTooLarge = stderrors.New("payload too large")
)

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal;
//   - sentinel-ошибки service маппятся через baseFromService;
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504;
//   - прочее -> 500/internal без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := baseFromService(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	if status == http.StatusTooManyRequests {
		w.Header().Set("Retry-After", "60")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromService — маппинг ошибок сервиса -> HTTP/FE-код/сообщение:
//   - InvalidArgument, BadRequest -> 400
//   - NotAuthenticated, InvalidCredentials, InvalidToken -> 401
//   - Unauthorized -> 403 (действие доступно только владельцу)
//   - NotFound -> 404
//   - Conflict, ThreadDeleted, DraftFinalized -> 409
//   - Expired -> 410
//   - PayloadTooLarge -> 413
//   - RateLimited -> 429
//   - Unavailable -> 503
//   - Canceled -> 499, DeadlineExceeded -> 504
//   - прочее -> 500/internal
func baseFromService(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request", "malformed request"
	case stderrors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid email or password"
	case stderrors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token", "invalid or expired token"
	case stderrors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized, "unauthenticated", "authentication required"
	case stderrors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, service.ErrThreadDeleted):
		return http.StatusConflict, "thread_deleted", "thread is deleted"
	case stderrors.Is(err, service.ErrDraftFinalized):
		return http.StatusConflict, "draft_finalized", "draft is finalized"
	case stderrors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict", "conflict"
	case stderrors.Is(err, service.ErrExpired):
		return http.StatusGone, "expired", "listing expired"
	case stderrors.Is(err, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large", "payload too large"
	case stderrors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "resource_exhausted", "too many requests"
	case stderrors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
