package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-iso-board/internal/service"
	"github.com/pribylovaa/go-iso-board/internal/transport/http/handlers"
	"github.com/pribylovaa/go-iso-board/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger *slog.Logger
	// Timeout — дедлайн обычных запросов.
	Timeout time.Duration
	// AITimeout — дедлайн запросов, которые ходят в генеративную модель.
	AITimeout time.Duration
	BasePath  string // например, "/api"; если пустой — роуты регистрируются на корне.
	MaxBody   int64
	// AILimiter — лимит запросов к AI-эндпоинтам на пользователя (nil — без лимита).
	AILimiter *middleware.Limiter
	Metrics   middleware.Observer
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(opts.Metrics),
		middleware.Auth(svc), // Bearer -> пользователь в контексте; битый токен -> 401
	)

	h := handlers.New(svc, opts.MaxBody)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, opts)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, opts)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, opts Options) {
	requireUser := middleware.RequireUser()

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.Timeout))

		// auth
		r.Post("/auth/signup", h.SignUp)
		r.Post("/auth/signin", h.SignIn)

		// витрина открыта без входа
		r.Get("/listings", h.ListListings)
		r.Get("/listings/{id}", h.GetListing)
		r.Post("/listings/{id}/cosign", h.CoSign)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Post("/auth/signout", h.SignOut)
			r.Get("/me", h.Me)
			r.Patch("/me", h.UpdateMe)
			r.Post("/me/onboarding", h.Onboarding)

			// listings
			r.Post("/listings", h.CreateListing)
			r.Delete("/listings/{id}", h.DeleteListing)
			r.Patch("/listings/{id}/top-offer", h.EditTopOffer)
			r.Post("/listings/{id}/comments", h.AddComment)
			r.Post("/listings/{id}/proposals", h.SubmitProposal)
			r.Post("/listings/{id}/messages", h.ContactOwner)
			r.Get("/listings/{id}/bids", h.ListBids)
			r.Post("/listings/{id}/finder", h.AssignFinder)
			r.Post("/listings/{id}/acquired", h.MarkAcquired)
			r.Get("/dashboard", h.Dashboard)

			// threads
			r.Get("/threads", h.ListThreads)
			r.Get("/threads/{id}", h.GetThread)
			r.Post("/threads/{id}/messages", h.SendMessage)
			r.Post("/threads/{id}/status", h.SetThreadStatus)
			r.Post("/threads/{id}/read", h.MarkRead)

			// drafts (без вызова модели)
			r.Post("/drafts", h.StartDraft)
			r.Get("/drafts/{id}", h.GetDraft)
			r.Post("/drafts/{id}/reopen", h.ReopenDraft)
			r.Delete("/drafts/{id}", h.DiscardDraft)
		})
	})

	// Запросы к модели: свой дедлайн и лимит.
	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Timeout(opts.AITimeout),
			middleware.RateLimit(opts.AILimiter),
		)

		r.Get("/insights", h.MarketInsights)
		r.Get("/listings/{id}/insights", h.ListingInsights)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Post("/assistant/chat", h.Chat)
			r.Post("/drafts/{id}/turns", h.DraftTurn)
		})
	})

	// SSE: без дедлайна, живёт пока клиент подключён.
	r.With(requireUser).Get("/threads/events", h.ThreadEvents)
}
