package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-iso-board/internal/feed"
	"github.com/pribylovaa/go-iso-board/internal/models"
	"github.com/pribylovaa/go-iso-board/internal/service"
	"github.com/pribylovaa/go-iso-board/internal/transport/http/dto"
	apierrors "github.com/pribylovaa/go-iso-board/internal/transport/http/errors"
	"github.com/pribylovaa/go-iso-board/internal/transport/http/middleware"
)

// ListListings — лента: GET /listings?category=&search=&min_budget=&max_budget=&funds_verified=&finder_assigned=&sort=
// Нечисловые границы бюджета и неизвестная сортировка не дают ошибку.
func (h *Handlers) ListListings(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Feed(r.Context(), feedQuery(r.URL.Query()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FeedFromResult(res, h.Now()))
}

func feedQuery(v url.Values) feed.Query {
	q := feed.DefaultQuery()

	if c := v.Get("category"); c != "" {
		q.Category = c
	}
	q.Search = v.Get("search")
	q.MinBudget = feed.ParseBudget(v.Get("min_budget"))
	q.MaxBudget = feed.ParseBudget(v.Get("max_budget"))
	q.FundsVerified, _ = strconv.ParseBool(v.Get("funds_verified"))
	q.FinderAssigned, _ = strconv.ParseBool(v.Get("finder_assigned"))
	q.Sort = feed.ParseSort(v.Get("sort"))

	return q
}

func (h *Handlers) CreateListing(w http.ResponseWriter, r *http.Request) {
	var in dto.CreateListingRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	l, err := h.Svc.CreateListing(r.Context(), middleware.UserFrom(r.Context()), in.ToService())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ListingFromModel(l, h.Now()))
}

func (h *Handlers) GetListing(w http.ResponseWriter, r *http.Request) {
	l, err := h.Svc.ListingByID(r.Context(), chi.URLParam(r, "id"), actorID(r))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListingFromModel(l, h.Now()))
}

func (h *Handlers) DeleteListing(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteListing(r.Context(), chi.URLParam(r, "id"), actorID(r)); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) EditTopOffer(w http.ResponseWriter, r *http.Request) {
	var in dto.TopOfferRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	v, err := h.Svc.EditTopOffer(r.Context(), chi.URLParam(r, "id"), in.Value, actorID(r))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TopOfferResponse{TopOffer: v})
}

func (h *Handlers) CoSign(w http.ResponseWriter, r *http.Request) {
	n, err := h.Svc.CoSign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CoSignResponse{Upvotes: n})
}

func (h *Handlers) AddComment(w http.ResponseWriter, r *http.Request) {
	var in dto.CommentRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var author *models.UserRef
	if u := middleware.UserFrom(r.Context()); u != nil {
		ref := u.Ref()
		author = &ref
	}

	c, count, err := h.Svc.AddComment(r.Context(), chi.URLParam(r, "id"), author, in.Text)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CommentResponse{Comment: dto.CommentFromModel(*c), Comments: count})
}

func (h *Handlers) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	var in dto.ProposalRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	threadID, err := h.Svc.SubmitProposal(r.Context(), chi.URLParam(r, "id"), middleware.UserFrom(r.Context()), in.ToService())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ThreadRef{ThreadID: threadID.String()})
}

// ContactOwner — «написать владельцу»: открывает или продолжает переписку по объявлению.
func (h *Handlers) ContactOwner(w http.ResponseWriter, r *http.Request) {
	var in dto.MessageRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	from := middleware.UserFrom(r.Context())

	l, err := h.Svc.ListingByID(r.Context(), chi.URLParam(r, "id"), actorID(r))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	threadID, err := h.Svc.StartOrResumeConversation(r.Context(), l, from, l.Owner.ID, in.Text)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ThreadRef{ThreadID: threadID.String()})
}

func (h *Handlers) ListBids(w http.ResponseWriter, r *http.Request) {
	bids, err := h.Svc.ListBids(r.Context(), chi.URLParam(r, "id"), actorID(r))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BidsFromModel(bids))
}

func (h *Handlers) AssignFinder(w http.ResponseWriter, r *http.Request) {
	var in dto.FinderRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	finderID, err := uuid.Parse(in.FinderID)
	if err != nil {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	ref, err := h.Svc.AssignFinder(r.Context(), chi.URLParam(r, "id"), actorID(r), finderID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RefFromModel(*ref))
}

func (h *Handlers) MarkAcquired(w http.ResponseWriter, r *http.Request) {
	var in dto.AcquiredRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	a, err := h.Svc.MarkAcquired(r.Context(), chi.URLParam(r, "id"), actorID(r), in.Price, in.HasBuyback)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AcquisitionFromModel(a))
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Dashboard(r.Context(), actorID(r))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromService(d, h.Now()))
}
