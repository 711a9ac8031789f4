package handlers

import (
	"net/http"

	"github.com/pribylovaa/go-iso-board/internal/transport/http/dto"
	apierrors "github.com/pribylovaa/go-iso-board/internal/transport/http/errors"
	"github.com/pribylovaa/go-iso-board/internal/transport/http/middleware"
)

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var in dto.SignUpRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	sess, err := h.Svc.SignUp(r.Context(), in.Email, in.Password, in.Username)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SessionFromService(sess))
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var in dto.SignInRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	sess, err := h.Svc.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromService(sess))
}

func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.SignOut(r.Context(), middleware.TokenFrom(r.Context())); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.UserFromModel(middleware.UserFrom(r.Context())))
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var in dto.UpdateProfileRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	u, err := h.Svc.UpdateProfile(r.Context(), actorID(r), in.ToService())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromModel(u))
}

func (h *Handlers) Onboarding(w http.ResponseWriter, r *http.Request) {
	var in dto.OnboardingRequest
	if err := h.decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	u, err := h.Svc.CompleteOnboarding(r.Context(), actorID(r), in.ToService())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromModel(u))
}
