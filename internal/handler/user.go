package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinematic-app/cinematic-api/internal/payload"
	"github.com/cinematic-app/cinematic-api/internal/repository"
)

// GetUser returns a user by id.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateUser applies an explicit partial update to a user.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateUserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.accounts.UpdateUser(r.Context(), chi.URLParam(r, "id"), repository.UpdateUserParams{
		Email:        req.Email,
		PasswordHash: req.Password,
		IsActive:     req.IsActive,
	})
	if err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

// DeleteUser removes a user.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, err := h.accounts.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
