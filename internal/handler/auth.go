package handler

import (
	"net/http"

	"github.com/cinematic-app/cinematic-api/internal/model"
	"github.com/cinematic-app/cinematic-api/internal/payload"
)

// Register creates a new unverified account and triggers the verification
// email.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// VerifyAccount consumes a verification link's proof token and activates the
// account.
func (h *Handler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyAccountRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.accounts.ActivateAccount(r.Context(), req.Email, req.Token); err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payload.MessageResponse{Message: "Account is activated successfully."})
}

// Login exchanges credentials for a token pair.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, pair)
}

// RefreshToken consumes the refresh token from the Refresh-Token header and
// returns a fresh pair.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.Header.Get("Refresh-Token")
	if refreshToken == "" {
		h.writeError(w, http.StatusBadRequest, "missing Refresh-Token header")
		return
	}

	pair, err := h.tokens.RefreshTokens(r.Context(), refreshToken)
	if err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, pair)
}

// ForgotPassword sends a password reset link.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.EmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payload.MessageResponse{
		Message: "An email with a password reset link has been sent to you.",
	})
}

// ResetPassword consumes a reset link's proof token and stores the new
// password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.accounts.CompletePasswordReset(r.Context(), req.Email, req.Token, req.Password); err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payload.MessageResponse{Message: "Your password has been updated."})
}

// Logout expires the caller's sessions.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "not authorised")
		return
	}

	if err := h.accounts.Logout(r.Context(), user); err != nil {
		h.handleUsecaseError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, payload.MessageResponse{Message: "User logged out successfully."})
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "not authorised")
		return
	}

	h.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(user *model.User) payload.UserResponse {
	return payload.UserResponse{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
