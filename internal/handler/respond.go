package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/cinematic-app/cinematic-api/internal/usecase"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode response body")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, errorResponse{Detail: detail})
}

// decodeAndValidate parses the JSON body into dst and runs struct validation,
// writing a 400 with translated messages on failure. It reports whether the
// caller can proceed.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			messages := make([]string, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				messages = append(messages, fieldErr.Translate(h.translator))
			}
			h.writeError(w, http.StatusBadRequest, strings.Join(messages, "; "))
			return false
		}

		h.writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}

	return true
}

// handleUsecaseError maps the usecase failure taxonomy onto HTTP statuses.
// Expired bearer tokens get a distinct message so clients know to refresh
// rather than re-login.
func (h *Handler) handleUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrExpiredToken),
		errors.Is(err, usecase.ErrMalformedToken),
		errors.Is(err, usecase.ErrSessionNotFound):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrAccountNotVerified),
		errors.Is(err, usecase.ErrAccountInactive),
		errors.Is(err, usecase.ErrProofMismatch),
		errors.Is(err, usecase.ErrDuplicateEmail),
		errors.Is(err, usecase.ErrEmptyPrompt):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error().Err(err).Msg("unhandled usecase error")
		h.writeError(w, http.StatusInternalServerError, "something went wrong")
	}
}
