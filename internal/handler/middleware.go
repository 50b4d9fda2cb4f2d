package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/cinematic-app/cinematic-api/internal/model"
	"github.com/cinematic-app/cinematic-api/internal/usecase"
)

type contextKey struct{}

var userContextKey = contextKey{}

// RequireAuth extracts the bearer token, verifies it against the session store
// and puts the resolved user on the request context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			h.writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			h.writeError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		user, err := h.tokens.VerifyAccessToken(r.Context(), parts[1])
		if err != nil {
			h.handleUsecaseError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireActiveUser rejects requests from deactivated accounts. It must run
// after RequireAuth.
func (h *Handler) RequireActiveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			h.writeError(w, http.StatusUnauthorized, "not authorised")
			return
		}

		if !user.IsActive {
			h.writeError(w, http.StatusBadRequest, usecase.ErrAccountInactive.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}
