package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/middlewares"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

// UserGetter defines the interface that the service must implement.
type UserGetter interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// NewGetUserHandler returns an HTTP handler that fetches the current user.
// The auth middleware has already verified the token and attached the
// user id to the request context.
// @Summary Get current user
// @Description Returns the authenticated user's record. The password hash is never included.
// @Tags auth
// @Produce json
// @Success 200 {object} models.UserDB "Current user"
// @Failure 401 {object} handlers.AuthErrorResponse "Missing or invalid token"
// @Failure 500 {object} handlers.AuthErrorResponse "Internal server error"
// @Router /getuser [post]
// @Security AuthToken
func NewGetUserHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "please authenticate using a valid token")
			return
		}

		user, err := svc.GetUser(r.Context(), userID)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		// A token whose user id is gone from the store yields an empty
		// 200 body rather than a 404.
		if user == nil {
			w.WriteHeader(http.StatusOK)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
