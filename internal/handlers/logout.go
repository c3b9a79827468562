package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmoralesc/recetas-api/internal/logger"
)

// LogoutTokener defines only the token methods needed by this handler.
type LogoutTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// Logouter defines the interface that the service must implement.
type Logouter interface {
	Logout(ctx context.Context, token string) error
}

// LogoutResponse represents a successful logout response
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Success message
	// default: Session terminated
	Message string `json:"message"`
}

// LogoutErrorResponse represents an error response for logout
// swagger:model LogoutErrorResponse
type LogoutErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewLogoutHandler returns an HTTP handler that terminates the current session
// by revoking its token.
// @Summary Log out
// @Description Revokes the presented session token for its remaining lifetime
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Session terminated"
// @Failure 401 {object} handlers.LogoutErrorResponse "Unauthorized"
// @Router /logout/ [post]
// @Security BearerAuth
func NewLogoutHandler(svc Logouter, tokenGetter LogoutTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(LogoutErrorResponse{Error: "Unauthorized"})
			return
		}

		if err := svc.Logout(ctx, tokenStr); err != nil {
			logger.Log.Errorw("failed to terminate session", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(LogoutErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(LogoutResponse{Message: "Session terminated"})
	}
}
