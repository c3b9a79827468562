package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmoralesc/recetas-api/internal/jwt"
	"github.com/dmoralesc/recetas-api/internal/logger"
	"github.com/dmoralesc/recetas-api/internal/models"
)

// DashboardTokener defines only the token methods needed by this handler.
type DashboardTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// AuthorLister defines the interface that the service must implement.
type AuthorLister interface {
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.RecipeDB, error)
}

// DashboardResponse represents the caller's own recipes
// swagger:model DashboardResponse
type DashboardResponse struct {
	// The caller's recipes, most recent first
	MisRecetas []RecipeResponse `json:"mis_recetas"`
}

// DashboardErrorResponse represents an error response for the dashboard
// swagger:model DashboardErrorResponse
type DashboardErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewDashboardHandler returns an HTTP handler that lists the recipes owned by
// the authenticated caller. Always scoped to the caller's own identity.
// @Summary My recipes
// @Description Lists the authenticated user's own recipes, most recent first
// @Tags catalog
// @Produce json
// @Success 200 {object} handlers.DashboardResponse "Own recipes"
// @Failure 401 {object} handlers.DashboardErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.DashboardErrorResponse "Internal server error"
// @Router /perfil/mis-recetas/ [get]
// @Security BearerAuth
func NewDashboardHandler(svc AuthorLister, tokenGetter DashboardTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(DashboardErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(DashboardErrorResponse{Error: "Unauthorized"})
			return
		}

		recipes, err := svc.ListByAuthor(ctx, claims.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list own recipes", "user_id", claims.UserID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(DashboardErrorResponse{Error: "Internal server error"})
			return
		}

		resp := DashboardResponse{
			MisRecetas: newRecipeResponses(recipes),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
