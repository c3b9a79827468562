package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmoralesc/recetas-api/internal/jwt"
	"github.com/dmoralesc/recetas-api/internal/logger"
	"github.com/dmoralesc/recetas-api/internal/services"
)

// RateTokener defines only the token methods needed by this handler.
type RateTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// Rater defines the interface that the service must implement. The raw form
// value is passed through so the service owns score validation.
type Rater interface {
	Rate(ctx context.Context, recipeID, userID uuid.UUID, rawScore string) error
}

// RateResponse carries the notification shown after a rating submission
// swagger:model RateResponse
type RateResponse struct {
	// Success or error notification
	// default: Receta calificada con 5 estrellas
	Message string `json:"message"`
}

// RateErrorResponse represents an error response for rating submission
// swagger:model RateErrorResponse
type RateErrorResponse struct {
	// Error message
	// default: Recipe not found
	Error string `json:"error"`
}

// NewRateRecipeHandler returns an HTTP handler for rating a recipe 1 to 5.
// A valid or invalid score both end in a redirect back to the detail page;
// the body carries the notification. A repeated submission by the same user
// overwrites the previous score.
// @Summary Rate a recipe
// @Description Submits a 1-5 rating via the form field `puntuacion`. Redirects to the recipe detail page regardless of outcome; an out-of-range or non-numeric score leaves any previous rating unchanged.
// @Tags ratings
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Recipe ID"
// @Param puntuacion formData string true "Score, 1 to 5"
// @Success 303 {object} handlers.RateResponse "Redirect to the recipe detail page"
// @Failure 404 {object} handlers.RateErrorResponse "Recipe not found"
// @Failure 401 {object} handlers.RateErrorResponse "Unauthorized"
// @Router /receta/{id}/calificar/ [post]
// @Security BearerAuth
func NewRateRecipeHandler(svc Rater, tokenGetter RateTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(RateErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(RateErrorResponse{Error: "Unauthorized"})
			return
		}

		recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(RateErrorResponse{Error: "Recipe not found"})
			return
		}

		if err := r.ParseForm(); err != nil {
			logger.Log.Warnw("failed to parse rating form", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(RateErrorResponse{Error: "Invalid form data"})
			return
		}
		rawScore := r.PostFormValue("puntuacion")

		detailURL := fmt.Sprintf("/receta/%s/", recipeID)

		err = svc.Rate(ctx, recipeID, claims.UserID, rawScore)
		switch {
		case err == nil:
			w.Header().Set("Location", detailURL)
			w.WriteHeader(http.StatusSeeOther)
			json.NewEncoder(w).Encode(RateResponse{
				Message: fmt.Sprintf("Receta calificada con %s estrellas", rawScore),
			})
		case errors.Is(err, services.ErrInvalidScore):
			// The submission failed validation but the request still completes
			// with a redirect back to the detail page.
			w.Header().Set("Location", detailURL)
			w.WriteHeader(http.StatusSeeOther)
			json.NewEncoder(w).Encode(RateResponse{
				Message: "La puntuacion debe ser un numero entre 1 y 5",
			})
		case errors.Is(err, services.ErrRecipeNotFound):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(RateErrorResponse{Error: "Recipe not found"})
		default:
			logger.Log.Errorw("failed to rate recipe", "recipe_id", recipeID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(RateErrorResponse{Error: "Internal server error"})
		}
	}
}
