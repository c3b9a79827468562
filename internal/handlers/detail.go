package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmoralesc/recetas-api/internal/logger"
	"github.com/dmoralesc/recetas-api/internal/models"
	"github.com/dmoralesc/recetas-api/internal/services"
)

// RecipeGetter defines the catalog interface needed by the detail endpoint.
type RecipeGetter interface {
	Get(ctx context.Context, recipeID uuid.UUID) (*models.RecipeDB, float64, error)
}

// RecipeDetailResponse represents a recipe detail with its average rating
// swagger:model RecipeDetailResponse
type RecipeDetailResponse struct {
	// The recipe
	Receta RecipeResponse `json:"receta"`

	// Average rating, 0 when the recipe has no ratings
	// example: 4.5
	PromedioCalificacion float64 `json:"promedio_calificacion"`
}

// RecipeDetailErrorResponse represents an error response for the detail endpoint
// swagger:model RecipeDetailErrorResponse
type RecipeDetailErrorResponse struct {
	// Error message
	// default: Recipe not found
	Error string `json:"error"`
}

// NewRecipeDetailHandler returns an HTTP handler for the recipe detail page.
// @Summary Recipe detail
// @Description Returns a recipe and its average rating
// @Tags catalog
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 200 {object} handlers.RecipeDetailResponse "Recipe detail"
// @Failure 404 {object} handlers.RecipeDetailErrorResponse "Recipe not found"
// @Failure 500 {object} handlers.RecipeDetailErrorResponse "Internal server error"
// @Router /receta/{id}/ [get]
func NewRecipeDetailHandler(svc RecipeGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(RecipeDetailErrorResponse{Error: "Recipe not found"})
			return
		}

		recipe, avg, err := svc.Get(ctx, recipeID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRecipeNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(RecipeDetailErrorResponse{Error: "Recipe not found"})
			default:
				logger.Log.Errorw("failed to get recipe", "recipe_id", recipeID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(RecipeDetailErrorResponse{Error: "Internal server error"})
			}
			return
		}

		resp := RecipeDetailResponse{
			Receta:               newRecipeResponse(*recipe),
			PromedioCalificacion: avg,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
