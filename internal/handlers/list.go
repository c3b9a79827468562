package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmoralesc/recetas-api/internal/logger"
	"github.com/dmoralesc/recetas-api/internal/models"
	"github.com/dmoralesc/recetas-api/internal/services"
)

// RecipeLister defines the catalog interface needed by the listing endpoints.
type RecipeLister interface {
	List(ctx context.Context, filter services.ListFilter, page, pageSize int) ([]models.RecipeDB, bool, bool, error)
}

// ListRecipesResponse represents one page of recipes
// swagger:model ListRecipesResponse
type ListRecipesResponse struct {
	// Recipes on this page, most recent first
	Recetas []RecipeResponse `json:"recetas"`

	// Current page, starting at 1
	Page int `json:"page"`

	// Whether a next page exists
	HasNext bool `json:"has_next"`

	// Whether a previous page exists
	HasPrev bool `json:"has_prev"`
}

// ListRecipesErrorResponse represents an error response for the listing endpoints
// swagger:model ListRecipesErrorResponse
type ListRecipesErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewListRecipesHandler returns an HTTP handler that lists recipes, most
// recent first. The same handler backs the home page (page size 4) and the
// full listing (page size 8).
// @Summary List recipes
// @Description Lists recipes ordered by creation time descending. Supports case-insensitive text search over title, description and ingredients (`q`), exact category filtering (`categoria`) and offset pagination (`page`).
// @Tags catalog
// @Produce json
// @Param q query string false "Text search over titulo, descripcion and ingredientes"
// @Param categoria query string false "Exact category filter"
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} handlers.ListRecipesResponse "One page of recipes"
// @Failure 500 {object} handlers.ListRecipesErrorResponse "Internal server error"
// @Router /recetas/ [get]
func NewListRecipesHandler(svc RecipeLister, pageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var filter services.ListFilter
		if q := r.URL.Query().Get("q"); q != "" {
			filter.Query = &q
		}
		if categoria := r.URL.Query().Get("categoria"); categoria != "" {
			filter.Categoria = &categoria
		}

		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				page = parsed
			}
		}

		recipes, hasNext, hasPrev, err := svc.List(ctx, filter, page, pageSize)
		if err != nil {
			logger.Log.Errorw("failed to list recipes", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ListRecipesErrorResponse{Error: "Internal server error"})
			return
		}

		resp := ListRecipesResponse{
			Recetas: newRecipeResponses(recipes),
			Page:    page,
			HasNext: hasNext,
			HasPrev: hasPrev,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
