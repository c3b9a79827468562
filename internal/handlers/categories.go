package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmoralesc/recetas-api/internal/logger"
	"github.com/dmoralesc/recetas-api/internal/models"
)

// CategorySummarizer defines the interface that the service must implement.
type CategorySummarizer interface {
	CategorySummary(ctx context.Context) ([]models.CategorySummary, error)
}

// CategorySummaryEntry is one category on the categories page
// swagger:model CategorySummaryEntry
type CategorySummaryEntry struct {
	// Category name
	// example: Postre
	Categoria string `json:"categoria"`

	// Number of recipes in this category
	// example: 3
	NumRecetas int `json:"num_recetas"`

	// Image of the most recent recipe in this category
	// example: recetas_pics/default.png
	Imagen string `json:"imagen"`
}

// CategoriesResponse represents the categories page payload
// swagger:model CategoriesResponse
type CategoriesResponse struct {
	// Categories that have at least one recipe
	Categorias []CategorySummaryEntry `json:"categorias"`
}

// CategoriesErrorResponse represents an error response for the categories page
// swagger:model CategoriesErrorResponse
type CategoriesErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// NewCategoriesHandler returns an HTTP handler for the categories page:
// every category with at least one recipe, its recipe count and the image of
// its most recent recipe. Empty categories are omitted.
// @Summary Category summary
// @Description Per-category recipe count and the image of the newest recipe in each category
// @Tags catalog
// @Produce json
// @Success 200 {object} handlers.CategoriesResponse "Category summary"
// @Failure 500 {object} handlers.CategoriesErrorResponse "Internal server error"
// @Router /categorias/ [get]
func NewCategoriesHandler(svc CategorySummarizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		summaries, err := svc.CategorySummary(ctx)
		if err != nil {
			logger.Log.Errorw("failed to get category summary", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(CategoriesErrorResponse{Error: "Internal server error"})
			return
		}

		entries := make([]CategorySummaryEntry, 0, len(summaries))
		for _, s := range summaries {
			entries = append(entries, CategorySummaryEntry{
				Categoria:  s.Categoria,
				NumRecetas: s.NumRecetas,
				Imagen:     s.Imagen,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(CategoriesResponse{Categorias: entries})
	}
}
