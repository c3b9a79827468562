package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dmoralesc/recetas-api/internal/models"
)

// AboutResponse represents the static about-page payload
// swagger:model AboutResponse
type AboutResponse struct {
	// Application name
	// default: recetas-api
	Name string `json:"name"`

	// Short description
	Description string `json:"description"`

	// Available recipe categories
	Categorias []string `json:"categorias"`

	// Available difficulty levels
	Dificultades []string `json:"dificultades"`
}

// NewAboutHandler returns an HTTP handler for the about page.
// @Summary About
// @Description Static application information: name, description, categories and difficulty levels
// @Tags info
// @Produce json
// @Success 200 {object} handlers.AboutResponse "Application information"
// @Router /acerca-de/ [get]
func NewAboutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := AboutResponse{
			Name:         "recetas-api",
			Description:  "Comparte tus recetas, descubre nuevas y califica tus favoritas.",
			Categorias:   models.Categorias,
			Dificultades: models.Dificultades,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
