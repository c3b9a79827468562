package handlers

import (
	"time"

	"github.com/dmoralesc/recetas-api/internal/models"
)

// RecipeResponse is the JSON shape of a recipe across all endpoints
// swagger:model RecipeResponse
type RecipeResponse struct {
	// Recipe identifier
	RecipeID string `json:"recipe_id"`

	// Author identifier
	AuthorID string `json:"author_id"`

	// Title
	// example: Tarta de chocolate
	Titulo string `json:"titulo"`

	// Description
	Descripcion string `json:"descripcion"`

	// Free-text ingredient list
	Ingredientes string `json:"ingredientes"`

	// Free-text preparation steps
	Pasos string `json:"pasos"`

	// Image path relative to the media root
	// example: recetas_pics/default.png
	Imagen string `json:"imagen"`

	// Category
	// example: Postre
	Categoria string `json:"categoria"`

	// Difficulty level
	// example: FACIL
	Dificultad string `json:"dificultad"`

	// Preparation time, free text
	// example: 30 min
	TiempoPreparacion *string `json:"tiempo_preparacion,omitempty"`

	// Servings
	// example: 4
	Porciones *int `json:"porciones,omitempty"`

	// Creation timestamp
	FechaCreacion time.Time `json:"fecha_creacion"`
}

func newRecipeResponse(r models.RecipeDB) RecipeResponse {
	resp := RecipeResponse{
		RecipeID:      r.RecipeID.String(),
		AuthorID:      r.AuthorID.String(),
		Titulo:        r.Titulo,
		Descripcion:   r.Descripcion,
		Ingredientes:  r.Ingredients,
		Pasos:         r.Pasos,
		Imagen:        r.Imagen,
		Categoria:     r.Categoria,
		Dificultad:    r.Dificultad,
		FechaCreacion: r.CreatedAt,
	}
	if r.TiempoPrep.Valid {
		v := r.TiempoPrep.String
		resp.TiempoPreparacion = &v
	}
	if r.Porciones.Valid {
		v := int(r.Porciones.Int64)
		resp.Porciones = &v
	}
	return resp
}

func newRecipeResponses(recipes []models.RecipeDB) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, newRecipeResponse(r))
	}
	return out
}
