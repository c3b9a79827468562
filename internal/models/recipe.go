package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Recipe categories. Values are stored as-is in the database and match the
// `categoria` query parameter accepted by the listing endpoints.
const (
	CategoriaPasta          = "Pasta"
	CategoriaEnsalada       = "Ensalada"
	CategoriaPostre         = "Postre"
	CategoriaPlatoPrincipal = "Plato Principal"
	CategoriaDesayuno       = "Desayuno"
	CategoriaVegetariana    = "Vegetariana"
)

// Difficulty levels.
const (
	DificultadFacil   = "FACIL"
	DificultadMedio   = "MEDIO"
	DificultadDificil = "DIFICIL"
)

// Defaults applied when a recipe is created without the optional fields.
const (
	DefaultCategoria  = CategoriaPlatoPrincipal
	DefaultDificultad = DificultadFacil
	DefaultImagen     = "recetas_pics/default.png"
)

// Categorias lists every valid category, in display order.
var Categorias = []string{
	CategoriaPasta,
	CategoriaEnsalada,
	CategoriaPostre,
	CategoriaPlatoPrincipal,
	CategoriaDesayuno,
	CategoriaVegetariana,
}

// Dificultades lists every valid difficulty level.
var Dificultades = []string{
	DificultadFacil,
	DificultadMedio,
	DificultadDificil,
}

// ValidCategoria reports whether the given value is a known category.
func ValidCategoria(v string) bool {
	for _, c := range Categorias {
		if c == v {
			return true
		}
	}
	return false
}

// ValidDificultad reports whether the given value is a known difficulty level.
func ValidDificultad(v string) bool {
	for _, d := range Dificultades {
		if d == v {
			return true
		}
	}
	return false
}

// RecipeDB represents a recipe row in the database
type RecipeDB struct {
	RecipeID    uuid.UUID      `json:"recipe_id" db:"recipe_id"`       // Unique recipe identifier
	AuthorID    uuid.UUID      `json:"author_id" db:"author_id"`       // Owning user, fixed at creation
	Titulo      string         `json:"titulo" db:"titulo"`             // Recipe title
	Descripcion string         `json:"descripcion" db:"descripcion"`   // Short description
	Ingredients string         `json:"ingredientes" db:"ingredientes"` // Free-text ingredient list
	Pasos       string         `json:"pasos" db:"pasos"`               // Free-text preparation steps
	Imagen      string         `json:"imagen" db:"imagen"`             // Image path relative to the media root
	Categoria   string         `json:"categoria" db:"categoria"`       // One of Categorias
	Dificultad  string         `json:"dificultad" db:"dificultad"`     // One of Dificultades
	TiempoPrep  sql.NullString `json:"tiempo_preparacion" db:"tiempo_preparacion"`
	Porciones   sql.NullInt64  `json:"porciones" db:"porciones"`
	CreatedAt   time.Time      `json:"fecha_creacion" db:"fecha_creacion"` // Set once at creation, immutable
}

// CategorySummary holds the per-category aggregate shown on the categories page:
// how many recipes the category has and the image of its most recent one.
// Categories without recipes are never emitted.
type CategorySummary struct {
	Categoria  string `json:"categoria" db:"categoria"`
	NumRecetas int    `json:"num_recetas" db:"num_recetas"`
	Imagen     string `json:"imagen" db:"imagen"`
}
