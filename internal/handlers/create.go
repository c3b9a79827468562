package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/dmoralesc/recetas-api/internal/jwt"
	"github.com/dmoralesc/recetas-api/internal/logger"
	"github.com/dmoralesc/recetas-api/internal/models"
	"github.com/dmoralesc/recetas-api/internal/services"
	"github.com/dmoralesc/recetas-api/internal/storage"
)

// Multipart submissions are capped at 10 MiB.
const maxRecipeFormSize = 10 << 20

// CreateTokener defines only the token methods needed by this handler.
type CreateTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// RecipeCreator defines the interface that the service must implement.
type RecipeCreator interface {
	Create(ctx context.Context, authorID uuid.UUID, input services.CreateRecipeInput) (*models.RecipeDB, error)
}

// ImageSaver persists an uploaded recipe image and returns its media-relative path.
type ImageSaver interface {
	Save(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error)
}

// CreateRecipeResponse represents a successful recipe creation response
// swagger:model CreateRecipeResponse
type CreateRecipeResponse struct {
	// Success message
	// default: Recipe created successfully
	Message string `json:"message"`

	// The created recipe
	Receta RecipeResponse `json:"receta"`
}

// CreateRecipeErrorResponse represents an error response for recipe creation
// swagger:model CreateRecipeErrorResponse
type CreateRecipeErrorResponse struct {
	// Error message
	// default: Validation failed
	Error string `json:"error"`

	// Per-field validation errors, when applicable
	Fields map[string]string `json:"fields,omitempty"`
}

// NewCreateRecipeHandler returns an HTTP handler for submitting a new recipe.
// The authenticated identity becomes the recipe's author and never changes.
// @Summary Create a recipe
// @Description Creates a recipe from a multipart form. Fields: titulo, descripcion, ingredientes, pasos (required), categoria, dificultad, tiempo_preparacion, porciones, imagen (optional). A missing image falls back to the default placeholder.
// @Tags catalog
// @Accept mpfd
// @Produce json
// @Success 201 {object} handlers.CreateRecipeResponse "Recipe created"
// @Failure 400 {object} handlers.CreateRecipeErrorResponse "Validation failed"
// @Failure 401 {object} handlers.CreateRecipeErrorResponse "Unauthorized"
// @Router /receta/nueva/ [post]
// @Security BearerAuth
func NewCreateRecipeHandler(svc RecipeCreator, images ImageSaver, tokenGetter CreateTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CreateRecipeErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CreateRecipeErrorResponse{Error: "Unauthorized"})
			return
		}

		// Caps the whole request body, not just the in-memory form parts.
		r.Body = http.MaxBytesReader(w, r.Body, maxRecipeFormSize)
		if err := r.ParseMultipartForm(maxRecipeFormSize); err != nil {
			logger.Log.Warnw("failed to parse recipe form", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CreateRecipeErrorResponse{Error: "Invalid form data"})
			return
		}

		input := services.CreateRecipeInput{
			Titulo:       r.FormValue("titulo"),
			Descripcion:  r.FormValue("descripcion"),
			Ingredientes: r.FormValue("ingredientes"),
			Pasos:        r.FormValue("pasos"),
			Categoria:    r.FormValue("categoria"),
			Dificultad:   r.FormValue("dificultad"),
		}
		if v := r.FormValue("tiempo_preparacion"); v != "" {
			input.TiempoPreparacion = &v
		}
		if v := r.FormValue("porciones"); v != "" {
			porciones, err := strconv.Atoi(v)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(CreateRecipeErrorResponse{
					Error:  "Validation failed",
					Fields: map[string]string{"porciones": "must be an integer"},
				})
				return
			}
			input.Porciones = &porciones
		}

		file, header, err := r.FormFile("imagen")
		if err == nil {
			defer file.Close()
			path, err := images.Save(ctx, file, header)
			if err != nil {
				if errors.Is(err, storage.ErrUnsupportedImage) {
					w.WriteHeader(http.StatusBadRequest)
					json.NewEncoder(w).Encode(CreateRecipeErrorResponse{
						Error:  "Validation failed",
						Fields: map[string]string{"imagen": "unsupported image type"},
					})
					return
				}
				logger.Log.Errorw("failed to store image", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CreateRecipeErrorResponse{Error: "Internal server error"})
				return
			}
			input.Imagen = path
		}

		recipe, err := svc.Create(ctx, claims.UserID, input)
		if err != nil {
			var vErr *services.ValidationError
			switch {
			case errors.As(err, &vErr):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(CreateRecipeErrorResponse{
					Error:  "Validation failed",
					Fields: vErr.Fields,
				})
			default:
				logger.Log.Errorw("failed to create recipe", "author_id", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CreateRecipeErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreateRecipeResponse{
			Message: "Recipe created successfully",
			Receta:  newRecipeResponse(*recipe),
		})
	}
}
