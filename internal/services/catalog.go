package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/dmoralesc/recetas-api/internal/logger"
	"github.com/dmoralesc/recetas-api/internal/models"
)

// ErrRecipeNotFound is returned when a recipe id does not resolve.
var ErrRecipeNotFound = errors.New("recipe not found")

// ValidationError reports per-field errors on recipe creation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid fields: %v", keys)
}

// RecipeReader defines read operations over the recipe catalog.
type RecipeReader interface {
	GetByID(ctx context.Context, recipeID uuid.UUID) (*models.RecipeDB, error)
	List(ctx context.Context, textQuery, categoria *string, limit, offset int) ([]models.RecipeDB, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.RecipeDB, error)
	CategorySummary(ctx context.Context) ([]models.CategorySummary, error)
}

// RecipeWriter defines write operations over the recipe catalog.
type RecipeWriter interface {
	Save(ctx context.Context, recipe *models.RecipeDB) error
}

// AverageReader returns rating aggregates for a recipe.
type AverageReader interface {
	GetAverage(ctx context.Context, recipeID uuid.UUID) (float64, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// ListFilter restricts a catalog listing. Nil fields are ignored.
type ListFilter struct {
	Query     *string // Case-insensitive match on titulo, descripcion or ingredientes
	Categoria *string // Exact category match
}

// CreateRecipeInput carries the fields of a recipe submission.
type CreateRecipeInput struct {
	Titulo            string
	Descripcion       string
	Ingredientes      string
	Pasos             string
	Imagen            string // Relative media path; blank means the default placeholder
	Categoria         string // Blank means the default category
	Dificultad        string // Blank means the default difficulty
	TiempoPreparacion *string
	Porciones         *int
}

// CatalogService implements recipe creation and the catalog query layer.
type CatalogService struct {
	readRepo    RecipeReader
	writeRepo   RecipeWriter
	ratings     AverageReader
	kafkaWriter KafkaWriter
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(readRepo RecipeReader, writeRepo RecipeWriter, ratings AverageReader, kafkaWriter KafkaWriter) *CatalogService {
	return &CatalogService{
		readRepo:    readRepo,
		writeRepo:   writeRepo,
		ratings:     ratings,
		kafkaWriter: kafkaWriter,
	}
}

// publishEvent publishes an activity event to Kafka.
func (s *CatalogService) publishEvent(ctx context.Context, event models.ActivityEvent) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event_id", event.EventID)
		return
	}
	publishActivity(ctx, s.kafkaWriter, event)
}

// validateCreate checks the submission and returns the normalized category and
// difficulty, or a field-keyed ValidationError.
func validateCreate(input CreateRecipeInput) (categoria, dificultad string, err error) {
	fields := map[string]string{}

	if input.Titulo == "" {
		fields["titulo"] = "required"
	}
	if input.Descripcion == "" {
		fields["descripcion"] = "required"
	}
	if input.Ingredientes == "" {
		fields["ingredientes"] = "required"
	}
	if input.Pasos == "" {
		fields["pasos"] = "required"
	}

	categoria = input.Categoria
	if categoria == "" {
		categoria = models.DefaultCategoria
	} else if !models.ValidCategoria(categoria) {
		fields["categoria"] = "unknown category"
	}

	dificultad = input.Dificultad
	if dificultad == "" {
		dificultad = models.DefaultDificultad
	} else if !models.ValidDificultad(dificultad) {
		fields["dificultad"] = "unknown difficulty"
	}

	if input.Porciones != nil && *input.Porciones < 1 {
		fields["porciones"] = "must be at least 1"
	}

	if len(fields) > 0 {
		return "", "", &ValidationError{Fields: fields}
	}
	return categoria, dificultad, nil
}

// Create validates and persists a new recipe owned by authorID, then publishes
// a recipe_created event.
func (s *CatalogService) Create(ctx context.Context, authorID uuid.UUID, input CreateRecipeInput) (*models.RecipeDB, error) {
	categoria, dificultad, err := validateCreate(input)
	if err != nil {
		logger.Log.Warnw("recipe submission rejected", "author_id", authorID, "error", err)
		return nil, err
	}

	imagen := input.Imagen
	if imagen == "" {
		imagen = models.DefaultImagen
	}

	recipe := &models.RecipeDB{
		RecipeID:    uuid.New(),
		AuthorID:    authorID,
		Titulo:      input.Titulo,
		Descripcion: input.Descripcion,
		Ingredients: input.Ingredientes,
		Pasos:       input.Pasos,
		Imagen:      imagen,
		Categoria:   categoria,
		Dificultad:  dificultad,
	}
	if input.TiempoPreparacion != nil {
		recipe.TiempoPrep = sql.NullString{String: *input.TiempoPreparacion, Valid: true}
	}
	if input.Porciones != nil {
		recipe.Porciones = sql.NullInt64{Int64: int64(*input.Porciones), Valid: true}
	}

	if err := s.writeRepo.Save(ctx, recipe); err != nil {
		logger.Log.Errorw("failed to save recipe", "author_id", authorID, "error", err)
		return nil, err
	}

	event := models.ActivityEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Type:      models.EventRecipeCreated,
		UserID:    authorID.String(),
		RecipeID:  recipe.RecipeID.String(),
	}
	s.publishEvent(ctx, event)

	return recipe, nil
}

// List returns one page of recipes, most recent first, plus pagination flags.
// page starts at 1.
func (s *CatalogService) List(ctx context.Context, filter ListFilter, page, pageSize int) (recipes []models.RecipeDB, hasNext, hasPrev bool, err error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize

	// One extra row tells us whether a next page exists.
	recipes, err = s.readRepo.List(ctx, filter.Query, filter.Categoria, pageSize+1, offset)
	if err != nil {
		logger.Log.Errorw("failed to list recipes", "page", page, "error", err)
		return nil, false, false, err
	}

	if len(recipes) > pageSize {
		recipes = recipes[:pageSize]
		hasNext = true
	}
	hasPrev = page > 1

	return recipes, hasNext, hasPrev, nil
}

// Get returns a recipe and its average rating.
func (s *CatalogService) Get(ctx context.Context, recipeID uuid.UUID) (*models.RecipeDB, float64, error) {
	recipe, err := s.readRepo.GetByID(ctx, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to get recipe", "recipe_id", recipeID, "error", err)
		return nil, 0, err
	}
	if recipe == nil {
		return nil, 0, ErrRecipeNotFound
	}

	avg, err := s.ratings.GetAverage(ctx, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to get average rating", "recipe_id", recipeID, "error", err)
		return nil, 0, err
	}

	return recipe, avg, nil
}

// ListByAuthor returns all recipes owned by the given user, most recent first.
func (s *CatalogService) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.RecipeDB, error) {
	recipes, err := s.readRepo.ListByAuthor(ctx, authorID)
	if err != nil {
		logger.Log.Errorw("failed to list recipes by author", "author_id", authorID, "error", err)
		return nil, err
	}
	return recipes, nil
}

// CategorySummary returns the per-category aggregates for the categories page.
func (s *CatalogService) CategorySummary(ctx context.Context) ([]models.CategorySummary, error) {
	summaries, err := s.readRepo.CategorySummary(ctx)
	if err != nil {
		logger.Log.Errorw("failed to build category summary", "error", err)
		return nil, err
	}
	return summaries, nil
}
