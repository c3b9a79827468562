package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmoralesc/recetas-api/internal/logger"
	"github.com/dmoralesc/recetas-api/internal/models"
)

const recipeColumns = `recipe_id, author_id, titulo, descripcion, ingredientes, pasos,
	imagen, categoria, dificultad, tiempo_preparacion, porciones, fecha_creacion`

// RecipeWriteRepository handles recipe write operations
type RecipeWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewRecipeWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *RecipeWriteRepository {
	return &RecipeWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a new recipe row. fecha_creacion is set by the database and
// never updated afterwards; the author is fixed at creation.
func (r *RecipeWriteRepository) Save(ctx context.Context, recipe *models.RecipeDB) error {
	query := `
		INSERT INTO recetas (recipe_id, author_id, titulo, descripcion, ingredientes, pasos,
			imagen, categoria, dificultad, tiempo_preparacion, porciones, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING fecha_creacion
	`
	args := []any{
		recipe.RecipeID, recipe.AuthorID, recipe.Titulo, recipe.Descripcion,
		recipe.Ingredients, recipe.Pasos, recipe.Imagen, recipe.Categoria,
		recipe.Dificultad, recipe.TiempoPrep, recipe.Porciones,
	}

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	err := sqlx.GetContext(ctx, executor, &recipe.CreatedAt, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipe.RecipeID, recipe.AuthorID, recipe.Titulo, recipe.Categoria},
		"error", err,
	)

	return err
}

// RecipeReadRepository handles recipe read operations
type RecipeReadRepository struct {
	db *sqlx.DB
}

func NewRecipeReadRepository(db *sqlx.DB) *RecipeReadRepository {
	return &RecipeReadRepository{db: db}
}

// GetByID returns the recipe with the given id, or (nil, nil) when it does not exist.
func (r *RecipeReadRepository) GetByID(ctx context.Context, recipeID uuid.UUID) (*models.RecipeDB, error) {
	const query = `
		SELECT ` + recipeColumns + `
		FROM recetas
		WHERE recipe_id = $1
	`

	var recipe models.RecipeDB
	err := r.db.GetContext(ctx, &recipe, query, recipeID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipeID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &recipe, nil
}

// likeEscaper backslash-escapes the ILIKE metacharacters so a user-supplied
// search term matches % and _ literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns recipes ordered most-recent-first, restricted by the optional
// filters. textQuery matches case-insensitively against titulo, descripcion or
// ingredientes; a single OR'ed predicate keeps matches deduplicated. categoria
// restricts to an exact match. Both filters combine with AND.
func (r *RecipeReadRepository) List(ctx context.Context, textQuery, categoria *string, limit, offset int) ([]models.RecipeDB, error) {
	if textQuery != nil {
		escaped := likeEscaper.Replace(*textQuery)
		textQuery = &escaped
	}

	const query = `
		SELECT ` + recipeColumns + `
		FROM recetas
		WHERE ($1::VARCHAR IS NULL
		       OR titulo ILIKE '%' || $1 || '%'
		       OR descripcion ILIKE '%' || $1 || '%'
		       OR ingredientes ILIKE '%' || $1 || '%')
		  AND ($2::VARCHAR IS NULL OR categoria = $2)
		ORDER BY fecha_creacion DESC, recipe_id DESC
		LIMIT $3 OFFSET $4
	`

	recipes := []models.RecipeDB{}
	err := r.db.SelectContext(ctx, &recipes, query, textQuery, categoria, limit, offset)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{textQuery, categoria, limit, offset},
		"result_count", len(recipes),
		"error", err,
	)

	return recipes, err
}

// ListByAuthor returns all recipes owned by the given user, most recent first.
func (r *RecipeReadRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.RecipeDB, error) {
	const query = `
		SELECT ` + recipeColumns + `
		FROM recetas
		WHERE author_id = $1
		ORDER BY fecha_creacion DESC, recipe_id DESC
	`

	recipes := []models.RecipeDB{}
	err := r.db.SelectContext(ctx, &recipes, query, authorID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{authorID},
		"result_count", len(recipes),
		"error", err,
	)

	return recipes, err
}

// CategorySummary returns, for every category that has at least one recipe,
// the recipe count and the image of its most recent recipe.
//
// The group-wise top-1 is resolved portably: one grouped count query, then one
// ordered scan over (categoria, imagen) picking the head row per category.
func (r *RecipeReadRepository) CategorySummary(ctx context.Context) ([]models.CategorySummary, error) {
	const countQuery = `
		SELECT categoria, COUNT(*) AS num_recetas
		FROM recetas
		GROUP BY categoria
		ORDER BY categoria
	`

	summaries := []models.CategorySummary{}
	err := r.db.SelectContext(ctx, &summaries, countQuery)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(countQuery), " "),
		"result_count", len(summaries),
		"error", err,
	)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return summaries, nil
	}

	const imageQuery = `
		SELECT categoria, imagen
		FROM recetas
		ORDER BY categoria, fecha_creacion DESC, recipe_id DESC
	`

	var rows []struct {
		Categoria string `db:"categoria"`
		Imagen    string `db:"imagen"`
	}
	err = r.db.SelectContext(ctx, &rows, imageQuery)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(imageQuery), " "),
		"result_count", len(rows),
		"error", err,
	)
	if err != nil {
		return nil, err
	}

	// Head row per category is the newest recipe in that category.
	latest := make(map[string]string, len(summaries))
	for _, row := range rows {
		if _, ok := latest[row.Categoria]; !ok {
			latest[row.Categoria] = row.Imagen
		}
	}

	for i := range summaries {
		summaries[i].Imagen = latest[summaries[i].Categoria]
	}

	return summaries, nil
}
