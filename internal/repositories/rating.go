package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dmoralesc/recetas-api/internal/logger"
)

// RatingWriteRepository handles rating write operations
type RatingWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewRatingWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *RatingWriteRepository {
	return &RatingWriteRepository{db: db, txGetter: txGetter}
}

// Save performs an UPSERT: inserts the rating for (recipe, user), or overwrites
// the score if the pair already rated. The composite primary key serializes
// concurrent submissions in the database, so exactly one row ever exists per pair.
func (r *RatingWriteRepository) Save(ctx context.Context, recipeID, userID uuid.UUID, puntuacion int) error {
	query := `
		INSERT INTO calificaciones (recipe_id, user_id, puntuacion, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (recipe_id, user_id)
		DO UPDATE SET puntuacion = EXCLUDED.puntuacion, updated_at = NOW()
		RETURNING puntuacion
	`

	var executor sqlx.ExtContext = r.db
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			executor = tx
		}
	}

	var stored int
	err := sqlx.GetContext(ctx, executor, &stored, query, recipeID, userID, puntuacion)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipeID, userID, puntuacion},
		"result", stored,
		"error", err,
	)

	return err
}

// RatingReadRepository handles rating read operations
type RatingReadRepository struct {
	db *sqlx.DB
}

func NewRatingReadRepository(db *sqlx.DB) *RatingReadRepository {
	return &RatingReadRepository{db: db}
}

// GetAverage returns the arithmetic mean of all scores for the recipe,
// and 0 when the recipe has no ratings.
func (r *RatingReadRepository) GetAverage(ctx context.Context, recipeID uuid.UUID) (float64, error) {
	const query = `
		SELECT COALESCE(AVG(puntuacion), 0)
		FROM calificaciones
		WHERE recipe_id = $1
	`

	var avg float64
	err := r.db.GetContext(ctx, &avg, query, recipeID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipeID},
		"result", avg,
		"error", err,
	)

	return avg, err
}

// CountByRecipe returns how many ratings the recipe has.
func (r *RatingReadRepository) CountByRecipe(ctx context.Context, recipeID uuid.UUID) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM calificaciones
		WHERE recipe_id = $1
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, recipeID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{recipeID},
		"result", count,
		"error", err,
	)

	return count, err
}
