package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dmoralesc/recetas-api/internal/logger"
	"github.com/dmoralesc/recetas-api/internal/models"
)

// ErrInvalidScore is returned when a submitted score is not an integer
// between 1 and 5. The existing rating, if any, is left untouched.
var ErrInvalidScore = errors.New("score must be an integer between 1 and 5")

// RatingWriter defines write operations for ratings.
type RatingWriter interface {
	Save(ctx context.Context, recipeID, userID uuid.UUID, puntuacion int) error
}

// RatingReader defines read operations for ratings.
type RatingReader interface {
	GetAverage(ctx context.Context, recipeID uuid.UUID) (float64, error)
}

// RecipeGetter resolves a recipe id. Returns (nil, nil) when the id is unknown.
type RecipeGetter interface {
	GetByID(ctx context.Context, recipeID uuid.UUID) (*models.RecipeDB, error)
}

// RatingService enforces the one-rating-per-user-per-recipe contract.
type RatingService struct {
	writeRepo   RatingWriter
	readRepo    RatingReader
	recipes     RecipeGetter
	kafkaWriter KafkaWriter
}

// NewRatingService creates a new RatingService.
func NewRatingService(writeRepo RatingWriter, readRepo RatingReader, recipes RecipeGetter, kafkaWriter KafkaWriter) *RatingService {
	return &RatingService{
		writeRepo:   writeRepo,
		readRepo:    readRepo,
		recipes:     recipes,
		kafkaWriter: kafkaWriter,
	}
}

// publishRated publishes a recipe_rated event to Kafka.
func (s *RatingService) publishRated(ctx context.Context, userID, recipeID uuid.UUID, score int) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "recipe_id", recipeID)
		return
	}

	event := models.ActivityEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Type:      models.EventRecipeRated,
		UserID:    userID.String(),
		RecipeID:  recipeID.String(),
		Score:     score,
	}

	publishActivity(ctx, s.kafkaWriter, event)
}

// Rate validates and stores a rating submission. The recipe is resolved first,
// so an unknown recipe answers ErrRecipeNotFound even when the score is also
// bad. The raw form value is parsed here: a non-numeric value or a score
// outside [1,5] yields ErrInvalidScore and leaves any stored rating unchanged.
// A second submission by the same user for the same recipe overwrites the
// previous score in place.
func (s *RatingService) Rate(ctx context.Context, recipeID, userID uuid.UUID, rawScore string) error {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to resolve recipe for rating", "recipe_id", recipeID, "error", err)
		return err
	}
	if recipe == nil {
		return ErrRecipeNotFound
	}

	score, err := strconv.Atoi(rawScore)
	if err != nil {
		logger.Log.Warnw("non-numeric score submitted", "recipe_id", recipeID, "user_id", userID, "score", rawScore)
		return ErrInvalidScore
	}
	if score < 1 || score > 5 {
		logger.Log.Warnw("score out of range", "recipe_id", recipeID, "user_id", userID, "score", score)
		return ErrInvalidScore
	}

	if err := s.writeRepo.Save(ctx, recipeID, userID, score); err != nil {
		logger.Log.Errorw("failed to save rating", "recipe_id", recipeID, "user_id", userID, "error", err)
		return err
	}

	s.publishRated(ctx, userID, recipeID, score)

	return nil
}

// Average returns the arithmetic mean of all scores for the recipe, 0 when none exist.
func (s *RatingService) Average(ctx context.Context, recipeID uuid.UUID) (float64, error) {
	avg, err := s.readRepo.GetAverage(ctx, recipeID)
	if err != nil {
		logger.Log.Errorw("failed to get average rating", "recipe_id", recipeID, "error", err)
		return 0, err
	}
	return avg, nil
}
