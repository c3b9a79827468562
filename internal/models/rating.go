package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingDB represents a single user's rating of a recipe. The pair
// (recipe_id, user_id) is the primary key, so a user can hold at most one
// rating per recipe; repeated submissions overwrite the score.
type RatingDB struct {
	RecipeID   uuid.UUID `json:"recipe_id" db:"recipe_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Puntuacion int       `json:"puntuacion" db:"puntuacion"` // Score, 1 to 5 inclusive
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
