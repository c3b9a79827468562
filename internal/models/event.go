package models

// Activity event types published to Kafka.
const (
	EventRecipeCreated = "recipe_created"
	EventRecipeRated   = "recipe_rated"
)

// ActivityEvent represents a user action published to the activity topic.
type ActivityEvent struct {
	EventID   string `json:"event_id"`        // EventID is a unique identifier for the event.
	Timestamp int64  `json:"timestamp"`       // Timestamp is the Unix timestamp (in seconds) when the action occurred.
	Type      string `json:"type"`            // Type is one of the Event* constants.
	UserID    string `json:"user_id"`         // UserID is the identifier of the acting user.
	RecipeID  string `json:"recipe_id"`       // RecipeID is the identifier of the affected recipe.
	Score     int    `json:"score,omitempty"` // Score is the submitted rating, set only for recipe_rated events.
}
