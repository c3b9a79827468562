package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmoralesc/recetas-api/internal/logger"
)

// RevokedTokenRepository stores revoked session tokens in Redis until they
// would have expired anyway. Backing store for logout.
type RevokedTokenRepository struct {
	client *redis.Client
}

// NewRevokedTokenRepository creates a new repository instance.
func NewRevokedTokenRepository(client *redis.Client) *RevokedTokenRepository {
	return &RevokedTokenRepository{client: client}
}

func revokedKey(token string) string {
	return "revoked_token:" + token
}

// Revoke marks the token as revoked for the given TTL. A non-positive TTL
// means the token is already expired and nothing needs to be stored.
func (r *RevokedTokenRepository) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	key := revokedKey(token)
	err := r.client.Set(ctx, key, "1", ttl).Err()

	logger.Log.Infow(
		"key", key,
		"ttl", ttl,
		"error", err,
	)

	return err
}

// IsRevoked reports whether the token has been revoked.
func (r *RevokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := revokedKey(token)

	_, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}

	logger.Log.Infow(
		"key", key,
		"error", err,
	)

	if err != nil {
		return false, err
	}
	return true, nil
}
