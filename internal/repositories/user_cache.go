package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-user-auth/internal/logger"
	"github.com/sbilibin2017/gw-user-auth/internal/models"
)

// UserCacheRepository caches user records in Redis, keyed by user id.
// User records are immutable after creation, so cached entries can never
// go stale relative to the store.
type UserCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewUserCacheRepository creates a new cache repository with the given TTL.
func NewUserCacheRepository(client *redis.Client, expiration time.Duration) *UserCacheRepository {
	return &UserCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func userCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s", userID)
}

// Get returns the cached user, or (nil, nil) on a cache miss.
func (r *UserCacheRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	key := userCacheKey(userID)

	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Log.Debugw("user cache get", "key", key, "error", err)
		return nil, err
	}

	var user models.UserDB
	if err := json.Unmarshal(val, &user); err != nil {
		logger.Log.Debugw("user cache decode", "key", key, "error", err)
		return nil, err
	}
	return &user, nil
}

// Set stores the user record with the configured TTL.
func (r *UserCacheRepository) Set(ctx context.Context, user *models.UserDB) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	key := userCacheKey(user.UserID)
	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Debugw("user cache set", "key", key, "error", err)
	return err
}
