package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"porter/internal/repositories/interfaces"
)

// CacheService is the read-through cache used by repositories that cache
// hot records. A nil CacheService disables caching.
type CacheService interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func wrapWriteError(err error, action string) error {
	if mongo.IsDuplicateKeyError(err) {
		return interfaces.ErrDuplicate
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func wrapReadError(err error, action string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return interfaces.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
