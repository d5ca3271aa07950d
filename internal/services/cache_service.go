package services

import (
	"context"
	"time"
)

// CacheService is the cache surface services depend on. The Redis client
// in pkg/cache satisfies it.
type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// EmailService delivers transactional mail. The SMTP mailer in pkg/mailer
// satisfies it.
type EmailService interface {
	Send(ctx context.Context, to, subject, body string) error
}
