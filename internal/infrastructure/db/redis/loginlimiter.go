package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginWindow      = 15 * time.Minute
	maxLoginFailures = 10
)

// LoginLimiter counts failed login attempts per email in Redis.
// It fails open: if Redis is unreachable, attempts are allowed and
// bookkeeping is skipped, so authentication never depends on Redis being up.
type LoginLimiter struct {
	client *redis.Client
}

func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client}
}

// Allow reports whether another attempt for key is permitted right now.
func (l *LoginLimiter) Allow(ctx context.Context, key string) bool {
	n, err := l.client.Get(ctx, l.key(key)).Int64()
	if err != nil {
		return true
	}
	return n < maxLoginFailures
}

// RecordFailure increments the failure counter and refreshes its expiry.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) {
	k := l.key(key)
	if err := l.client.Incr(ctx, k).Err(); err != nil {
		return
	}
	_ = l.client.Expire(ctx, k, loginWindow).Err()
}

// Reset clears the failure counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) {
	_ = l.client.Del(ctx, l.key(key)).Err()
}

func (l *LoginLimiter) key(key string) string {
	return fmt.Sprintf("login_failures:%s", key)
}
