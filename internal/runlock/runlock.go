package runlock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 30 * time.Minute
	keyPrefix  = "tablebackup:run:"
)

// ErrLocked is returned when another run holds the lock
var ErrLocked = errors.New("another backup run holds the lock")

// Lock is a held run lock
type Lock interface {
	Release(ctx context.Context) error
}

// Locker prevents overlapping lifecycle runs for the same table
type Locker interface {
	Acquire(ctx context.Context, table string) (Lock, error)
}

// Key returns the Redis key guarding runs of table
func Key(table string) string {
	return keyPrefix + table
}

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX on a single Redis key
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger

	// Connection retry settings
	maxRetries    int
	retryDelay    time.Duration
	maxRetryDelay time.Duration
}

// NewRedisLocker creates a locker for the Redis server at addr
func NewRedisLocker(addr, password string, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		ttl:           ttl,
		logger:        logger,
		maxRetries:    5,
		retryDelay:    time.Second,
		maxRetryDelay: 30 * time.Second,
	}
}

// SetRetryConfig configures the connect retry behavior
func (l *RedisLocker) SetRetryConfig(maxRetries int, retryDelay, maxRetryDelay time.Duration) {
	l.maxRetries = maxRetries
	l.retryDelay = retryDelay
	l.maxRetryDelay = maxRetryDelay
}

// Connect pings Redis with exponential backoff until it answers
func (l *RedisLocker) Connect(ctx context.Context) error {
	retryDelay := l.retryDelay
	var err error
	for attempt := 0; attempt < l.maxRetries; attempt++ {
		if err = l.client.Ping(ctx).Err(); err == nil {
			return nil
		}

		if attempt < l.maxRetries-1 {
			l.logger.Warn("Redis ping failed, retrying", "attempt", attempt+1, "retry_in", retryDelay, "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}

			retryDelay *= 2
			if retryDelay > l.maxRetryDelay {
				retryDelay = l.maxRetryDelay
			}
		}
	}
	return fmt.Errorf("failed to connect to Redis after %d attempts: %w", l.maxRetries, err)
}

// Acquire implements Locker.Acquire
func (l *RedisLocker) Acquire(ctx context.Context, table string) (Lock, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	key := Key(table)
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	l.logger.Debug("Acquired run lock", "key", key, "ttl", l.ttl)
	return &redisLock{client: l.client, key: key, token: token}, nil
}

// Close closes the underlying Redis client
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

type redisLock struct {
	client *redis.Client
	key    string
	token  string
}

func (r *redisLock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, r.client, []string{r.key}, r.token).Err(); err != nil {
		return fmt.Errorf("failed to release run lock %s: %w", r.key, err)
	}
	return nil
}

func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate lock token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// NoopLocker always grants the lock. Used when no Redis address is configured.
type NoopLocker struct{}

// Acquire implements Locker.Acquire
func (NoopLocker) Acquire(ctx context.Context, table string) (Lock, error) {
	return noopLock{}, nil
}

type noopLock struct{}

func (noopLock) Release(ctx context.Context) error { return nil }
