package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
)

const keyPrefix = "fss:lock:resource:"

const retryInterval = 50 * time.Millisecond

// Deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a per-resource advisory lock shared by every replica. The
// key expires after ttl so a crashed holder cannot block a resource forever.
type RedisLocker struct {
	rdb  *redis.Client
	ttl  time.Duration
	wait time.Duration
	log  *zap.Logger
}

func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration, log *zap.Logger) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl, wait: wait, log: log}
}

func (l *RedisLocker) Lock(ctx context.Context, resourceID uint) (func(), error) {
	key := fmt.Sprintf("%s%d", keyPrefix, resourceID)
	token := uuid.NewString()

	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire resource lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, httperr.ErrConflict("resource_busy")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return func() {
		// Release even when the request context is already gone.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warn("resource lock release failed",
				zap.Uint("resource_id", resourceID),
				zap.Error(err),
			)
		}
	}, nil
}
