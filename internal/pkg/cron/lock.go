package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker hands out a named lock that expires after ttl if never released.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another replica is left alone.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLocker implements Locker with SET NX PX.
type RedisLocker struct {
	rdb    redis.Cmdable
	prefix string
	token  func() string
}

func NewRedisLocker(rdb redis.Cmdable, prefix string) *RedisLocker {
	return &RedisLocker{
		rdb:    rdb,
		prefix: prefix,
		token:  uuid.NewString,
	}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	lockKey := l.prefix + key
	token := l.token()

	acquired, err := l.rdb.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", lockKey, err)
	}
	if !acquired {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := l.rdb.Eval(ctx, releaseScript, []string{lockKey}, token).Err(); err != nil {
			return fmt.Errorf("release lock %s: %w", lockKey, err)
		}
		return nil
	}
	return release, true, nil
}
