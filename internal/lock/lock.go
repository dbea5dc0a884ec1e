// Package lock serializes work on a single request id across API replicas.
package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrBusy is returned when another holder owns the key.
var ErrBusy = errors.New("lock is held")

// Locker grants exclusive ownership of a key until release is called or ttl passes.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisLocker(rdb *redis.Client, prefix string) *RedisLocker {
	if prefix == "" {
		prefix = "lock:"
	}
	return &RedisLocker{rdb: rdb, prefix: prefix}
}

var _ Locker = (*RedisLocker)(nil)

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	k := l.prefix + key
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, k, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBusy
	}

	return func() {
		// the caller's ctx may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.rdb, []string{k}, token).Err()
	}, nil
}

// Local is an in-process Locker for single-replica runs and tests.
type Local struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewLocal() *Local {
	return &Local{held: map[string]time.Time{}}
}

var _ Locker = (*Local)(nil)

func (l *Local) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if until, ok := l.held[key]; ok && now.Before(until) {
		return nil, ErrBusy
	}
	deadline := now.Add(ttl)
	l.held[key] = deadline

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.held[key].Equal(deadline) {
			delete(l.held, key)
		}
	}, nil
}
