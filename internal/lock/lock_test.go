package lock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmehdipour/invest-backoffice/internal/lock"
	"github.com/redis/go-redis/v9"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestLockers(t *testing.T) {
	for name, newLocker := range map[string]func(t *testing.T) lock.Locker{
		"redis": func(t *testing.T) lock.Locker {
			_, rdb := newRedis(t)
			return lock.NewRedisLocker(rdb, "")
		},
		"local": func(t *testing.T) lock.Locker {
			return lock.NewLocal()
		},
	} {
		t.Run(name+": a held key is busy until released", func(t *testing.T) {
			ctx := context.Background()
			l := newLocker(t)

			release, err := l.Acquire(ctx, "investment:I1", time.Minute)
			if err != nil {
				t.Fatal(err)
			}

			if _, err := l.Acquire(ctx, "investment:I1", time.Minute); !errors.Is(err, lock.ErrBusy) {
				t.Fatalf("second acquire: got %v, want ErrBusy", err)
			}

			other, err := l.Acquire(ctx, "investment:I2", time.Minute)
			if err != nil {
				t.Fatalf("other key should be free: %v", err)
			}
			other()

			release()

			again, err := l.Acquire(ctx, "investment:I1", time.Minute)
			if err != nil {
				t.Fatalf("acquire after release: %v", err)
			}
			again()
		})
	}
}

func TestRedisLocker_StaleReleaseKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	l := lock.NewRedisLocker(rdb, "lock:")

	stale, err := l.Acquire(ctx, "withdrawal:W1", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Second)

	fresh, err := l.Acquire(ctx, "withdrawal:W1", time.Minute)
	if err != nil {
		t.Fatalf("expired lock should be acquirable: %v", err)
	}
	defer fresh()

	stale()

	if !mr.Exists("lock:withdrawal:W1") {
		t.Error("stale release must not delete the new holder's key")
	}
}
