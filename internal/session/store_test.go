package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmehdipour/invest-backoffice/internal/session"
	"github.com/redis/go-redis/v9"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := session.NewRedisStore(rdb, time.Hour)

	token, err := store.Create(ctx, session.Session{AdminID: 7, Username: "ops"})
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	got, err := store.Get(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.AdminID != 7 || got.Username != "ops" {
		t.Fatalf("unexpected session: %+v", got)
	}

	if missing, err := store.Get(ctx, "nope"); err != nil || missing != nil {
		t.Errorf("unknown token: got (%+v, %v)", missing, err)
	}

	mr.FastForward(30 * time.Minute)
	if _, err := store.Get(ctx, token); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(45 * time.Minute)
	if s, _ := store.Get(ctx, token); s == nil {
		t.Error("a read should slide the expiry")
	}

	if err := store.Delete(ctx, token); err != nil {
		t.Fatal(err)
	}
	if s, _ := store.Get(ctx, token); s != nil {
		t.Error("deleted session is still readable")
	}

	t2, _ := store.Create(ctx, session.Session{AdminID: 8})
	mr.FastForward(2 * time.Hour)
	if s, _ := store.Get(ctx, t2); s != nil {
		t.Error("expired session is still readable")
	}
}
