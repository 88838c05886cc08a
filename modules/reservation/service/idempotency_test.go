package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func TestFingerprintStable(t *testing.T) {
	type payload struct {
		A string
		B int
	}

	fp1 := Fingerprint(payload{A: "x", B: 2})
	fp2 := Fingerprint(payload{A: "x", B: 2})
	fp3 := Fingerprint(payload{A: "x", B: 3})

	if fp1 == "" {
		t.Fatal("empty fingerprint")
	}
	if fp1 != fp2 {
		t.Error("identical payloads must fingerprint identically")
	}
	if fp1 == fp3 {
		t.Error("different payloads must fingerprint differently")
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)

	res, err := store.Begin(ctx, "k1", "fp")
	if err != nil {
		t.Fatal(err)
	}
	if res.State != IdempotencyNew {
		t.Fatalf("first begin = %s, want new", res.State)
	}

	// Same key while pending
	res, _ = store.Begin(ctx, "k1", "fp")
	if res.State != IdempotencyInProgress {
		t.Fatalf("pending begin = %s, want in_progress", res.State)
	}

	// Same key, different payload
	res, _ = store.Begin(ctx, "k1", "other")
	if res.State != IdempotencyConflict {
		t.Fatalf("mismatched begin = %s, want conflict", res.State)
	}

	if err := store.Complete(ctx, "k1", "fp", "resv-1"); err != nil {
		t.Fatal(err)
	}
	res, _ = store.Begin(ctx, "k1", "fp")
	if res.State != IdempotencyReplay {
		t.Fatalf("completed begin = %s, want replay", res.State)
	}
	if res.ReservationID != "resv-1" {
		t.Errorf("replay reservation = %q", res.ReservationID)
	}
}

func TestMemoryStoreFailFreesKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)

	if res, _ := store.Begin(ctx, "k1", "fp"); res.State != IdempotencyNew {
		t.Fatalf("first begin = %s", res.State)
	}
	if err := store.Fail(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	if res, _ := store.Begin(ctx, "k1", "fp"); res.State != IdempotencyNew {
		t.Fatalf("begin after fail = %s, want new", res.State)
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryIdempotencyStore(time.Minute)

	now := time.Date(2026, time.March, 14, 20, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	if res, _ := store.Begin(ctx, "k1", "fp"); res.State != IdempotencyNew {
		t.Fatalf("first begin = %s", res.State)
	}
	if err := store.Complete(ctx, "k1", "fp", "resv-1"); err != nil {
		t.Fatal(err)
	}

	now = now.Add(30 * time.Second)
	if res, _ := store.Begin(ctx, "k1", "fp"); res.State != IdempotencyReplay {
		t.Fatalf("within ttl = %s, want replay", res.State)
	}

	now = now.Add(2 * time.Minute)
	if res, _ := store.Begin(ctx, "k1", "fp"); res.State != IdempotencyNew {
		t.Fatalf("after ttl = %s, want new", res.State)
	}
}

func newRedisStore(t *testing.T) (*RedisIdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return NewRedisIdempotencyStore(client, time.Minute), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _ := newRedisStore(t)

	res, err := store.Begin(ctx, "k1", "fp")
	if err != nil {
		t.Fatal(err)
	}
	if res.State != IdempotencyNew {
		t.Fatalf("first begin = %s, want new", res.State)
	}

	if res, _ := store.Begin(ctx, "k1", "fp"); res.State != IdempotencyInProgress {
		t.Fatalf("pending begin = %s, want in_progress", res.State)
	}
	if res, _ := store.Begin(ctx, "k1", "other"); res.State != IdempotencyConflict {
		t.Fatalf("mismatched begin = %s, want conflict", res.State)
	}

	if err := store.Complete(ctx, "k1", "fp", "resv-1"); err != nil {
		t.Fatal(err)
	}
	res, _ = store.Begin(ctx, "k1", "fp")
	if res.State != IdempotencyReplay || res.ReservationID != "resv-1" {
		t.Fatalf("completed begin = %+v, want replay of resv-1", res)
	}

	if err := store.Fail(ctx, "k1"); err != nil {
		t.Fatal(err)
	}
	if res, _ := store.Begin(ctx, "k1", "fp"); res.State != IdempotencyNew {
		t.Fatalf("begin after fail = %s, want new", res.State)
	}
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	if res, _ := store.Begin(ctx, "k1", "fp"); res.State != IdempotencyNew {
		t.Fatalf("first begin = %s", res.State)
	}

	mr.FastForward(2 * time.Minute)

	if res, _ := store.Begin(ctx, "k1", "fp"); res.State != IdempotencyNew {
		t.Fatalf("begin after expiry = %s, want new", res.State)
	}
}
