package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLockEnv(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func mustAcquire(t *testing.T, l *Lock, name string, ttl time.Duration) bool {
	t.Helper()
	ok, err := l.Acquire(context.Background(), name, ttl)
	if err != nil {
		t.Fatalf("Acquire(%s): %v", name, err)
	}
	return ok
}

func TestLock_OwnerIDsAreUnique(t *testing.T) {
	_, client := newTestLockEnv(t)

	a, b := NewLock(client), NewLock(client)
	if a.OwnerID() == "" {
		t.Fatal("expected non-empty owner ID")
	}
	if a.OwnerID() == b.OwnerID() {
		t.Errorf("owner IDs should differ, both %s", a.OwnerID())
	}
}

func TestLock_AcquireIsExclusive(t *testing.T) {
	mr, client := newTestLockEnv(t)

	a, b := NewLock(client), NewLock(client)
	if !mustAcquire(t, a, "sweep:research-links", time.Minute) {
		t.Fatal("first acquire should succeed")
	}
	if mustAcquire(t, b, "sweep:research-links", time.Minute) {
		t.Error("second owner should be refused")
	}
	if mustAcquire(t, a, "sweep:research-links", time.Minute) {
		t.Error("lock is not reentrant")
	}
	if !mustAcquire(t, b, "sweep:expansion", time.Minute) {
		t.Error("a different sweep should be independent")
	}

	got, err := mr.Get(lockPrefix + "sweep:research-links")
	if err != nil {
		t.Fatalf("lock key missing: %v", err)
	}
	if got != a.OwnerID() {
		t.Errorf("lock value = %q, want owner %q", got, a.OwnerID())
	}
}

func TestLock_ReleaseOnlyByOwner(t *testing.T) {
	_, client := newTestLockEnv(t)
	ctx := context.Background()

	a, b := NewLock(client), NewLock(client)
	mustAcquire(t, a, "sweep:alignment", time.Minute)

	if err := b.Release(ctx, "sweep:alignment"); err != nil {
		t.Fatalf("foreign release: %v", err)
	}
	if mustAcquire(t, b, "sweep:alignment", time.Minute) {
		t.Fatal("foreign release must not free the lock")
	}

	if err := a.Release(ctx, "sweep:alignment"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if !mustAcquire(t, b, "sweep:alignment", time.Minute) {
		t.Error("lock should be free after owner release")
	}
}

func TestLock_ReleaseNotHeld(t *testing.T) {
	_, client := newTestLockEnv(t)

	if err := NewLock(client).Release(context.Background(), "sweep:none"); err != nil {
		t.Errorf("releasing an unheld lock should not error: %v", err)
	}
}

func TestLock_TTLExpiry(t *testing.T) {
	mr, client := newTestLockEnv(t)

	a, b := NewLock(client), NewLock(client)
	mustAcquire(t, a, "sweep:expansion", 30*time.Second)

	mr.FastForward(31 * time.Second)

	if !mustAcquire(t, b, "sweep:expansion", 30*time.Second) {
		t.Error("expired lock should be acquirable")
	}
}

func TestLock_Extend(t *testing.T) {
	mr, client := newTestLockEnv(t)
	ctx := context.Background()

	a, b := NewLock(client), NewLock(client)
	mustAcquire(t, a, "sweep:research-links", time.Second)

	if err := a.Extend(ctx, "sweep:research-links", time.Minute); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if ttl := mr.TTL(lockPrefix + "sweep:research-links"); ttl < 30*time.Second {
		t.Errorf("TTL after extend = %v, want about a minute", ttl)
	}

	err := b.Extend(ctx, "sweep:research-links", time.Minute)
	if !errors.Is(err, errNotHeld) {
		t.Errorf("foreign Extend = %v, want errNotHeld", err)
	}

	err = a.Extend(ctx, "sweep:missing", time.Minute)
	if !errors.Is(err, errNotHeld) {
		t.Errorf("Extend unheld = %v, want errNotHeld", err)
	}
}

func TestLock_Ping(t *testing.T) {
	mr, client := newTestLockEnv(t)
	l := NewLock(client)

	if err := l.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	mr.Close()
	if err := l.Ping(context.Background()); err == nil {
		t.Error("Ping should fail once Redis is gone")
	}
}
