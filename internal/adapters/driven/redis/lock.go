package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

const lockPrefix = "t4h:lock:"

// errNotHeld is returned by Extend when another owner holds the lock or it expired
var errNotHeld = errors.New("lock not held by this instance")

// Lock implements DistributedLock with SET NX and a TTL. Each instance
// carries an owner token so that it never releases or extends a lock taken
// by another process.
type Lock struct {
	client  *redis.Client
	ownerID string
}

// NewLock creates a Redis-backed lock with a fresh owner token.
func NewLock(client *redis.Client) *Lock {
	return &Lock{
		client:  client,
		ownerID: newOwnerID(),
	}
}

// newOwnerID returns hostname:pid:random
func newOwnerID() string {
	hostname, _ := os.Hostname()
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), hex.EncodeToString(b))
}

// Acquire takes the lock if it is free. A held lock returns false, nil.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockPrefix+name, l.ownerID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	return ok, nil
}

// compareAndDelete deletes KEYS[1] only while it still holds ARGV[1]
var compareAndDelete = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	end
	return 0
`)

// Release drops the lock if this instance owns it. Releasing an expired or
// foreign lock is not an error.
func (l *Lock) Release(ctx context.Context, name string) error {
	_, err := compareAndDelete.Run(ctx, l.client, []string{lockPrefix + name}, l.ownerID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release lock %s: %w", name, err)
	}
	return nil
}

// compareAndExpire resets the TTL of KEYS[1] while it still holds ARGV[1]
var compareAndExpire = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("pexpire", KEYS[1], ARGV[2])
	end
	return 0
`)

// Extend pushes the TTL of a lock this instance holds.
func (l *Lock) Extend(ctx context.Context, name string, ttl time.Duration) error {
	n, err := compareAndExpire.Run(ctx, l.client, []string{lockPrefix + name}, l.ownerID, ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("extend lock %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("extend lock %s: %w", name, errNotHeld)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (l *Lock) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// OwnerID identifies this instance in lock values.
func (l *Lock) OwnerID() string {
	return l.ownerID
}
