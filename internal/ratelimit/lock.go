package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

var ErrLockNotConfigured = errors.New("lock_not_configured")

// Compare-and-delete so a submit that outlived its TTL cannot drop the lease
// of the submit that replaced it.
const leaseReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Lease is a held lock. The zero Lease releases as a no-op.
type Lease struct {
	Key   string
	Token string
}

func (l Lease) Held() bool {
	return l.Key != "" && l.Token != ""
}

// Locker hands out short redis leases keyed by an arbitrary string.
type Locker struct {
	client  *redis.Client
	release *redis.Script
}

func NewLocker(client *redis.Client) *Locker {
	if client == nil {
		return nil
	}
	return &Locker{
		client:  client,
		release: redis.NewScript(leaseReleaseScript),
	}
}

// TryLock reports false without error when another holder owns key.
func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (Lease, bool, error) {
	if l == nil || l.client == nil {
		return Lease{}, false, ErrLockNotConfigured
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Lease{}, false, errors.New("lock key is empty")
	}
	if ttl <= 0 {
		return Lease{}, false, errors.New("lock ttl must be positive")
	}

	lease := Lease{Key: key, Token: uuid.NewString()}
	ok, err := l.client.SetNX(ctx, key, lease.Token, ttl).Result()
	if err != nil {
		return Lease{}, false, err
	}
	if !ok {
		return Lease{}, false, nil
	}
	return lease, true, nil
}

func (l *Locker) Release(ctx context.Context, lease Lease) error {
	if l == nil || l.client == nil || !lease.Held() {
		return nil
	}
	return l.release.Run(ctx, l.client, []string{lease.Key}, lease.Token).Err()
}
