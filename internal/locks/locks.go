// Package locks provides non-blocking distributed locks over Redis so
// scheduled tasks never run concurrently across instances.
package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when the lock is already held elsewhere.
// Callers skip the run rather than wait.
var ErrLockHeld = errors.New("lock already held")

// releaseScript deletes the lock only if the caller still owns it, so an
// expired-and-reacquired lock is never released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Manager acquires named locks with per-lock expiries.
type Manager struct {
	client *redis.Client
}

func NewManager(client *redis.Client) *Manager {
	return &Manager{client: client}
}

// Acquire attempts to take the named lock without blocking. On success the
// returned release function frees the lock; the lock also self-expires
// after ttl in case the holder dies.
func (m *Manager) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	key := "lock:" + name
	token := uuid.NewString()

	ok, err := m.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock %q: %w", name, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, m.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("releasing lock %q: %w", name, err)
		}
		return nil
	}
	return release, nil
}

// WithLock runs fn while holding the named lock. If the lock is held
// elsewhere it returns ErrLockHeld without running fn.
func (m *Manager) WithLock(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) error {
	release, err := m.Acquire(ctx, name, ttl)
	if err != nil {
		return err
	}
	defer release(context.WithoutCancel(ctx))
	return fn(ctx)
}
