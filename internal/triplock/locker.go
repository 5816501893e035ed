// Package triplock serializes mutations of a single trip's equipment
// ownership across requests and, with Redis, across API instances.
package triplock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotAcquired = errors.New("trip lock not acquired")

// Locker hands out per-key exclusive locks. The returned release func is
// safe to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

const keyPrefix = "packshare:triplock:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewRedisLocker(client *redis.Client, ttl, retry time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	return &RedisLocker{client: client, ttl: ttl, retry: retry}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotAcquired, ctx.Err())
		case <-time.After(l.retry):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The request context may already be cancelled; release regardless.
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err()
		})
	}, nil
}

// LocalLocker is the single-process fallback used when no Redis is configured.
// A key's slot lives only while someone holds or waits for it.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*localSlot
}

type localSlot struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*localSlot)}
}

func (l *LocalLocker) acquire(key string) *localSlot {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &localSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	return slot
}

func (l *LocalLocker) drop(key string, slot *localSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	slot := l.acquire(key)
	select {
	case slot.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, slot)
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.ch
			l.drop(key, slot)
		})
	}, nil
}

// New picks the Redis locker when a client is available.
func New(client *redis.Client, ttl, retry time.Duration) Locker {
	if client == nil {
		return NewLocalLocker()
	}
	return NewRedisLocker(client, ttl, retry)
}
