package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttle conta falhas de login por chave dentro de uma janela.
type Throttle interface {
	Failures(ctx context.Context, key string) (int64, error)
	RecordFailure(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

type RedisThrottle struct {
	rdb    *redis.Client
	prefix string
	window time.Duration
}

func NewRedisThrottle(rdb *redis.Client, window time.Duration) *RedisThrottle {
	return &RedisThrottle{rdb: rdb, prefix: "login:fail:", window: window}
}

func (t *RedisThrottle) Failures(ctx context.Context, key string) (int64, error) {
	n, err := t.rdb.Get(ctx, t.prefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// RecordFailure incrementa e só define o TTL na primeira falha da janela.
func (t *RedisThrottle) RecordFailure(ctx context.Context, key string) (int64, error) {
	k := t.prefix + key
	pipe := t.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func (t *RedisThrottle) Reset(ctx context.Context, key string) error {
	return t.rdb.Del(ctx, t.prefix+key).Err()
}

// MemoryThrottle é usado quando não há Redis configurado (instância única).
type MemoryThrottle struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	entries map[string]memEntry
}

type memEntry struct {
	count   int64
	expires time.Time
}

func NewMemoryThrottle(window time.Duration) *MemoryThrottle {
	return &MemoryThrottle{window: window, now: time.Now, entries: map[string]memEntry{}}
}

func (t *MemoryThrottle) Failures(_ context.Context, key string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current(key).count, nil
}

func (t *MemoryThrottle) RecordFailure(_ context.Context, key string) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.current(key)
	if e.count == 0 {
		e.expires = t.now().Add(t.window)
	}
	e.count++
	t.entries[key] = e
	return e.count, nil
}

func (t *MemoryThrottle) Reset(_ context.Context, key string) error {
	t.mu.Lock()
	delete(t.entries, key)
	t.mu.Unlock()
	return nil
}

// chamar com mu travado
func (t *MemoryThrottle) current(key string) memEntry {
	e, ok := t.entries[key]
	if ok && !t.now().Before(e.expires) {
		delete(t.entries, key)
		return memEntry{}
	}
	return e
}
