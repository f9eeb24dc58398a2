package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Typed 固定 key 的 JSON 缓存；Cache 为 nil 时每次直接回源
type Typed[T any] struct {
	c   *Cache
	key string
	ttl time.Duration
}

func NewTyped[T any](c *Cache, key string, ttl time.Duration) *Typed[T] {
	return &Typed[T]{c: c, key: key, ttl: ttl}
}

func (t *Typed[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, error) {
	if t.c == nil {
		return load(ctx)
	}
	var out T
	b, err := t.c.GetOrLoad(ctx, t.key, t.ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode cached %s: %w", t.key, err)
	}
	return out, nil
}

func (t *Typed[T]) Invalidate(ctx context.Context) error {
	if t.c == nil {
		return nil
	}
	return t.c.Invalidate(ctx, t.key)
}
