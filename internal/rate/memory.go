package rate

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter es un fixed window en proceso sobre go-cache. Cada ventana
// es una entrada que expira sola.
type MemoryLimiter struct {
	mu     sync.Mutex
	cache  *gocache.Cache
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		cache:  gocache.New(window, 2*window),
		max:    int64(max),
		window: window,
		now:    time.Now,
	}
}

type windowCount struct {
	hits    int64
	resetAt time.Time
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	wc := &windowCount{resetAt: now.Add(l.window)}
	if v, ok := l.cache.Get(key); ok {
		if cur := v.(*windowCount); now.Before(cur.resetAt) {
			wc = cur
		}
	}
	wc.hits++
	l.cache.Set(key, wc, wc.resetAt.Sub(now))
	return buildResult(wc.hits, l.max, wc.resetAt.Sub(now), l.window), nil
}
