// Package rate implementa limitadores fixed-window para el endpoint de reset.
//
// RedisLimiter comparte el contador entre réplicas; MemoryLimiter (go-cache)
// es para una sola instancia o desarrollo.
package rate

import (
	"context"
	"time"
)

// Result es el resultado de consultar el limiter.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

// Limiter cuenta un hit para key y decide si se permite.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

func buildResult(hits, max int64, ttl, window time.Duration) Result {
	remaining := max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 {
			res.RetryAfter = window
		}
	}
	return res
}
