// Package ratelimiter implements a token bucket limiter with pluggable
// storage and an HTTP middleware.
//
// Claim endpoints are limited per client IP.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//	bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//	    Capacity:       10,
//	    RefillRate:     1,
//	    RefillInterval: 6 * time.Second,
//	})
//	r.With(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP)).Get("/api/token", h)
package ratelimiter
