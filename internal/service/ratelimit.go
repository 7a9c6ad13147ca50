package service

import (
	"sync"
	"time"
)

// TokenBucket is an in-memory per-key rate limiter used to throttle
// credential endpoints by client address. It is safe for concurrent use.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64
	done     chan struct{}
	once     sync.Once
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewTokenBucket creates a limiter allowing bursts of capacity per key,
// refilling at rate tokens per second. Call Close to stop the background
// sweep of idle keys.
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	tb := &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		done:     make(chan struct{}),
	}
	go tb.sweep(5*time.Minute, 10*time.Minute)
	return tb
}

// Allow consumes one token for key and reports whether one was available.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	b.tokens = min(b.tokens+now.Sub(b.last).Seconds()*tb.rate, tb.capacity)
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Close stops the background sweep. It is safe to call more than once.
func (tb *TokenBucket) Close() {
	tb.once.Do(func() { close(tb.done) })
}

func (tb *TokenBucket) sweep(every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-tb.done:
			return
		case now := <-ticker.C:
			tb.mu.Lock()
			for key, b := range tb.buckets {
				if now.Sub(b.last) > idle {
					delete(tb.buckets, key)
				}
			}
			tb.mu.Unlock()
		}
	}
}
