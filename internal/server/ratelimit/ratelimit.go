// Package ratelimit enforces per-client request budgets on the API using
// token buckets. Scoring endpoints burn CPU and auth endpoints invite brute
// force, so both get tighter budgets than plain CRUD.
package ratelimit

import (
	"sync"
	"time"
)

// idleEviction is how long a client/endpoint bucket may sit untouched before
// the janitor drops it.
const idleEviction = time.Hour

// Info reports the budget state for one decision. ResetTime is when the
// bucket is full again; RetryAfter is how long until the next single request
// would pass, and is zero when the request was allowed.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket is a token bucket. level refills continuously at fillRate tokens
// per second up to cap; each allowed request costs one token.
type bucket struct {
	mu       sync.Mutex
	level    float64
	cap      float64
	fillRate float64
	last     time.Time
}

func newBucket(capacity int, fillRate float64) *bucket {
	return &bucket{
		level:    float64(capacity),
		cap:      float64(capacity),
		fillRate: fillRate,
		last:     time.Now(),
	}
}

// take refills, then tries to spend one token. It reports the decision and
// the post-decision state in a single critical section so the remaining
// count always matches the decision it accompanies.
func (b *bucket) take() (allowed bool, remaining int, reset time.Time, retry time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.level = min(b.cap, b.level+now.Sub(b.last).Seconds()*b.fillRate)
	b.last = now

	if b.level >= 1 {
		b.level--
		allowed = true
	} else if b.fillRate > 0 {
		retry = time.Duration((1 - b.level) / b.fillRate * float64(time.Second))
	}

	remaining = int(b.level)
	reset = now
	if b.level < b.cap && b.fillRate > 0 {
		reset = now.Add(time.Duration((b.cap - b.level) / b.fillRate * float64(time.Second)))
	}
	return allowed, remaining, reset, retry
}

// entry pairs a bucket with its last use, for idle eviction.
type entry struct {
	bucket   *bucket
	lastSeen time.Time
}

// Limiter hands out budget decisions keyed by client, method and path.
type Limiter struct {
	cfg      *Config
	mu       sync.Mutex
	entries  map[string]*entry
	janitor  *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// NewLimiter builds a limiter from cfg. A nil cfg means the built-in
// defaults with limiting enabled.
func NewLimiter(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		cfg:     cfg,
		entries: make(map[string]*entry),
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		l.janitor = time.NewTicker(cfg.CleanupInterval)
		l.done = make(chan struct{})
		go l.run()
	}
	return l
}

// Allow decides whether clientID may hit method+path right now.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.cfg.Enabled || l.cfg.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.cfg.Blacklist[clientID] {
		return false, Info{}
	}

	rule := l.cfg.ruleFor(path, method)
	if rule.Limit <= 0 {
		// Unlimited endpoint, e.g. the health check.
		return true, Info{Allowed: true}
	}

	b := l.bucketFor(clientID+" "+method+" "+path, rule)
	allowed, remaining, reset, retry := b.take()
	return allowed, Info{
		Allowed:    allowed,
		Limit:      rule.Limit,
		Remaining:  remaining,
		ResetTime:  reset,
		RetryAfter: retry,
	}
}

// bucketFor returns the bucket for key, creating it from rule on first use.
func (l *Limiter) bucketFor(key string, rule *EndpointConfig) *bucket {
	burst := rule.Burst
	if burst <= 0 {
		burst = rule.Limit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &entry{bucket: newBucket(burst, float64(rule.Limit)/rule.Window.Seconds())}
		l.entries[key] = e
	}
	e.lastSeen = time.Now()
	return e.bucket
}

func (l *Limiter) run() {
	for {
		select {
		case <-l.janitor.C:
			l.sweep(time.Now().Add(-idleEviction))
		case <-l.done:
			return
		}
	}
}

// sweep drops buckets not used since cutoff.
func (l *Limiter) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
		}
	}
}

// Stop ends the janitor goroutine. The limiter keeps answering Allow calls,
// and calling Stop again is a no-op.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.janitor != nil {
			l.janitor.Stop()
			close(l.done)
		}
	})
}
