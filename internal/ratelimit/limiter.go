// Package ratelimit implements a fixed-window request counter keyed by
// client identifier. State is per-process only: under horizontal scaling
// each instance bounds its own share of traffic, which is a documented
// limitation of the design rather than a defect.
package ratelimit

import (
	"sync"
	"time"
)

const sweepInterval = 60 * time.Second

// Result is the outcome of one admission check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type entry struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests in non-overlapping fixed windows. The zero value
// is not usable; construct with New.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   int
	window  time.Duration
	now     func() time.Time

	stop chan struct{}
	done chan struct{}
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock injects a time source so tests can advance virtual time
// instead of sleeping.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a limiter admitting at most limit requests per window.
func New(limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check admits or rejects one request for the identifier. A fresh window
// starts on the first request, or when the previous window's reset time has
// passed; within a window the count only ever increases.
func (l *Limiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[identifier]
	if !ok || !now.Before(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(l.window)}
		l.entries[identifier] = e
		return Result{Allowed: true, Remaining: l.limit - 1, ResetAt: e.resetAt}
	}

	e.count++
	remaining := l.limit - e.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: e.count <= l.limit, Remaining: remaining, ResetAt: e.resetAt}
}

// Reset drops the identifier's entry unconditionally.
func (l *Limiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, identifier)
}

// Limit returns the configured per-window capacity.
func (l *Limiter) Limit() int {
	return l.limit
}

// Start launches the periodic sweep of expired entries. Idempotent until
// Stop is called.
func (l *Limiter) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go l.sweepLoop(l.stop, l.done)
}

// Stop terminates the sweep loop and waits for it to exit.
func (l *Limiter) Stop() {
	l.mu.Lock()
	stop := l.stop
	done := l.done
	l.stop = nil
	l.done = nil
	l.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

func (l *Limiter) sweepLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep removes entries whose window has elapsed to bound memory. It takes
// the same lock as Check, so it never observes a torn entry.
func (l *Limiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for id, e := range l.entries {
		if !now.Before(e.resetAt) {
			delete(l.entries, id)
		}
	}
}
