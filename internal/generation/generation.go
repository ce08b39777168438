// Package generation tracks a per-session render counter so that deferred work started
// for an older form submission can tell it has been superseded.
package generation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
)

type entry struct {
	gen  uint64
	seen time.Time
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	now      func() time.Time
	idleTTL  time.Duration
	sessions map[string]*entry
}

func NewTracker(idleTTL time.Duration, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		now:      now,
		idleTTL:  idleTTL,
		sessions: make(map[string]*entry),
	}
}

// Advance starts a new render cycle for session and returns its generation.
func (t *Tracker) Advance(session string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.sessions[session]
	if !ok {
		e = &entry{}
		t.sessions[session] = e
	}
	e.gen++
	e.seen = t.now()
	return e.gen
}

// Current returns the latest generation of session, 0 when unknown.
func (t *Tracker) Current(session string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.sessions[session]; ok {
		return e.gen
	}
	return 0
}

// IsCurrent reports whether gen is still the latest generation for session.
// Unknown sessions (pruned, or a restarted process) have nothing newer, so any gen is current.
func (t *Tracker) IsCurrent(session string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.sessions[session]
	if !ok {
		return true
	}
	e.seen = t.now()
	return gen == e.gen
}

// Prune drops sessions idle for longer than the TTL and returns how many were removed.
func (t *Tracker) Prune() int {
	if t.idleTTL <= 0 {
		return 0
	}
	cutoff := t.now().Add(-t.idleTTL)
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for id, e := range t.sessions {
		if e.seen.Before(cutoff) {
			delete(t.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of tracked sessions.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}

// Run prunes on every tick until ctx is done, logging through the logger carried by ctx.
func (t *Tracker) Run(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := t.Prune(); n > 0 {
				observability.FromContext(ctx).Debug("generation: pruned idle sessions",
					zap.Int("pruned", n),
					zap.Int("tracked", t.Len()),
				)
			}
		}
	}
}
