package recommend

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
)

// OptionsSource fetches fresh options; *Client implements it.
type OptionsSource interface {
	Options(ctx context.Context) (Options, error)
}

// OptionsLoader caches deduplicated options for a TTL. When a refresh fails it keeps
// serving the last good value.
type OptionsLoader struct {
	src     OptionsSource
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
	group   singleflight.Group

	mu      sync.RWMutex
	cached  Options
	fetched time.Time
	loaded  bool
}

// NewOptionsLoader builds a loader. timeout bounds a single refresh; zero means the
// client default.
func NewOptionsLoader(src OptionsSource, ttl, timeout time.Duration) *OptionsLoader {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OptionsLoader{src: src, ttl: ttl, timeout: timeout, now: time.Now}
}

// Load returns cached options when fresh, otherwise refreshes them.
func (l *OptionsLoader) Load(ctx context.Context) (Options, error) {
	l.mu.RLock()
	cached, fetched, loaded := l.cached, l.fetched, l.loaded
	l.mu.RUnlock()
	if loaded && l.ttl > 0 && l.now().Sub(fetched) < l.ttl {
		return cached, nil
	}

	// shared by every waiting request; detached from the caller's cancellation
	ch := l.group.DoChan("options", func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		return l.refresh(rctx)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return Options{}, ctx.Err()
	case res = <-ch:
	}
	v, err := res.Val, res.Err
	if err != nil {
		if loaded {
			observability.FromContext(ctx).Warn("options: refresh failed, serving cached value",
				zap.Error(err),
				zap.Duration("age", l.now().Sub(fetched)),
			)
			return cached, nil
		}
		return Options{}, err
	}
	return v.(Options), nil
}

func (l *OptionsLoader) refresh(ctx context.Context) (Options, error) {
	opts, err := l.src.Options(ctx)
	if err != nil {
		return Options{}, err
	}
	if missing := opts.Missing(); len(missing) > 0 {
		observability.FromContext(ctx).Warn("options: backend response is missing fields", zap.Strings("fields", missing))
	}
	opts = opts.Deduped()
	l.mu.Lock()
	l.cached = opts
	l.fetched = l.now()
	l.loaded = true
	l.mu.Unlock()
	return opts, nil
}
