package images

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/webp"
)

const maxProbeBytes = 1 << 20

// Prober checks whether a candidate can actually be loaded. A nil error means loadable.
type Prober interface {
	Probe(ctx context.Context, c Candidate) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, c Candidate) error

func (f ProberFunc) Probe(ctx context.Context, c Candidate) error { return f(ctx, c) }

// decodeHeader reads just enough of r to recognise a jpeg, png, gif or webp image.
func decodeHeader(r io.Reader) error {
	cfg, format, err := image.DecodeConfig(io.LimitReader(r, maxProbeBytes))
	if err != nil {
		return fmt.Errorf("images: decode: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("images: empty %s image", format)
	}
	return nil
}

// StoreProber opens the candidate in the image store and decodes its header.
type StoreProber struct {
	Store Store
}

func (p StoreProber) Probe(ctx context.Context, c Candidate) error {
	obj, err := p.Store.Open(ctx, c.Filename)
	if err != nil {
		return err
	}
	defer obj.Close()
	return decodeHeader(obj)
}

// HTTPProber fetches the candidate URL from Origin and decodes the image header.
type HTTPProber struct {
	Origin string
	Client *http.Client
}

func NewHTTPProber(origin string, timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		Origin: strings.TrimRight(origin, "/"),
		Client: &http.Client{Timeout: timeout},
	}
}

func (p *HTTPProber) Probe(ctx context.Context, c Candidate) error {
	target := p.Origin + "/" + strings.TrimLeft(c.URL, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "image/*")
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("images: %s: status %d", c.URL, resp.StatusCode)
	}
	return decodeHeader(resp.Body)
}

type probeEntry struct {
	err error
	at  time.Time
}

// CachedProber remembers outcomes per candidate URL for TTL. Context errors are not cached.
type CachedProber struct {
	next Prober
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]probeEntry
}

func NewCachedProber(next Prober, ttl time.Duration) *CachedProber {
	return &CachedProber{next: next, ttl: ttl, now: time.Now, entries: map[string]probeEntry{}}
}

func (p *CachedProber) Probe(ctx context.Context, c Candidate) error {
	if p.ttl <= 0 {
		return p.next.Probe(ctx, c)
	}
	now := p.now()
	p.mu.Lock()
	e, ok := p.entries[c.URL]
	p.mu.Unlock()
	if ok && now.Sub(e.at) < p.ttl {
		return e.err
	}
	err := p.next.Probe(ctx, c)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	p.mu.Lock()
	p.entries[c.URL] = probeEntry{err: err, at: now}
	if len(p.entries) > 4096 {
		p.evictLocked(now)
	}
	p.mu.Unlock()
	return err
}

func (p *CachedProber) evictLocked(now time.Time) {
	for k, e := range p.entries {
		if now.Sub(e.at) >= p.ttl {
			delete(p.entries, k)
		}
	}
}

// WithTimeout bounds every probe of p by d.
func WithTimeout(p Prober, d time.Duration) Prober {
	if d <= 0 {
		return p
	}
	return ProberFunc(func(ctx context.Context, c Candidate) error {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return p.Probe(ctx, c)
	})
}
