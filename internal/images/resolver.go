package images

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
)

// Attempt records one probe.
type Attempt struct {
	URL string
	Err error
}

// Result is the outcome of walking a chain. When Exhausted is true no candidate loaded
// and the placeholder block is shown instead of an image element.
type Result struct {
	Candidate Candidate
	Exhausted bool
	Attempts  []Attempt
}

// Resolver walks candidate chains with a Prober.
type Resolver struct {
	prober Prober
}

func NewResolver(p Prober) *Resolver {
	return &Resolver{prober: p}
}

// Resolve probes candidates in order and stops at the first one that loads. The cursor
// only moves forward. Probe failures are not errors; they surface as Exhausted.
func (r *Resolver) Resolve(ctx context.Context, chain Chain) Result {
	ctx, span := observability.StartSpan(ctx, "images.resolve", attribute.Int("images.candidates", len(chain)))
	logger := observability.FromContext(ctx)
	var res Result
	for cursor := 0; cursor < len(chain); cursor++ {
		if ctx.Err() != nil {
			break
		}
		c := chain[cursor]
		err := r.prober.Probe(ctx, c)
		res.Attempts = append(res.Attempts, Attempt{URL: c.URL, Err: err})
		if err == nil {
			res.Candidate = c
			span.SetAttributes(
				attribute.String("images.resolved", c.URL),
				attribute.Int("images.attempts", len(res.Attempts)),
			)
			observability.EndSpan(span, nil)
			return res
		}
		logger.Debug("images: candidate failed", zap.String("url", c.URL), zap.Error(err))
	}
	res.Exhausted = true
	span.SetAttributes(attribute.Bool("images.exhausted", true), attribute.Int("images.attempts", len(res.Attempts)))
	observability.EndSpan(span, nil)
	return res
}

// ResolveAll resolves every chain with at most limit probes chains in flight.
// results[i] belongs to chains[i].
func (r *Resolver) ResolveAll(ctx context.Context, chains []Chain, limit int) []Result {
	results := make([]Result, len(chains))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, ch := range chains {
		g.Go(func() error {
			results[i] = r.Resolve(ctx, ch)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
