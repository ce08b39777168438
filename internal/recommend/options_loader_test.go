package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	calls int
	opts  Options
	err   error
}

func (s *stubSource) Options(context.Context) (Options, error) {
	s.calls++
	return s.opts, s.err
}

func TestDedupePreservesFirstSeenOrder(t *testing.T) {
	assert.Equal(t, []string{"Logitech", "Razer"}, Dedupe([]string{"Logitech", "Razer", "Logitech"}))
	assert.Equal(t, []string{"a"}, Dedupe([]string{"", "a", " ", "a"}))
	assert.Nil(t, Dedupe(nil))
}

func TestOptionsLoaderCachesAndDedupes(t *testing.T) {
	src := &stubSource{opts: Options{Brands: []string{"Logitech", "Razer", "Logitech"}}}
	loader := NewOptionsLoader(src, time.Minute, 0)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	loader.now = func() time.Time { return now }

	opts, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Logitech", "Razer"}, opts.Brands)
	assert.Nil(t, opts.Shapes)

	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	now = now.Add(2 * time.Minute)
	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestOptionsLoaderServesLastGoodValueOnFailure(t *testing.T) {
	src := &stubSource{opts: Options{Brands: []string{"Razer"}}}
	loader := NewOptionsLoader(src, time.Minute, 0)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	loader.now = func() time.Time { return now }

	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	src.err = errors.New("backend down")
	now = now.Add(time.Hour)
	opts, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Razer"}, opts.Brands)
}

func TestOptionsLoaderReturnsErrorWithoutCache(t *testing.T) {
	loader := NewOptionsLoader(&stubSource{err: errors.New("backend down")}, time.Minute, 0)
	_, err := loader.Load(context.Background())
	require.Error(t, err)
}

type gatedSource struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (g *gatedSource) Options(ctx context.Context) (Options, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return Options{Brands: []string{"Razer"}}, nil
	case <-ctx.Done():
		return Options{}, ctx.Err()
	}
}

func TestOptionsLoaderRefreshOutlivesFirstCaller(t *testing.T) {
	src := &gatedSource{started: make(chan struct{}), release: make(chan struct{})}
	loader := NewOptionsLoader(src, time.Minute, time.Second)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := loader.Load(firstCtx)
		firstErr <- err
	}()
	<-src.started

	type result struct {
		opts Options
		err  error
	}
	second := make(chan result, 1)
	go func() {
		opts, err := loader.Load(context.Background())
		second <- result{opts, err}
	}()

	// let the second request join the flight
	time.Sleep(20 * time.Millisecond)
	cancelFirst()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(src.release)
	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, []string{"Razer"}, got.opts.Brands)
}
