package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/config"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/content"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/generation"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/i18n"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/images"
	mw "github.com/DimasAjiNarindra/mouse-recommender/internal/middleware"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/preferences"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/recommend"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/theme"
)

const (
	contentCacheTTL = 5 * time.Minute
	requestTimeout  = 30 * time.Second
	imageFallback   = "/recommendations/image"
)

type recommender interface {
	Recommend(ctx context.Context, prefs preferences.Preferences) (recommend.Response, error)
}

type optionsLoader interface {
	Load(ctx context.Context) (recommend.Options, error)
}

// server holds every dependency the handlers need.
type server struct {
	cfg      config.Config
	logger   *zap.Logger
	bundle   *i18n.Bundle
	views    *views
	client   recommender
	options  optionsLoader
	builder  images.Builder
	resolver *images.Resolver
	store    images.Store
	themes   theme.Store
	gens     *generation.Tracker
	pages    *content.Store
	fixtures bool
}

// newServer wires the dependencies described by cfg. The returned cleanup releases
// external clients and must be called on shutdown.
func newServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*server, func(), error) {
	bundle, err := i18n.Load(cfg.Paths.Locales, cfg.UI.DefaultLang, cfg.UI.SupportedLangs)
	if err != nil {
		return nil, nil, fmt.Errorf("load locales: %w", err)
	}
	v, err := newViews(cfg.Paths.Templates, cfg.DevMode, bundle)
	if err != nil {
		return nil, nil, fmt.Errorf("parse templates: %w", err)
	}

	cleanup := func() {}
	var store images.Store
	if cfg.Images.Bucket != "" {
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("storage client: %w", err)
		}
		gs, err := images.NewGCSStore(client, cfg.Images.Bucket, cfg.Images.BucketPrefix)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		store = gs
		cleanup = func() {
			if err := client.Close(); err != nil {
				logger.Warn("close storage client", zap.Error(err))
			}
		}
	} else {
		store = images.NewDirStore(cfg.Images.Dir)
	}

	var prober images.Prober
	switch cfg.Images.ProbeMode {
	case config.ProbeModeHTTP:
		prober = images.NewHTTPProber(cfg.Images.ProbeOrigin, cfg.Images.ProbeTimeout)
	default:
		prober = images.WithTimeout(images.StoreProber{Store: store}, cfg.Images.ProbeTimeout)
	}
	prober = images.NewCachedProber(prober, cfg.Images.ProbeCacheTTL)

	client := recommend.NewClient(recommend.ClientConfig{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		RetryAttempts: cfg.API.RetryAttempts,
		RetryInitial:  cfg.API.RetryInitial,
		RetryMax:      cfg.API.RetryMax,
	})

	mw.ConfigureSessions(mw.SessionOptions{
		SigningKey: cfg.Session.SigningKey,
		Secure:     cfg.Session.SecureCookies,
		Logger:     logger,
	})

	s := &server{
		cfg:      cfg,
		logger:   logger,
		bundle:   bundle,
		views:    v,
		client:   client,
		options:  recommend.NewOptionsLoader(client, cfg.API.OptionsCacheTTL, cfg.API.Timeout),
		builder:  images.NewBuilder(cfg.Images.URLBase, cfg.Images.Extension, cfg.Images.Placeholder),
		resolver: images.NewResolver(prober),
		store:    store,
		themes:   theme.NewSessionStore(cfg.UI.DefaultTheme),
		gens:     generation.NewTracker(cfg.UI.GenerationIdleTTL, nil),
		pages:    content.NewStore(cfg.Paths.Content, bundle.Fallback(), contentCacheTTL),
		fixtures: client.UsesFixtures(),
	}
	return s, cleanup, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; only deploy behind a proxy that sets it.
	r.Use(chimw.RealIP)
	r.Use(observability.InjectLoggerMiddleware(s.logger))
	r.Use(observability.TraceMiddleware)
	r.Use(observability.RequestLoggerMiddleware)
	r.Use(observability.RecoveryMiddleware(s.logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/health", s.handleHealth)

	r.Handle("/assets/*", mw.AssetsWithCache(filepath.Join(s.cfg.Paths.Public, "assets"), "/assets"))
	img := images.Handler(s.store)
	r.Method(http.MethodGet, "/img/{name}", img)
	r.Method(http.MethodHead, "/img/{name}", img)

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.handleAPIOptions)
		r.Post("/recommendations", s.handleAPIRecommendations)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.HTMX)
		r.Use(mw.Session)
		r.Use(mw.Locale(s.bundle))
		r.Use(mw.CSRF)

		r.Get("/", s.handleHome)
		r.Post("/recommendations", s.handleRecommendations)
		r.Get(imageFallback, s.handleImageFallback)
		r.Post("/theme", s.handleTheme)
		r.Get("/about", s.handleAbout)
		r.NotFound(s.handleNotFound)
	})
	return r
}
