package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/DimasAjiNarindra/mouse-recommender/internal/config"
	"github.com/DimasAjiNarindra/mouse-recommender/internal/observability"
)

const generationPruneInterval = time.Minute

func main() {
	var (
		addr     string
		tmplPath string
		pubPath  string
		envFile  string
	)
	flag.StringVar(&addr, "addr", "", "HTTP listen address (overrides MOUSE_WEB_ADDR)")
	flag.StringVar(&tmplPath, "templates", "", "templates directory")
	flag.StringVar(&pubPath, "public", "", "public assets directory")
	flag.StringVar(&envFile, "env-file", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := config.Load(config.WithEnvFile(envFile))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if tmplPath != "" {
		cfg.Paths.Templates = tmplPath
	}
	if pubPath != "" {
		cfg.Paths.Public = pubPath
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, cleanup, err := newServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}
	defer cleanup()

	go s.gens.Run(observability.WithLogger(ctx, logger), generationPruneInterval)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("web listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("environment", cfg.Environment),
		zap.Bool("dev_mode", cfg.DevMode),
		zap.Bool("fixtures", s.fixtures),
		zap.String("image_store", s.store.Kind()),
	)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		cancel()
		stop()
		cleanup()
		os.Exit(1)
	}
	logger.Info("web stopped")
}
