package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	app "github.com/JermaineMerritt-ai/Super-Codex-AI-sub005"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/config"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/events"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/gateway"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/guard"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/normalize"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/notify"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/recorder"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/registry"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/runner"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/internal/server"
	"github.com/JermaineMerritt-ai/Super-Codex-AI-sub005/pkg/log"
)

type codex struct {
	cfg        *config.Config
	flowRepo   registry.FlowRepository
	registry   *registry.Registry
	recorder   recorder.Recorder
	hub        *events.Hub
	gateway    *gateway.Gateway
	apiServer  *server.Server
	httpServer *http.Server
	closers    []func() error
	quit       chan os.Signal
}

func main() {
	cfg := config.NewDefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", log.Error(err))
		os.Exit(1)
	}

	s := &codex{
		cfg:  cfg,
		quit: make(chan os.Signal, 1),
	}
	s.setupLogging()

	if err := s.run(); err != nil {
		slog.Error("Failed to start application", log.Error(err))
		os.Exit(1)
	}
}

func (s *codex) run() error {
	if err := s.initializeStores(); err != nil {
		return err
	}

	s.initializeGateway()
	s.startServer()

	signal.Notify(s.quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.quit)
	<-s.quit

	s.shutdown()
	return nil
}

func (s *codex) setupLogging() {
	level := log.ParseLevel(s.cfg.LogLevel)
	env := os.Getenv("ENV")
	logger := log.NewWithLevel(app.Name, env, app.Version, level)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level)

	slog.Info("Orchestrator starting",
		slog.String("log_level", s.cfg.LogLevel),
		slog.String("api_host", s.cfg.APIHost),
		slog.Int("api_port", s.cfg.APIPort),
		slog.String("flow_redis_addr", s.cfg.FlowStore.Addr),
		slog.String("archive_bucket", s.cfg.ArchiveBucketURL))
}

func (s *codex) initializeStores() error {
	if s.cfg.FlowStore.Addr != "" {
		repo := registry.NewRedisRepository(s.cfg.FlowStore)
		s.flowRepo = repo
		s.closers = append(s.closers, repo.Close)
	} else {
		s.flowRepo = registry.NewMemoryRepository()
	}
	s.registry = registry.New(s.flowRepo)

	if s.cfg.ArchiveBucketURL != "" {
		rec, err := recorder.NewBlob(
			context.Background(), s.cfg.ArchiveBucketURL, "",
		)
		if err != nil {
			return err
		}
		s.recorder = rec
		s.closers = append(s.closers, rec.Close)
	} else {
		s.recorder = recorder.NewMemory()
	}
	return nil
}

func (s *codex) initializeGateway() {
	s.hub = events.NewHub()

	notifier := notify.NewHTTPNotifier(s.cfg.NotifyTimeout)
	run := runner.New(s.cfg, notifier)
	guards := guard.NewPipeline(
		guard.NewPrivacy(s.cfg.Privacy),
		guard.NewPolicy(s.cfg.Approvals),
	)

	s.gateway = gateway.New(s.cfg, gateway.Dependencies{
		Registry:   s.registry,
		Runner:     run,
		Guards:     guards,
		Normalizer: normalize.New(),
		Recorder:   s.recorder,
		Hub:        s.hub,
	})
}

func (s *codex) startServer() {
	s.apiServer = server.NewServer(s.gateway, s.registry, s.hub)
	mux := s.apiServer.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.APIHost, s.cfg.APIPort),
		Handler: mux,
	}

	go func() {
		slog.Info("HTTP server starting",
			slog.String("addr", s.httpServer.Addr))
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", log.Error(err))
		}
	}()
}

func (s *codex) shutdown() {
	slog.Info("Shutting down")

	ctx, cancel := context.WithTimeout(
		context.Background(), s.cfg.ShutdownTimeout,
	)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", log.Error(err))
	}

	s.apiServer.CloseWebSockets()
	s.hub.Close()

	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			slog.Error("Failed to close resource", log.Error(err))
		}
	}

	slog.Info("Server exited")
}
