// Package server wires the generation engine together: template
// registry, rule set, resolver, orchestrator, and the HTTP/WebSocket
// surface.
package server

import (
	"context"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/uniforge/uniforge/internal/api/http"
	"github.com/uniforge/uniforge/internal/api/middleware"
	"github.com/uniforge/uniforge/internal/api/ws"
	"github.com/uniforge/uniforge/internal/domain/expand"
	"github.com/uniforge/uniforge/internal/domain/job"
	"github.com/uniforge/uniforge/internal/domain/resolve"
	"github.com/uniforge/uniforge/internal/domain/rules"
	"github.com/uniforge/uniforge/internal/domain/template"
	"github.com/uniforge/uniforge/internal/domain/validate"
	"github.com/uniforge/uniforge/internal/infrastructure/config"
	"github.com/uniforge/uniforge/internal/infrastructure/logging"
	"github.com/uniforge/uniforge/internal/infrastructure/monitoring"
	"github.com/uniforge/uniforge/internal/orchestrator"
)

// sweepInterval is how often expired terminal jobs are evicted
const sweepInterval = time.Minute

// Server wraps the HTTP server and engine dependencies
type Server struct {
	router    *gin.Engine
	httpSrv   *nethttp.Server
	orch      *orchestrator.Orchestrator
	templates *template.Registry
	rules     *rules.Set
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
	stopSweep context.CancelFunc
}

// NewServer creates a fully wired server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Development)

	logger.Info("Initializing generation engine",
		zap.String("port", cfg.Server.Port),
		zap.String("pack_dir", cfg.Engine.TemplatePackDir),
	)

	metrics := monitoring.NewMetrics()

	// Template registry: built-in packs first, then any on-disk packs,
	// then freeze so the hot path runs lock-free.
	registry := template.NewRegistry()
	seeder := template.NewSeeder(registry, cfg.Engine.TemplatePackDir)
	if err := seeder.SeedDefaults(); err != nil {
		return nil, fmt.Errorf("failed to seed built-in templates: %w", err)
	}
	if err := seeder.SeedPacks(); err != nil {
		logger.Warn("Failed to load template packs", zap.Error(err))
	}
	registry.Freeze()
	metrics.SetTemplatesRegistered(registry.Len())
	logger.Info("Template registry frozen", zap.Int("templates", registry.Len()))

	ruleSet := rules.NewSet()
	if err := rules.RegisterDefaults(ruleSet); err != nil {
		return nil, fmt.Errorf("failed to register rules: %w", err)
	}
	ruleSet.Freeze()
	logger.Info("Rule set frozen", zap.Int("rules", ruleSet.Len()))

	// The collaborator is optional; without it, hints resolve by keyword
	var collaborator resolve.Collaborator
	if cfg.Resolver.CollaboratorURL != "" {
		collaborator = resolve.NewClient(cfg.Resolver.CollaboratorURL, cfg.Resolver.Timeout)
		logger.Info("Collaborator enabled", zap.String("url", cfg.Resolver.CollaboratorURL))
	}

	resolver := resolve.New(collaborator, logger)
	expander := expand.New(registry)
	validator := validate.New(ruleSet)
	store := job.NewStore(cfg.Engine.JobRetention)
	events := orchestrator.NewBus(cfg.Engine.EventBuffer)

	orch := orchestrator.New(
		resolver, expander, validator, store, events,
		logger, cfg.Engine.MaxConcurrentPlatforms,
	).WithMetrics(metrics)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go orch.SweepLoop(sweepCtx, sweepInterval)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(nil))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	handlers := http.NewHandler(orch, registry, ruleSet, metrics, logger)
	wsHandler := ws.NewHandler(orch, metrics, logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	router.POST("/generate", handlers.Submit)
	router.GET("/jobs", handlers.ListJobs)
	router.GET("/jobs/:id", handlers.GetJob)
	router.POST("/jobs/:id/cancel", handlers.CancelJob)

	router.GET("/templates", handlers.ListTemplates)
	router.GET("/rules", handlers.ListRules)

	router.GET("/stream", wsHandler.Stream)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized")

	return &Server{
		router:    router,
		orch:      orch,
		templates: registry,
		rules:     ruleSet,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
		stopSweep: stopSweep,
	}, nil
}

// Router exposes the Gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))

	s.httpSrv = &nethttp.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.httpSrv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight HTTP requests and stops background work.
// Running jobs continue to their terminal status in memory but are not
// awaited.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	s.stopSweep()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP shutdown failed", zap.Error(err))
			return err
		}
	}

	s.logger.Sync()
	return nil
}
