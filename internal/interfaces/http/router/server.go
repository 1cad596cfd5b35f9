package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/erp/catalogsync/internal/infrastructure/logger"
	"github.com/erp/catalogsync/internal/interfaces/http/handler"
	"github.com/erp/catalogsync/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config holds HTTP server settings
type Config struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxBodySize    int64
	Release        bool
	TracingEnabled bool
	ServiceName    string
}

// NewEngine builds the gin engine with the middleware chain and every route:
// GET /health and the /api/v1/sync group.
func NewEngine(cfg Config, sync *handler.SyncHandler, health *handler.HealthHandler, log *zap.Logger) *gin.Engine {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.MaxBodySize))

	engine.GET("/health", health.Health)

	syncRoutes := NewDomainGroup("sync", "/sync")
	syncRoutes.POST("/products", sync.SyncBatch)
	syncRoutes.POST("/products/:sku", sync.SyncProduct)
	syncRoutes.POST("/categories", sync.SyncCategories)
	syncRoutes.POST("/product-types", sync.SyncProductTypes)

	NewRouter(engine, WithAPIVersion("v1")).Register(syncRoutes).Setup()
	return engine
}

// Server runs the engine until its context is cancelled
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer wraps engine in an http.Server
func NewServer(cfg Config, engine *gin.Engine, log *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: log.Named("http"),
	}
}

// Run serves until ctx is done, then shuts down gracefully within 30 seconds
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
