// Package app assembles the HTTP server from config, database, Redis, and
// the feature modules.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/menulens/core/internal/config"
	"github.com/menulens/core/internal/database"
	"github.com/menulens/core/internal/middleware"
	"github.com/menulens/core/internal/pkg/jwt"
	"github.com/menulens/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	cfg    *config.AppConfig
	db     *gorm.DB
	rc     *redis.Client
	logger *zap.Logger
	engine *gin.Engine
	server *http.Server
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	jwt.SetSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a := &App{cfg: cfg, db: db, rc: rc, logger: logger}
	a.engine = a.buildEngine()
	if err := a.registerRoutes(); err != nil {
		return nil, err
	}

	a.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

func (a *App) buildEngine() *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery())
	engine.Use(middleware.Logger(a.logger))

	corsCfg := cors.DefaultConfig()
	if len(a.cfg.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = a.cfg.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "x-idempotence")
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	engine.Use(cors.New(corsCfg))

	engine.Use(middleware.OptionalAuth())
	engine.Use(middleware.RateLimit(a.rc.Raw()))
	engine.Use(middleware.Idempotence(a.rc.Raw()))
	return engine
}

// Run serves until the context is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return a.server.Shutdown(shutdownCtx)
}

// Engine exposes the router for tests.
func (a *App) Engine() *gin.Engine { return a.engine }
