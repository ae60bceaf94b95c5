package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menulens/core/internal/modules/auth"
	"github.com/menulens/core/internal/modules/enrichment"
	"github.com/menulens/core/internal/modules/extraction"
	"github.com/menulens/core/internal/modules/menu"
	"github.com/menulens/core/internal/modules/storage/photos"
	"github.com/menulens/core/internal/modules/translate"
	"github.com/menulens/core/internal/modules/user"
	"github.com/menulens/core/internal/pkg/progress"
	"github.com/menulens/core/internal/pkg/response"
)

func (a *App) registerRoutes() error {
	extractionClient, err := extraction.NewClient(a.cfg.AI)
	if err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	extractor := extraction.NewExtractor(
		extraction.NewTesseractRecognizer(a.cfg.OCR),
		extractionClient,
		a.logger,
	)

	enricher := enrichment.NewEnricher(a.cfg.Search, a.rc, a.logger)
	tracker := progress.NewTracker(a.rc)

	archiver, err := photos.New(a.cfg.S3)
	if err != nil {
		return fmt.Errorf("object storage: %w", err)
	}

	menuService := menu.NewService(menu.NewStore(a.db), extractor, enricher, tracker, archiverOrNil(archiver), a.logger)

	a.engine.GET("/", a.info)
	a.engine.GET("/api", a.info)
	a.engine.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": time.Now().UnixMilli()})
	})
	a.engine.GET("/api/health", a.health)

	api := a.engine.Group("/api")
	auth.NewHandler(auth.NewService(a.db), a.logger).RegisterRoutes(api)
	user.NewHandler(a.db).RegisterRoutes(api)
	menu.NewHandler(menuService, a.logger).RegisterRoutes(api)
	translate.NewHandler(translate.NewService(a.cfg.AI, a.db), a.logger).RegisterRoutes(api)

	a.engine.NoRoute(func(c *gin.Context) { response.NotFound(c) })
	a.engine.NoMethod(func(c *gin.Context) { response.MethodNotAllowed(c) })
	return nil
}

// archiverOrNil keeps a disabled archiver from becoming a non-nil interface
// holding a nil pointer.
func archiverOrNil(a *photos.Archiver) menu.PhotoArchiver {
	if a == nil {
		return nil
	}
	return a
}

func (a *App) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to MenuLens API!"})
}

func (a *App) health(c *gin.Context) {
	ctx := c.Request.Context()

	dbOK := true
	if sqlDB, err := a.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbOK = false
	}
	redisOK := a.rc.Raw().Ping(ctx).Err() == nil

	status := http.StatusOK
	if !dbOK || !redisOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"database": dbOK, "redis": redisOK})
}
