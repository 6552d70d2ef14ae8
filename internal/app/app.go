package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/internal/config"
	"github.com/temcen/nutrirec/internal/database"
	"github.com/temcen/nutrirec/internal/handlers"
	"github.com/temcen/nutrirec/internal/middleware"
	"github.com/temcen/nutrirec/internal/services"
)

const defaultCatalogTimeout = 30 * time.Second

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	catalog  *catalog.Holder
	services *services.Services
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	// Initialize database connections
	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	// The catalog must load before anything is served
	loader, err := catalog.NewLoader(cfg, db.PG)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure catalog source: %w", err)
	}

	timeout := cfg.Catalog.Timeout
	if timeout <= 0 {
		timeout = defaultCatalogTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	store, err := catalog.NewFromLoader(ctx, loader)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	app.catalog = catalog.NewHolder(store, loader, app.logger)

	app.logger.WithFields(logrus.Fields{
		"source":  cfg.Catalog.Source,
		"records": store.Len(),
		"version": store.Version(),
	}).Info("Catalog loaded")

	// Initialize services
	services, err := services.New(cfg, app.logger, db, app.catalog)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = services
	services.Metrics.RecordCatalog(store.Len())
	if cfg.Monitoring.Enabled {
		services.Health.Start()
	}

	// Initialize handlers
	app.handlers = handlers.New(app.logger, services, cfg)

	// Setup router
	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if err := a.services.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing services")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	validator := middleware.NewValidationMiddleware(a.config.Recommendation.MaxTopN)

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))
	router.Use(middleware.Security())
	router.Use(middleware.CompressionMiddleware())

	router.GET("/health", a.handlers.Health.Check)

	if a.config.Monitoring.Enabled {
		router.GET(a.config.Monitoring.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api/v1")
	api.Use(validator.ValidateHeaders())
	api.Use(validator.ValidateQueryParams())
	{
		foods := api.Group("/foods")
		{
			foods.GET("/sample", a.handlers.Food.Sample)
			foods.GET("/suggest", a.handlers.Food.Suggest)
			foods.GET("/recommendations", a.handlers.Food.Recommendations)
		}

		api.POST("/preferences/anchor", a.handlers.Food.PreferenceAnchor)

		// Sessions live in process memory only
		sessions := api.Group("/sessions")
		{
			sessions.POST("", a.handlers.Session.Create)
			sessions.GET("/:id", a.handlers.Session.Get)
			sessions.DELETE("/:id", a.handlers.Session.Delete)
			sessions.POST("/:id/choice", a.handlers.Session.Choose)
			sessions.POST("/:id/food", a.handlers.Session.SubmitFoodName)
			sessions.POST("/:id/preferences", a.handlers.Session.SubmitPreferences)
			sessions.GET("/:id/recommendations", a.handlers.Session.Recommendations)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/catalog", a.handlers.Admin.GetCatalog)
			admin.POST("/catalog/reload", a.handlers.Admin.ReloadCatalog)
		}
	}

	a.router = router
}
