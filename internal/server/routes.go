package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/xpanvictor/vietrans/docs"
	"github.com/xpanvictor/vietrans/internal/config"
	"github.com/xpanvictor/vietrans/internal/domains/translation"
	"github.com/xpanvictor/vietrans/internal/handlers"
	"github.com/xpanvictor/vietrans/internal/metrics"
	"github.com/xpanvictor/vietrans/pkg/Logger"
)

type Dependencies struct {
	TranslationService translation.Service
	Models             handlers.ModelInfo
	Metrics            *metrics.Metrics
	Logger             *Logger.Logger
	Configs            *config.Settings
}

func NewServerDependencies(
	translationService translation.Service,
	models handlers.ModelInfo,
	m *metrics.Metrics,
	logger *Logger.Logger,
	config *config.Settings,
) Dependencies {
	return Dependencies{
		TranslationService: translationService,
		Models:             models,
		Metrics:            m,
		Logger:             logger,
		Configs:            config,
	}
}

// NewRouter builds the gin engine with middleware and every route mounted.
func NewRouter(cfg *config.Settings, dep Dependencies) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Upload.MaxBytes
	r.Use(
		handlers.RequestIDMiddleware(),
		handlers.RequestLoggerMiddleware(dep.Logger),
		handlers.ErrorHandlerMiddleware(dep.Logger),
		handlers.CORSMiddleware(),
	)

	InitializeRoutes(cfg, r, dep)
	return r
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	health := handlers.NewHealthHandler(dep.Models)
	r.GET("/", health.Health)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", gin.WrapH(dep.Metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	th := handlers.NewTranslationHandler(dep.TranslationService, cfg.Upload.MaxBytes, dep.Logger)

	api := r.Group("/api")
	{
		api.POST("/audio/upload", th.UploadAudio)
		api.OPTIONS("/audio/upload", handlers.Preflight)
		api.POST("/text/translate", th.TranslateText)
		api.OPTIONS("/text/translate", handlers.Preflight)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{Error: "not found"})
	})
}
