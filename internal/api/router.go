package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"momentum-backtest/internal/api/handlers"
	"momentum-backtest/internal/api/middleware"
	"momentum-backtest/internal/config"
	"momentum-backtest/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter wires middleware, handlers and the optional static frontend.
func NewRouter(cfg *config.ServerConfig, runs *data.RunCache, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))

	spreadHandler := handlers.NewSpreadHandler(runs, log, cfg.MaxUploadBytes)
	optionsHandler := handlers.NewOptionsHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cached_runs": runs.Len()})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/spread", spreadHandler.RunSpread)
		api.GET("/spread/:id", spreadHandler.GetRun)
		api.GET("/spread/:id/csv", spreadHandler.GetRunCSV)

		api.GET("/options", optionsHandler.ListOptions)
	}

	serveStatic(router, cfg.StaticDir, log)
	return router
}

func serveStatic(router *gin.Engine, staticDir string, log logrus.FieldLogger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	}
	if staticDir == "" {
		router.NoRoute(notFound)
		return
	}
	if info, err := os.Stat(staticDir); err != nil || !info.IsDir() {
		log.WithField("dir", staticDir).Info("static directory not found, skipping static file serving")
		router.NoRoute(notFound)
		return
	}

	router.Static("/assets", filepath.Join(staticDir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))

	// Non-API routes fall through to the SPA entry point.
	index := filepath.Join(staticDir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			notFound(c)
			return
		}
		c.File(index)
	})
	log.WithField("dir", staticDir).Info("serving static files")
}
