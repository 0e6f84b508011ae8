package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/support-reports/internal/config"
	"github.com/jonesrussell/support-reports/internal/handler"
	"github.com/jonesrussell/support-reports/internal/middleware"
	"github.com/jonesrussell/support-reports/internal/telemetry"
)

// SetupRoutes configures the report and export routes. Exports are rate
// limited per IP; the report view is not.
func SetupRoutes(
	router *gin.Engine,
	reportHandler *handler.ReportHandler,
	rateLimit config.RateLimitConfig,
	done <-chan struct{},
) {
	router.GET("/metrics", gin.WrapH(telemetry.Handler()))

	reports := router.Group("/support/reports")
	reports.GET("", reportHandler.HandleReport)

	window := time.Duration(rateLimit.WindowSeconds) * time.Second
	exports := reports.Group("/export")
	exports.Use(middleware.RateLimiter(rateLimit.MaxExportsPerMinute, window, done))
	exports.GET("/categories.csv", reportHandler.HandleExportCategories)
	exports.GET("/themes.csv", reportHandler.HandleExportThemes)
	exports.GET("/trend.csv", reportHandler.HandleExportTrend)
	exports.GET("/raw.csv", reportHandler.HandleExportRaw)
}
