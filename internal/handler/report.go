// Package handler holds the gin handlers for the report view and exports.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/support-reports/internal/config"
	"github.com/jonesrussell/support-reports/internal/domain"
	"github.com/jonesrussell/support-reports/internal/logger"
	"github.com/jonesrussell/support-reports/internal/report"
	"github.com/jonesrussell/support-reports/internal/telemetry"
)

// ReportService is the slice of the report core the handlers consume.
type ReportService interface {
	Report(ctx context.Context, f report.Filter, themeLimit int) (domain.Report, error)
	Categories(ctx context.Context, f report.Filter) ([]domain.CategoryCount, error)
	Themes(ctx context.Context, f report.Filter, limit int) ([]domain.ThemeCount, error)
	Trend(ctx context.Context, f report.Filter) ([]domain.TrendPoint, error)
	StreamRaw(ctx context.Context, f report.Filter, limit int, fn func(domain.SupportRecord) error) error
}

// ReportHandler serves the interactive report and the CSV exports.
type ReportHandler struct {
	svc     ReportService
	limits  config.ReportConfig
	logger  logger.Logger
	metrics *telemetry.Metrics
}

// NewReportHandler creates a ReportHandler with the given dependencies.
func NewReportHandler(
	svc ReportService,
	limits config.ReportConfig,
	log logger.Logger,
	metrics *telemetry.Metrics,
) *ReportHandler {
	return &ReportHandler{
		svc:     svc,
		limits:  limits,
		logger:  log,
		metrics: metrics,
	}
}

// HandleReport returns all five aggregate views for the request's filter
// state, with the theme list capped at the interactive display limit.
func (h *ReportHandler) HandleReport(c *gin.Context) {
	f, ok := h.parseFilter(c)
	if !ok {
		return
	}

	start := time.Now()
	rep, err := h.svc.Report(c.Request.Context(), f, h.limits.ThemeDisplayLimit)
	if err != nil {
		h.logger.Error("Failed to compute report", logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data source unavailable"})
		return
	}

	h.metrics.ReportsComputed.Inc()
	h.metrics.ReportDuration.Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, gin.H{
		"kpis":       rep.KPIs,
		"categories": rep.Categories,
		"themes":     rep.Themes,
		"trend":      rep.Trend,
		"products":   rep.Products,
		"filters": gin.H{
			"start":   f.StartString(),
			"end":     f.EndString(),
			"product": f.Product,
		},
	})
}

// parseFilter normalizes the request's filter inputs. On invalid input it
// writes a 400 response and returns ok=false; no query runs.
func (h *ReportHandler) parseFilter(c *gin.Context) (report.Filter, bool) {
	f, err := report.ParseFilter(c.Query("start"), c.Query("end"), c.Query("product"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return report.Filter{}, false
	}
	return f, true
}
