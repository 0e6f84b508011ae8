package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/support-reports/internal/domain"
	"github.com/jonesrussell/support-reports/internal/export"
	"github.com/jonesrussell/support-reports/internal/logger"
)

// errExportAborted marks a stream cut short by the consumer disconnecting.
// It is an early-termination condition, not a failure of the computation.
var errExportAborted = errors.New("export aborted")

// HandleExportCategories streams the category split as CSV.
func (h *ReportHandler) HandleExportCategories(c *gin.Context) {
	f, ok := h.parseFilter(c)
	if !ok {
		return
	}

	counts, err := h.svc.Categories(c.Request.Context(), f)
	if err != nil {
		h.exportQueryFailed(c, "categories", err)
		return
	}

	h.streamCSV(c, "categories", "category_split.csv", []string{"Category", "Total"},
		func(w *export.Writer) (int64, error) {
			var rows int64
			for _, row := range counts {
				if err := w.WriteRow([]string{row.Category, strconv.FormatInt(row.Total, 10)}); err != nil {
					return rows, fmt.Errorf("%w: %v", errExportAborted, err)
				}
				rows++
			}
			return rows, nil
		})
}

// HandleExportThemes streams the controllable theme ranking as CSV, capped
// at the export limit.
func (h *ReportHandler) HandleExportThemes(c *gin.Context) {
	f, ok := h.parseFilter(c)
	if !ok {
		return
	}

	counts, err := h.svc.Themes(c.Request.Context(), f, h.limits.ThemeExportLimit)
	if err != nil {
		h.exportQueryFailed(c, "themes", err)
		return
	}

	h.streamCSV(c, "themes", "top_themes.csv", []string{"Theme", "Total"},
		func(w *export.Writer) (int64, error) {
			var rows int64
			for _, row := range counts {
				if err := w.WriteRow([]string{row.Theme, strconv.FormatInt(row.Total, 10)}); err != nil {
					return rows, fmt.Errorf("%w: %v", errExportAborted, err)
				}
				rows++
			}
			return rows, nil
		})
}

// HandleExportTrend streams the daily trend as CSV.
func (h *ReportHandler) HandleExportTrend(c *gin.Context) {
	f, ok := h.parseFilter(c)
	if !ok {
		return
	}

	points, err := h.svc.Trend(c.Request.Context(), f)
	if err != nil {
		h.exportQueryFailed(c, "trend", err)
		return
	}

	h.streamCSV(c, "trend", "daily_trend.csv", []string{"Date", "Total"},
		func(w *export.Writer) (int64, error) {
			var rows int64
			for _, row := range points {
				if err := w.WriteRow([]string{row.Day, strconv.FormatInt(row.Total, 10)}); err != nil {
					return rows, fmt.Errorf("%w: %v", errExportAborted, err)
				}
				rows++
			}
			return rows, nil
		})
}

// HandleExportRaw streams the filtered records as CSV, row-capped and
// pipelined: records are formatted and written as they arrive from the store.
func (h *ReportHandler) HandleExportRaw(c *gin.Context) {
	f, ok := h.parseFilter(c)
	if !ok {
		return
	}

	h.streamCSV(c, "raw", "support_queries_filtered.csv", export.RawHeader(),
		func(w *export.Writer) (int64, error) {
			var rows int64
			err := h.svc.StreamRaw(c.Request.Context(), f, h.limits.RawExportLimit,
				func(r domain.SupportRecord) error {
					if err := w.WriteRow(export.RawValues(r)); err != nil {
						return fmt.Errorf("%w: %v", errExportAborted, err)
					}
					rows++
					return nil
				})
			return rows, err
		})
}

// streamCSV sets the download headers, writes BOM and header, and runs the
// row writer. A consumer disconnect is logged and ignored; a store failure
// mid-stream can only be logged since the status line is already gone.
func (h *ReportHandler) streamCSV(
	c *gin.Context,
	kind, filename string,
	header []string,
	writeRows func(w *export.Writer) (int64, error),
) {
	c.Header("Content-Type", "text/csv; charset=UTF-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	w, err := export.NewWriter(c.Writer, header)
	if err != nil {
		h.finishExport(c, kind, 0, err)
		return
	}

	rows, err := writeRows(w)
	if err == nil {
		err = w.Flush()
	}
	h.finishExport(c, kind, rows, err)
}

// finishExport records the outcome of one export stream.
func (h *ReportHandler) finishExport(c *gin.Context, kind string, rows int64, err error) {
	h.metrics.ExportRows.WithLabelValues(kind).Add(float64(rows))

	switch {
	case err == nil:
		h.metrics.ExportsTotal.WithLabelValues(kind, "ok").Inc()
		h.logger.Debug("Export completed",
			logger.String("kind", kind),
			logger.Int64("rows", rows),
		)
	case errors.Is(err, errExportAborted) || c.Request.Context().Err() != nil:
		h.metrics.ExportsTotal.WithLabelValues(kind, "aborted").Inc()
		h.logger.Info("Export aborted by consumer",
			logger.String("kind", kind),
			logger.Int64("rows", rows),
		)
	default:
		h.metrics.ExportsTotal.WithLabelValues(kind, "error").Inc()
		h.logger.Error("Export failed mid-stream",
			logger.String("kind", kind),
			logger.Int64("rows", rows),
			logger.Error(err),
		)
	}
}

// exportQueryFailed rejects an export whose backing query failed before any
// bytes were written, so the client still gets a real status code.
func (h *ReportHandler) exportQueryFailed(c *gin.Context, kind string, err error) {
	h.metrics.ExportsTotal.WithLabelValues(kind, "error").Inc()
	h.logger.Error("Export query failed",
		logger.String("kind", kind),
		logger.Error(err),
	)
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data source unavailable"})
}
