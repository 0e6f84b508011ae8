// Package telemetry exposes Prometheus metrics for the support-reports service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus metrics.
type Metrics struct {
	// ReportsComputed counts report views served.
	ReportsComputed prometheus.Counter
	// ReportDuration observes end-to-end report computation time.
	ReportDuration prometheus.Histogram
	// ExportsTotal counts export downloads by kind and outcome.
	ExportsTotal *prometheus.CounterVec
	// ExportRows counts rows written per export kind.
	ExportRows *prometheus.CounterVec
}

// NewMetrics registers the service metrics with the given registerer.
// Tests pass a private registry to avoid double registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ReportsComputed: factory.NewCounter(prometheus.CounterOpts{
			Name: "support_reports_computed_total",
			Help: "Total report views computed",
		}),
		ReportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "support_reports_report_duration_seconds",
			Help:    "Report computation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_reports_exports_total",
			Help: "Total export downloads by kind and outcome",
		}, []string{"kind", "outcome"}),
		ExportRows: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "support_reports_export_rows_total",
			Help: "Total rows written per export kind",
		}, []string{"kind"}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
