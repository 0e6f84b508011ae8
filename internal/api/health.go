package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus represents the status of a health check.
type HealthStatus string

const (
	// HealthStatusHealthy indicates the service is healthy.
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusUnhealthy indicates the service is unhealthy.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the health check response format.
type HealthResponse struct {
	Status  HealthStatus           `json:"status"`
	Service string                 `json:"service"`
	Version string                 `json:"version"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult represents the result of an individual health check.
type CheckResult struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// RegisterHealthRoutes adds GET and HEAD /health endpoints. The database
// ping gates the overall status: reports are useless without the store.
func RegisterHealthRoutes(router *gin.Engine, serviceName, version string, dbPing func() error) {
	router.GET("/health", healthHandler(serviceName, version, dbPing))
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func healthHandler(serviceName, version string, dbPing func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:  HealthStatusHealthy,
			Service: serviceName,
			Version: version,
			Checks:  map[string]CheckResult{},
		}

		start := time.Now()
		err := dbPing()
		latency := time.Since(start)

		if err != nil {
			response.Status = HealthStatusUnhealthy
			response.Checks["database"] = CheckResult{
				Status:  HealthStatusUnhealthy,
				Message: "Database connection failed",
				Latency: latency.String(),
			}
		} else {
			response.Checks["database"] = CheckResult{
				Status:  HealthStatusHealthy,
				Message: "Database connection OK",
				Latency: latency.String(),
			}
		}

		statusCode := http.StatusOK
		if response.Status == HealthStatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, response)
	}
}
