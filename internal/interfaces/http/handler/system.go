package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/accounting/internal/infrastructure/logger"
	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency for the readiness endpoint
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// SystemHandler serves health and build information
type SystemHandler struct {
	BaseHandler
	service   string
	version   string
	startTime time.Time
	checks    []HealthCheck
	timeout   time.Duration
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(service, version string, checks ...HealthCheck) *SystemHandler {
	return &SystemHandler{
		service:   service,
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		timeout:   3 * time.Second,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"accounting-api"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// Health godoc
//
//	@Summary		Liveness
//	@Description	Reports that the process is up. Does not touch dependencies.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	HealthData
//	@Router			/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthData{
		Status:    "healthy",
		Service:   h.service,
		Version:   h.version,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Ready godoc
//
//	@Summary		Readiness
//	@Description	Pings the database and, when configured, Redis
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	HealthData
//	@Failure		503	{object}	HealthData
//	@Router			/health/ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	data := HealthData{
		Status:    "healthy",
		Service:   h.service,
		Version:   h.version,
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    make(map[string]string, len(h.checks)),
	}
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			logger.L(ctx).Warn("Readiness check failed", zap.String("check", check.Name), zap.Error(err))
			data.Checks[check.Name] = "error"
			data.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		data.Checks[check.Name] = "ok"
	}
	c.JSON(status, data)
}

// Info godoc
//
//	@Summary		System information
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	APIResponse[SystemInfoResponse]
//	@Security		BearerAuth
//	@Router			/system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.service,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}
