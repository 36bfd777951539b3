package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type HealthService interface {
	IsOK() (bool, error)
	CheckDB(ctx context.Context) error
}

type HealthHandler struct {
	log *zap.Logger
	svc HealthService
}

func NewHealthHandler(log *zap.Logger, svc HealthService) *HealthHandler {
	return &HealthHandler{
		log: log,
		svc: svc,
	}
}

// Ping
// @Summary Service liveness probe.
// @Description Returns "pong" without touching any dependency.
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseWithMessage "Success"
// @Router /health/ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "pong",
	})
}

// Health
// @Summary Service readiness probe.
// @Description Checks the database connection.
// @Tags Health
// @Produce json
// @Success 200 {object} ResponseWithMessage "Success"
// @Failure 503 {object} ResponseWithMessage "Dependency unavailable"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	if ok, err := h.svc.IsOK(); err != nil || !ok {
		c.JSON(http.StatusServiceUnavailable, ResponseWithMessage{
			Status:  StatusErr,
			Message: "service is not ok",
		})
		return
	}

	if err := h.svc.CheckDB(ctx); err != nil {
		h.log.Warn("Database health check failed", zap.Error(err))

		c.JSON(http.StatusServiceUnavailable, ResponseWithMessage{
			Status:  StatusErr,
			Message: "database is unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, ResponseWithMessage{
		Status:  StatusSuccess,
		Message: "ok",
	})
}
