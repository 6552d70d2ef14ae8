package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/services"
)

// CatalogVersionHeader carries the version of the catalog snapshot the
// instance is serving.
const CatalogVersionHeader = "X-Catalog-Version"

type HealthHandler struct {
	logger        *logrus.Logger
	healthService *services.HealthService
}

func NewHealthHandler(logger *logrus.Logger, healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{
		logger:        logger,
		healthService: healthService,
	}
}

// Check reports service health. Degraded still answers 200; a missing
// catalog answers 503.
func (h *HealthHandler) Check(c *gin.Context) {
	status := h.healthService.CheckHealth(c.Request.Context())

	if version, ok := status.Details["catalog_version"]; ok {
		c.Header(CatalogVersionHeader, fmt.Sprint(version))
	}

	switch status.Status {
	case "healthy", "degraded":
		c.JSON(http.StatusOK, status)
	case "unhealthy":
		h.logger.WithField("critical", status.Critical).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, status)
	default:
		c.JSON(http.StatusInternalServerError, status)
	}
}
