package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/services"
)

type AdminHandler struct {
	orchestrator services.RecommendationOrchestratorInterface
	logger       *logrus.Logger
}

func NewAdminHandler(orchestrator services.RecommendationOrchestratorInterface, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (h *AdminHandler) catalogInfo(c *gin.Context, status int) {
	store := h.orchestrator.Catalog()
	scaler := store.ScalerState()

	c.JSON(status, gin.H{
		"version":  store.Version(),
		"records":  store.Len(),
		"built_at": store.BuiltAt(),
		"scaler": gin.H{
			"min": scaler.Min,
			"max": scaler.Max,
		},
	})
}

// GetCatalog describes the active catalog snapshot.
func (h *AdminHandler) GetCatalog(c *gin.Context) {
	h.catalogInfo(c, http.StatusOK)
}

// ReloadCatalog rebuilds the catalog from the configured source.
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	if _, err := h.orchestrator.ReloadCatalog(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, "CATALOG_RELOAD_FAILED", err.Error())
		return
	}

	h.logger.Info("Catalog reloaded via admin API")
	h.catalogInfo(c, http.StatusOK)
}
