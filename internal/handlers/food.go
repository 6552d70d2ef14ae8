package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/nutrirec/internal/middleware"
	"github.com/temcen/nutrirec/internal/services"
	"github.com/temcen/nutrirec/pkg/models"
)

type FoodHandler struct {
	orchestrator      services.RecommendationOrchestratorInterface
	responseValidator *middleware.ResponseValidator
	sampleSize        int
	logger            *logrus.Logger
}

func NewFoodHandler(
	orchestrator services.RecommendationOrchestratorInterface,
	responseValidator *middleware.ResponseValidator,
	sampleSize int,
	logger *logrus.Logger,
) *FoodHandler {
	return &FoodHandler{
		orchestrator:      orchestrator,
		responseValidator: responseValidator,
		sampleSize:        sampleSize,
		logger:            logger,
	}
}

// Sample returns n random foods for browsing.
func (h *FoodHandler) Sample(c *gin.Context) {
	n := h.sampleSize
	if nStr := c.Query("n"); nStr != "" {
		parsed, err := strconv.Atoi(nStr)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_SAMPLE_SIZE", "n must be an integer")
			return
		}
		n = parsed
	}

	foods, err := h.orchestrator.ListSample(n)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SampleResponse{
		Foods: foods,
		Count: len(foods),
	})
}

// Suggest resolves a free-text name against the whole catalog.
func (h *FoodHandler) Suggest(c *gin.Context) {
	query, ok := c.GetQuery("q")
	if !ok {
		respondError(c, http.StatusBadRequest, "MISSING_QUERY", "Query parameter q is required")
		return
	}

	suggestions := h.orchestrator.Suggest(strings.TrimSpace(query))

	response := models.SuggestionResponse{
		Query:       query,
		Suggestions: suggestions,
	}
	if len(suggestions) == 0 {
		response.Message = "no food matches the query"
	}

	c.JSON(http.StatusOK, response)
}

// Recommendations lists foods similar to the named anchor.
func (h *FoodHandler) Recommendations(c *gin.Context) {
	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		respondError(c, http.StatusBadRequest, "MISSING_NAME", "Query parameter name is required")
		return
	}

	topN := 0
	if topNStr := c.Query("top_n"); topNStr != "" {
		parsed, err := strconv.Atoi(topNStr)
		if err != nil || parsed <= 0 {
			respondError(c, http.StatusBadRequest, "INVALID_TOP_N", "top_n must be a positive integer")
			return
		}
		topN = parsed
	}

	prefs, err := queryPreferences(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response, err := h.orchestrator.Recommend(c.Request.Context(), name, topN, prefs)
	if err != nil {
		if !isUserError(err) {
			h.logger.WithError(err).WithField("anchor", name).Error("Failed to generate recommendations")
		}
		respondServiceError(c, err)
		return
	}

	if err := h.responseValidator.ValidateRecommendationResponse(response); err != nil {
		h.logger.WithError(err).Warn("Recommendation response does not match schema")
	}

	c.JSON(http.StatusOK, response)
}

// PreferenceAnchor picks a starting food from nutrient ceilings.
func (h *FoodHandler) PreferenceAnchor(c *gin.Context) {
	var req models.ThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST_BODY", "Invalid request body format")
		return
	}

	prefs, err := ParsePreferences(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	anchor, err := h.orchestrator.PreferenceAnchor(c.Request.Context(), prefs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"anchor":      anchor,
		"preferences": prefs,
	})
}
