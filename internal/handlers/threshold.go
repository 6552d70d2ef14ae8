package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/temcen/nutrirec/internal/services"
	"github.com/temcen/nutrirec/pkg/models"
)

// ParseThreshold reads a user-typed nutrient ceiling. A comma is accepted
// as the decimal separator.
func ParseThreshold(text string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", services.ErrInvalidInput, text)
	}
	return value, nil
}

// ParsePreferences converts the text thresholds of req. Absent or blank
// fields impose no constraint.
func ParsePreferences(req models.ThresholdRequest) (models.Preferences, error) {
	fields := map[string]*string{
		models.FieldCalories:     req.Calories,
		models.FieldProteins:     req.Proteins,
		models.FieldFat:          req.Fat,
		models.FieldCarbohydrate: req.Carbohydrate,
	}

	prefs := make(models.Preferences)
	for _, field := range models.NutrientFields {
		text := fields[field]
		if text == nil || strings.TrimSpace(*text) == "" {
			continue
		}
		value, err := ParseThreshold(*text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		prefs[field] = value
	}

	return prefs, nil
}

// queryPreferences reads max_<field> query parameters.
func queryPreferences(c *gin.Context) (models.Preferences, error) {
	var req models.ThresholdRequest
	for _, field := range models.NutrientFields {
		value, ok := c.GetQuery("max_" + field)
		if !ok {
			continue
		}
		switch field {
		case models.FieldCalories:
			req.Calories = &value
		case models.FieldProteins:
			req.Proteins = &value
		case models.FieldFat:
			req.Fat = &value
		case models.FieldCarbohydrate:
			req.Carbohydrate = &value
		}
	}

	prefs, err := ParsePreferences(req)
	if err != nil {
		return nil, err
	}
	if len(prefs) == 0 {
		return nil, nil
	}
	return prefs, nil
}
