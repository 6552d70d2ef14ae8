package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/temcen/nutrirec/internal/validation"
)

// ValidationMiddleware checks query, path and header shape before handlers run
type ValidationMiddleware struct {
	maxTopN int
}

func NewValidationMiddleware(maxTopN int) *ValidationMiddleware {
	return &ValidationMiddleware{maxTopN: maxTopN}
}

// ValidateQueryParams validates query parameters
func (vm *ValidationMiddleware) ValidateQueryParams() gin.HandlerFunc {
	return func(c *gin.Context) {
		errors := make([]validation.ValidationError, 0)

		if n := c.Query("n"); n != "" {
			if !vm.isValidNonNegativeInt(n) {
				errors = append(errors, validation.ValidationError{
					Field:   "n",
					Message: "Sample size must be a non-negative integer",
					Code:    "INVALID_QUERY_PARAM",
					Value:   n,
				})
			}
		}

		if topN := c.Query("top_n"); topN != "" {
			if !vm.isValidPositiveInt(topN, 1, vm.maxTopN) {
				errors = append(errors, validation.ValidationError{
					Field:   "top_n",
					Message: fmt.Sprintf("top_n must be an integer between 1 and %d", vm.maxTopN),
					Code:    "INVALID_QUERY_PARAM",
					Value:   topN,
				})
			}
		}

		if id := c.Param("id"); id != "" {
			if _, err := uuid.Parse(id); err != nil {
				errors = append(errors, validation.ValidationError{
					Field:   "id",
					Message: "Session ID must be a valid UUID",
					Code:    "INVALID_PATH_PARAM",
					Value:   id,
				})
			}
		}

		if len(errors) > 0 {
			vm.sendValidationErrors(c, errors)
			return
		}

		c.Next()
	}
}

// ValidateHeaders requires a JSON Content-Type on requests carrying a body
func (vm *ValidationMiddleware) ValidateHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		errors := make([]validation.ValidationError, 0)

		if c.Request.Method == http.MethodPost && c.Request.ContentLength != 0 {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" {
				errors = append(errors, validation.ValidationError{
					Field:   "Content-Type",
					Message: "Content-Type header is required",
					Code:    "MISSING_HEADER",
				})
			} else if !strings.Contains(contentType, "application/json") {
				errors = append(errors, validation.ValidationError{
					Field:   "Content-Type",
					Message: "Content-Type must be application/json",
					Code:    "INVALID_HEADER",
					Value:   contentType,
				})
			}
		}

		if len(errors) > 0 {
			vm.sendValidationErrors(c, errors)
			return
		}

		c.Next()
	}
}

func (vm *ValidationMiddleware) isValidPositiveInt(value string, min, max int) bool {
	num, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	return num >= min && (max <= 0 || num <= max)
}

func (vm *ValidationMiddleware) isValidNonNegativeInt(value string) bool {
	num, err := strconv.Atoi(value)
	if err != nil {
		return false
	}
	return num >= 0
}

func (vm *ValidationMiddleware) sendValidationErrors(c *gin.Context, errors []validation.ValidationError) {
	errorDetails := make(map[string]interface{})
	errorDetails["validationErrors"] = errors

	// Group errors by field for easier client handling
	fieldErrors := make(map[string][]string)
	for _, err := range errors {
		if err.Field != "" {
			fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
		}
	}

	if len(fieldErrors) > 0 {
		errorDetails["fieldErrors"] = fieldErrors
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":      "VALIDATION_ERROR",
			"message":   "Request validation failed",
			"details":   errorDetails,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"requestId": RequestIDFrom(c),
			"path":      c.Request.URL.Path,
			"method":    c.Request.Method,
		},
	})
	c.Abort()
}

// ResponseValidator checks outgoing recommendation payloads against their
// schema. It is enabled outside production.
type ResponseValidator struct {
	validator *validation.SchemaValidator
	enabled   bool
}

func NewResponseValidator(validator *validation.SchemaValidator, enabled bool) *ResponseValidator {
	return &ResponseValidator{
		validator: validator,
		enabled:   enabled,
	}
}

func (rv *ResponseValidator) ValidateRecommendationResponse(data interface{}) error {
	if rv == nil || !rv.enabled {
		return nil
	}

	result := rv.validator.ValidateRecommendationResponse(data)
	if !result.Valid {
		return fmt.Errorf("response validation failed: %w", result.Err())
	}

	return nil
}
