package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/temcen/nutrirec/internal/services"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps engine errors onto HTTP responses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondError(c, http.StatusNotFound, "FOOD_NOT_FOUND", services.ErrNotFound.Error())
	case errors.Is(err, services.ErrNoCandidates):
		respondError(c, http.StatusNotFound, "NO_CANDIDATES", services.ErrNoCandidates.Error())
	case errors.Is(err, services.ErrInsufficientData):
		respondError(c, http.StatusBadRequest, "INSUFFICIENT_DATA", err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// isUserError reports whether err stems from the request rather than the service.
func isUserError(err error) bool {
	return errors.Is(err, services.ErrNotFound) ||
		errors.Is(err, services.ErrNoCandidates) ||
		errors.Is(err, services.ErrInsufficientData) ||
		errors.Is(err, services.ErrInvalidInput) ||
		errors.Is(err, services.ErrInvalidTransition)
}
