package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/closermetrix/engine/pkg/apperrors"
)

// respondError maps a handler error to an HTTP status and writes the
// uniform error envelope, mirroring the teacher's mapServiceError.
func respondError(c *gin.Context, err error) {
	var validErr *apperrors.ValidationError
	switch {
	case errors.As(err, &validErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: validErr.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
	case errors.Is(err, apperrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Error: "resource already exists"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, errorResponse{Error: "invalid state transition"})
	case errors.Is(err, apperrors.ErrAmbiguous):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "ambiguous identity resolution"})
	case errors.Is(err, apperrors.ErrTaxonomyViolation):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "value outside closed taxonomy"})
	default:
		slog.Error("unexpected handler error", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
