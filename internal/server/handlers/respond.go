package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/classification"
	"github.com/plantfloor/tally/internal/domain/customer"
	"github.com/plantfloor/tally/internal/domain/entry"
	"github.com/plantfloor/tally/internal/domain/plant"
	"github.com/plantfloor/tally/internal/domain/session"
	"github.com/plantfloor/tally/internal/repository"
)

// respondError translates domain errors to HTTP statuses. Unknown errors are
// logged and surfaced as 500 without leaking internals.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, plant.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, classification.ErrNotFound),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrCustomerNotFound),
		errors.Is(err, session.ErrPlantNotFound),
		errors.Is(err, allocation.ErrNotFound),
		errors.Is(err, entry.ErrNotFound),
		errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, plant.ErrInvalidInput),
		errors.Is(err, customer.ErrInvalidInput),
		errors.Is(err, classification.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, allocation.ErrInvalidInput),
		errors.Is(err, entry.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, classification.ErrDuplicateByproduct),
		errors.Is(err, classification.ErrDuplicateCatchAll),
		errors.Is(err, allocation.ErrDuplicateAllocation),
		errors.Is(err, allocation.ErrReassignmentBlocked),
		errors.Is(err, entry.ErrTransferBlocked),
		errors.Is(err, entry.ErrCommitInFlight),
		errors.Is(err, entry.ErrNotConfirmed),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, repository.ErrForeignKeyViolation):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entry.ErrNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		if logger != nil {
			logger.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
