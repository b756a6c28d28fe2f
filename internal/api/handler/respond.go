package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rosterhq/roster/internal/users"
)

// writeDomainError maps a service error onto the wire envelope. Field
// validation failures keep their per-field breakdown; anything
// unexpected is logged and collapsed to a plain 500.
func writeDomainError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var verrs users.Violations
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			RecordValidationFailure(fe.Field, fe.Kind)
		}
		c.JSON(http.StatusUnprocessableEntity, users.ErrorResponse{
			Error:   "validation failed",
			Details: verrs.Error(),
			Fields:  verrs,
		})
	case errors.Is(err, users.ErrEmptyUpdate):
		c.JSON(http.StatusUnprocessableEntity, users.ErrorResponse{
			Error:   "validation failed",
			Details: err.Error(),
		})
	case errors.Is(err, users.ErrDuplicateEmail), errors.Is(err, users.ErrDuplicateNickname):
		c.JSON(http.StatusConflict, users.ErrorResponse{Error: err.Error()})
	case errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusNotFound, users.ErrorResponse{Error: "user not found"})
	case errors.Is(err, users.ErrInvalidLogin):
		c.JSON(http.StatusUnauthorized, users.ErrorResponse{Error: err.Error()})
	default:
		logger.Error(op, zap.Error(err))
		c.JSON(http.StatusInternalServerError, users.ErrorResponse{Error: op + " failed"})
	}
}
