package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusForError maps application errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrStorageFailure):
		return http.StatusInternalServerError
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrAccountInUse):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrRequiredAccountNotFound),
		errors.Is(err, apperrors.ErrUnbalancedEntry),
		errors.Is(err, apperrors.ErrInsufficientLineItems):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Server errors hide the cause from the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failure})
		return
	}
	logger.Warn(failure, slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": err.Error()})
}
