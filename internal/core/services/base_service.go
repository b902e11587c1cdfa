package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/SscSPs/ledger_posting_service/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// ActorID returns the authenticated user on ctx, or the system user for in-process callers.
func (s *BaseService) ActorID(ctx context.Context) string {
	if userID, ok := middleware.GetUserIDFromCtx(ctx); ok {
		return userID
	}
	return domain.SystemUserID
}
