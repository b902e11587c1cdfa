package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_service/internal/middleware"
)

// slogAuditRecorder writes audit events as structured log records.
type slogAuditRecorder struct {
	logger *slog.Logger
}

// NewAuditRecorder returns a recorder that writes to logger, or to the request logger when logger is nil.
func NewAuditRecorder(logger *slog.Logger) portssvc.AuditRecorder {
	return &slogAuditRecorder{logger: logger}
}

var _ portssvc.AuditRecorder = (*slogAuditRecorder)(nil)

func (r *slogAuditRecorder) Record(ctx context.Context, event domain.AuditEvent) error {
	if event.EntryID == "" || event.Action == "" {
		return fmt.Errorf("%w: audit event needs an action and an entry id", apperrors.ErrValidation)
	}

	logger := r.logger
	if logger == nil {
		logger = middleware.GetLoggerFromCtx(ctx)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "ledger.audit",
		slog.String("action", string(event.Action)),
		slog.String("entry_id", event.EntryID),
		slog.String("reference", event.Reference),
		slog.String("source_type", string(event.SourceType)),
		slog.Int("item_count", event.ItemCount),
		slog.String("amount", event.Amount),
		slog.String("actor_id", event.ActorID),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
