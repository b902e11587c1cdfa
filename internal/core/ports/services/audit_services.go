package services

import (
	"context"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
)

// AuditRecorder receives one event per successful posting or reversal.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
