package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_service/internal/core/posting"
	"github.com/SscSPs/ledger_posting_service/internal/dto"
	"github.com/SscSPs/ledger_posting_service/internal/utils/accounting"
	"github.com/SscSPs/ledger_posting_service/internal/utils/pagination"
	"github.com/google/uuid"
)

// ledgerService is the only component that opens journal transactions.
type ledgerService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryWithTx
	resolver    portssvc.AccountResolver
	roles       domain.RoleMapping
	registry    *posting.Registry
	audit       portssvc.AuditRecorder
	now         func() time.Time
	newID       func() string
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerService)

// WithAuditRecorder sets where successful postings and reversals are reported.
func WithAuditRecorder(recorder portssvc.AuditRecorder) LedgerOption {
	return func(s *ledgerService) {
		s.audit = recorder
	}
}

// WithRegistry replaces the default strategy registry.
func WithRegistry(registry *posting.Registry) LedgerOption {
	return func(s *ledgerService) {
		s.registry = registry
	}
}

// WithLedgerClock overrides the clock used for audit fields.
func WithLedgerClock(now func() time.Time) LedgerOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// WithIDGenerator overrides entry and item id generation.
func WithIDGenerator(newID func() string) LedgerOption {
	return func(s *ledgerService) {
		s.newID = newID
	}
}

// NewLedgerService creates the posting service. roles must already be validated.
func NewLedgerService(journalRepo portsrepo.JournalRepositoryWithTx, resolver portssvc.AccountResolver, roles domain.RoleMapping, options ...LedgerOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		journalRepo: journalRepo,
		resolver:    resolver,
		roles:       roles,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, option := range options {
		option(svc)
	}
	if svc.registry == nil {
		svc.registry = posting.NewRegistry(posting.DefaultPrecision, svc.now)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) NewSnapshot(eventType domain.EventType) (any, error) {
	strategy, err := s.registry.Strategy(eventType)
	if err != nil {
		return nil, err
	}
	return strategy.NewSnapshot(), nil
}

func (s *ledgerService) PostInvoice(ctx context.Context, invoice domain.InvoiceSnapshot) (*domain.JournalEntry, error) {
	return s.Post(ctx, domain.EventInvoice, invoice)
}

func (s *ledgerService) PostBill(ctx context.Context, bill domain.BillSnapshot) (*domain.JournalEntry, error) {
	return s.Post(ctx, domain.EventBill, bill)
}

func (s *ledgerService) PostPOSSale(ctx context.Context, sale domain.POSSaleSnapshot) (*domain.JournalEntry, error) {
	return s.Post(ctx, domain.EventPOSSale, sale)
}

func (s *ledgerService) PostManual(ctx context.Context, req domain.ManualJournalRequest) (*domain.JournalEntry, error) {
	return s.Post(ctx, domain.EventManual, req)
}

// Post builds the plan, resolves every account, then writes the entry as DRAFT, re-reads its
// items from the store, re-checks the balance and only then flips it to POSTED, all in one transaction.
func (s *ledgerService) Post(ctx context.Context, eventType domain.EventType, snapshot any) (*domain.JournalEntry, error) {
	logger := s.GetLogger(ctx).With(slog.String("event_type", string(eventType)))

	plan, err := s.registry.Plan(eventType, snapshot)
	if err != nil {
		logger.Warn("Posting rejected by strategy", slog.String("error", err.Error()))
		return nil, err
	}

	entryID := s.newID()
	if plan.Reference == "" {
		plan.Reference = manualReference(entryID)
	}
	if plan.SourceRef == "" {
		plan.SourceRef = plan.Reference
	}
	logger = logger.With(slog.String("reference", plan.Reference), slog.String("entry_id", entryID))

	now := s.now().UTC()
	items, err := s.resolveLines(ctx, plan, entryID, now)
	if err != nil {
		logger.Warn("Account resolution failed", slog.String("error", err.Error()))
		return nil, err
	}
	if err := accounting.ValidateJournalBalance(items); err != nil {
		logger.Error("Resolved posting does not balance", slog.String("error", err.Error()))
		return nil, err
	}

	actor := s.ActorID(ctx)
	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   plan.Date,
		Reference:   plan.Reference,
		Description: plan.Description,
		Status:      domain.Draft,
		SourceType:  plan.SourceType,
		SourceRef:   plan.SourceRef,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	err = s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.JournalTxRepository) error {
		if err := tx.CreateEntry(ctx, entry); err != nil {
			return err
		}
		if err := tx.AddItems(ctx, items); err != nil {
			return err
		}

		stored, err := tx.FindItemsByEntryID(ctx, entryID)
		if err != nil {
			return err
		}
		if len(stored) != len(items) {
			return fmt.Errorf("%w: wrote %d items for entry %s but read back %d", apperrors.ErrStorageFailure, len(items), entryID, len(stored))
		}
		if err := accounting.ValidateJournalBalance(stored); err != nil {
			return err
		}

		if err := tx.UpdateEntryStatus(ctx, entryID, domain.Posted, actor, now); err != nil {
			return err
		}
		entry.Items = stored
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateReference) {
			logger.Warn("Reference already posted")
		} else {
			logger.Error("Failed to persist journal entry", slog.String("error", err.Error()))
		}
		return nil, err
	}

	entry.Status = domain.Posted
	logger.Info("Journal entry posted", slog.Int("item_count", len(entry.Items)))
	s.recordAudit(ctx, domain.AuditPosted, entry)
	return &entry, nil
}

// manualReference derives a JV reference from the first eight hex digits of the entry id.
func manualReference(entryID string) string {
	short := strings.ToUpper(strings.ReplaceAll(entryID, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return "JV-" + short
}

func (s *ledgerService) resolveLines(ctx context.Context, plan *posting.Plan, entryID string, now time.Time) ([]domain.JournalItem, error) {
	items := make([]domain.JournalItem, 0, len(plan.Lines))
	for i, line := range plan.Lines {
		code, err := s.resolveLine(ctx, line)
		if err != nil {
			return nil, err
		}
		item := domain.NewJournalItem(code, line.Side, line.Amount)
		item.ItemID = s.newID()
		item.EntryID = entryID
		item.LineNo = i + 1
		item.CreatedAt = now
		items = append(items, item)
	}
	return items, nil
}

func (s *ledgerService) resolveLine(ctx context.Context, line posting.PlannedLine) (string, error) {
	if line.AccountCode != "" {
		account, err := s.resolver.Resolve(ctx, line.AccountCode)
		if err != nil {
			return "", err
		}
		return account.Code, nil
	}

	code, ok := s.roles.CodeFor(line.Role)
	if !ok {
		return "", fmt.Errorf("%w: no account code configured for role %s", apperrors.ErrRequiredAccountNotFound, line.Role)
	}
	account, err := s.resolver.Resolve(ctx, code)
	if err == nil {
		return account.Code, nil
	}
	if !line.AllowFallback || !errors.Is(err, apperrors.ErrRequiredAccountNotFound) {
		return "", fmt.Errorf("role %s: %w", line.Role, err)
	}

	fallbackCode, ok := s.roles.FallbackFor(line.Role)
	if !ok {
		return "", fmt.Errorf("role %s: %w", line.Role, err)
	}
	fallback, fbErr := s.resolver.Resolve(ctx, fallbackCode)
	if fbErr != nil {
		return "", fmt.Errorf("role %s fallback %s: %w", line.Role, fallbackCode, fbErr)
	}
	s.GetLogger(ctx).Warn("Posting to fallback account",
		slog.String("role", string(line.Role)),
		slog.String("account_code", code),
		slog.String("fallback_code", fallback.Code),
	)
	return fallback.Code, nil
}

// Reverse deletes the entry carrying exactly this reference. Not finding one is a no-op, so
// a second concurrent reversal of the same reference succeeds without doing anything.
func (s *ledgerService) Reverse(ctx context.Context, reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return fmt.Errorf("%w: reference is required", apperrors.ErrValidation)
	}
	logger := s.GetLogger(ctx).With(slog.String("reference", reference))

	var removed *domain.JournalEntry
	err := s.journalRepo.WithTx(ctx, func(ctx context.Context, tx portsrepo.JournalTxRepository) error {
		entry, err := tx.FindEntryByReference(ctx, reference)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			return err
		}
		items, err := tx.FindItemsByEntryID(ctx, entry.EntryID)
		if err != nil {
			return err
		}
		if err := tx.DeleteEntry(ctx, entry.EntryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			return err
		}
		entry.Items = items
		removed = entry
		return nil
	})
	if err != nil {
		logger.Error("Failed to reverse journal entry", slog.String("error", err.Error()))
		return err
	}

	if removed == nil {
		logger.Info("No journal entry to reverse")
		return nil
	}
	logger.Info("Journal entry reversed", slog.String("entry_id", removed.EntryID))
	s.recordAudit(ctx, domain.AuditReversed, *removed)
	return nil
}

func (s *ledgerService) ReverseBySource(ctx context.Context, eventType domain.EventType, documentNumber string) error {
	if strings.TrimSpace(documentNumber) == "" {
		return fmt.Errorf("%w: document number is required", apperrors.ErrValidation)
	}
	reference, err := s.registry.Reference(eventType, documentNumber)
	if err != nil {
		return err
	}
	return s.Reverse(ctx, reference)
}

func (s *ledgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *ledgerService) ListEntriesByReferencePrefix(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	entries, nextToken, err := s.journalRepo.FindEntriesByReferencePrefix(ctx, params.ReferencePrefix, limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journal entries", slog.String("reference_prefix", params.ReferencePrefix))
		}
		return nil, err
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// recordAudit never fails the operation: the ledger change is already committed.
func (s *ledgerService) recordAudit(ctx context.Context, action domain.AuditAction, entry domain.JournalEntry) {
	if s.audit == nil {
		return
	}
	debit, _ := entry.Totals()
	event := domain.AuditEvent{
		Action:     action,
		EntryID:    entry.EntryID,
		Reference:  entry.Reference,
		SourceType: entry.SourceType,
		ItemCount:  len(entry.Items),
		Amount:     debit.String(),
		ActorID:    s.ActorID(ctx),
		OccurredAt: s.now().UTC(),
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.GetLogger(ctx).Warn("Failed to record audit event", slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
	}
}
