package posting

import (
	"fmt"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
)

type manualStrategy struct {
	rules amountRules
}

func (manualStrategy) EventType() domain.EventType { return domain.EventManual }

func (manualStrategy) NewSnapshot() any { return &domain.ManualJournalRequest{} }

// Reference returns the caller's reference unchanged.
func (manualStrategy) Reference(reference string) string { return reference }

// Build copies the caller's lines after checking shape and precision.
// An empty reference is left for the ledger service to fill from the entry id.
func (s manualStrategy) Build(snapshot any) (*Plan, error) {
	req, err := snapshotAs[domain.ManualJournalRequest](snapshot)
	if err != nil {
		return nil, err
	}
	if len(req.Items) < 2 {
		return nil, fmt.Errorf("%w: got %d", apperrors.ErrInsufficientLineItems, len(req.Items))
	}
	if err := validateSnapshot(req); err != nil {
		return nil, err
	}

	lines := make([]PlannedLine, 0, len(req.Items))
	for i, item := range req.Items {
		if err := s.rules.nonNegative(fmt.Sprintf("items[%d].debit", i), item.Debit); err != nil {
			return nil, err
		}
		if err := s.rules.nonNegative(fmt.Sprintf("items[%d].credit", i), item.Credit); err != nil {
			return nil, err
		}
		if item.Debit.IsPositive() == item.Credit.IsPositive() {
			return nil, fmt.Errorf("%w: item %d on account %s must carry exactly one of debit or credit",
				apperrors.ErrInvalidLineItem, i+1, item.AccountCode)
		}
		line := PlannedLine{AccountCode: item.AccountCode, Side: domain.Credit, Amount: item.Credit}
		if item.Debit.IsPositive() {
			line.Side, line.Amount = domain.Debit, item.Debit
		}
		lines = append(lines, line)
	}

	description := req.Description
	if description == "" {
		description = "Manual journal"
	}

	return &Plan{
		Reference:   req.Reference,
		Description: description,
		Date:        s.rules.date(req.Date),
		SourceType:  domain.EventManual,
		SourceRef:   req.Reference,
		Lines:       lines,
	}, nil
}
