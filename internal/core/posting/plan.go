package posting

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/SscSPs/ledger_posting_service/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// PlannedLine is one line of a posting before accounts are resolved.
// Exactly one of Role and AccountCode is set.
type PlannedLine struct {
	Role        domain.AccountRole
	AccountCode string
	Side        domain.EntrySide
	Amount      decimal.Decimal
	// AllowFallback lets the resolver substitute the role's configured fallback account.
	AllowFallback bool
}

// Label identifies the line in error messages.
func (l PlannedLine) Label() string {
	if l.AccountCode != "" {
		return l.AccountCode
	}
	return string(l.Role)
}

// Plan is the output of a Strategy: everything needed to write one journal entry.
type Plan struct {
	Reference   string
	Description string
	Date        time.Time
	SourceType  domain.EventType
	SourceRef   string
	Lines       []PlannedLine
}

// Totals sums the debit and credit sides of the plan.
func (p Plan) Totals() (decimal.Decimal, decimal.Decimal) {
	return domain.SumItems(p.draftItems())
}

// Validate checks the minimum line count, line shape and exact balance.
func (p Plan) Validate() error {
	for i, line := range p.Lines {
		if (line.Role == "") == (line.AccountCode == "") {
			return fmt.Errorf("%w: line %d must name exactly one of role or account code", apperrors.ErrInvalidLineItem, i+1)
		}
		if line.Side != domain.Debit && line.Side != domain.Credit {
			return fmt.Errorf("%w: line %d has unknown side %q", apperrors.ErrInvalidLineItem, i+1, line.Side)
		}
	}
	return accounting.ValidateJournalBalance(p.draftItems())
}

func (p Plan) draftItems() []domain.JournalItem {
	items := make([]domain.JournalItem, len(p.Lines))
	for i, line := range p.Lines {
		items[i] = domain.NewJournalItem(line.Label(), line.Side, line.Amount)
		items[i].LineNo = i + 1
	}
	return items
}
