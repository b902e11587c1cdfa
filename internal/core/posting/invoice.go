package posting

import (
	"fmt"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
)

type invoiceStrategy struct {
	rules amountRules
}

func (invoiceStrategy) EventType() domain.EventType { return domain.EventInvoice }

func (invoiceStrategy) NewSnapshot() any { return &domain.InvoiceSnapshot{} }

func (invoiceStrategy) Reference(number string) string { return "INV-" + number }

// Build debits receivables for the total and credits sales for the subtotal.
// A positive tax amount is credited to the tax role, which then becomes required.
func (s invoiceStrategy) Build(snapshot any) (*Plan, error) {
	inv, err := snapshotAs[domain.InvoiceSnapshot](snapshot)
	if err != nil {
		return nil, err
	}
	if err := validateSnapshot(inv); err != nil {
		return nil, err
	}
	if err := s.rules.positive("totalAmount", inv.TotalAmount); err != nil {
		return nil, err
	}
	if err := s.rules.positive("subtotal", inv.Subtotal); err != nil {
		return nil, err
	}
	if err := s.rules.nonNegative("taxAmount", inv.TaxAmount); err != nil {
		return nil, err
	}
	if !inv.Subtotal.Add(inv.TaxAmount).Equal(inv.TotalAmount) {
		return nil, fmt.Errorf("%w: invoice %s total %s does not equal subtotal %s plus tax %s",
			apperrors.ErrUnbalancedEntry, inv.InvoiceNumber, inv.TotalAmount, inv.Subtotal, inv.TaxAmount)
	}

	lines := []PlannedLine{
		{Role: domain.RoleAccountsReceivable, Side: domain.Debit, Amount: inv.TotalAmount},
		{Role: domain.RoleSalesRevenue, Side: domain.Credit, Amount: inv.Subtotal},
	}
	if inv.TaxAmount.IsPositive() {
		lines = append(lines, PlannedLine{Role: domain.RoleSalesTaxPayable, Side: domain.Credit, Amount: inv.TaxAmount})
	}

	return &Plan{
		Reference:   s.Reference(inv.InvoiceNumber),
		Description: "Sales invoice " + inv.InvoiceNumber,
		Date:        s.rules.date(inv.InvoiceDate),
		SourceType:  domain.EventInvoice,
		SourceRef:   inv.InvoiceNumber,
		Lines:       lines,
	}, nil
}
