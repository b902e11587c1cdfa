package posting

import (
	"fmt"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
)

type posSaleStrategy struct {
	rules amountRules
}

func (posSaleStrategy) EventType() domain.EventType { return domain.EventPOSSale }

func (posSaleStrategy) NewSnapshot() any { return &domain.POSSaleSnapshot{} }

func (posSaleStrategy) Reference(number string) string { return "SALE-" + number }

// Build debits cash for the sale total and splits the credit between sales (net) and tax.
// Cash and sales lines may fall back to configured accounts; tax may not.
func (s posSaleStrategy) Build(snapshot any) (*Plan, error) {
	sale, err := snapshotAs[domain.POSSaleSnapshot](snapshot)
	if err != nil {
		return nil, err
	}
	if err := validateSnapshot(sale); err != nil {
		return nil, err
	}
	if err := s.rules.positive("totalAmount", sale.TotalAmount); err != nil {
		return nil, err
	}
	if err := s.rules.nonNegative("taxAmount", sale.TaxAmount); err != nil {
		return nil, err
	}
	net := sale.TotalAmount.Sub(sale.TaxAmount)
	if !net.IsPositive() {
		return nil, fmt.Errorf("%w: sale %s tax %s must be less than total %s",
			apperrors.ErrValidation, sale.InvoiceNo, sale.TaxAmount, sale.TotalAmount)
	}

	lines := []PlannedLine{
		{Role: domain.RoleCashOnHand, Side: domain.Debit, Amount: sale.TotalAmount, AllowFallback: true},
		{Role: domain.RoleSalesRevenue, Side: domain.Credit, Amount: net, AllowFallback: true},
	}
	if sale.TaxAmount.IsPositive() {
		lines = append(lines, PlannedLine{Role: domain.RoleSalesTaxPayable, Side: domain.Credit, Amount: sale.TaxAmount})
	}

	return &Plan{
		Reference:   s.Reference(sale.InvoiceNo),
		Description: "POS sale " + sale.InvoiceNo,
		Date:        s.rules.date(sale.CreatedAt),
		SourceType:  domain.EventPOSSale,
		SourceRef:   sale.InvoiceNo,
		Lines:       lines,
	}, nil
}
