package posting

import (
	"fmt"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
)

type billStrategy struct {
	rules amountRules
}

func (billStrategy) EventType() domain.EventType { return domain.EventBill }

func (billStrategy) NewSnapshot() any { return &domain.BillSnapshot{} }

func (billStrategy) Reference(number string) string { return "BILL-" + number }

// Build credits payables for the bill total and debits each coded line's own account.
// Uncoded or zero lines are skipped; if what remains does not cover the total the plan fails to balance.
func (s billStrategy) Build(snapshot any) (*Plan, error) {
	bill, err := snapshotAs[domain.BillSnapshot](snapshot)
	if err != nil {
		return nil, err
	}
	if err := validateSnapshot(bill); err != nil {
		return nil, err
	}
	if err := s.rules.positive("totalAmount", bill.TotalAmount); err != nil {
		return nil, err
	}

	lines := make([]PlannedLine, 0, len(bill.LineItems)+1)
	for i, item := range bill.LineItems {
		if err := s.rules.nonNegative(fmt.Sprintf("lineItems[%d].lineTotal", i), item.LineTotal); err != nil {
			return nil, err
		}
		if item.AccountCode == "" || item.LineTotal.IsZero() {
			continue
		}
		lines = append(lines, PlannedLine{AccountCode: item.AccountCode, Side: domain.Debit, Amount: item.LineTotal})
	}
	lines = append(lines, PlannedLine{Role: domain.RoleAccountsPayable, Side: domain.Credit, Amount: bill.TotalAmount})

	return &Plan{
		Reference:   s.Reference(bill.BillNumber),
		Description: "Vendor bill " + bill.BillNumber,
		Date:        s.rules.date(bill.BillDate),
		SourceType:  domain.EventBill,
		SourceRef:   bill.BillNumber,
		Lines:       lines,
	}, nil
}
