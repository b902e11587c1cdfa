package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CalculateSignedAmount applies the correct sign to a line item based on the account type.
// This is used by the chart service for balances and kept here so every caller agrees on the convention.
func CalculateSignedAmount(item domain.JournalItem, accountType domain.AccountType) (decimal.Decimal, error) {
	// DEBIT to ASSET/EXPENSE -> Positive (+)
	// CREDIT to ASSET/EXPENSE -> Negative (-)
	// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
	// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
	switch accountType {
	case domain.Asset, domain.Expense:
		return item.Debit.Sub(item.Credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return item.Credit.Sub(item.Debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account %s", accountType, item.AccountCode)
	}
}

// AccountBalance returns the opening balance plus the signed effect of the given debit and credit totals.
func AccountBalance(account domain.Account, debitTotal, creditTotal decimal.Decimal) (decimal.Decimal, error) {
	signed, err := CalculateSignedAmount(domain.JournalItem{
		AccountCode: account.Code,
		Debit:       debitTotal,
		Credit:      creditTotal,
	}, account.AccountType)
	if err != nil {
		return decimal.Zero, err
	}
	return account.OpeningBalance.Add(signed), nil
}

// ValidateJournalBalance checks the line count, each line's shape, and that debits equal credits exactly.
func ValidateJournalBalance(items []domain.JournalItem) error {
	if len(items) < 2 {
		return fmt.Errorf("%w: got %d", apperrors.ErrInsufficientLineItems, len(items))
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	debit, credit := domain.SumItems(items)
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s", apperrors.ErrUnbalancedEntry, debit.String(), credit.String())
	}

	return nil
}

// CheckPrecision rejects amounts carrying more fractional digits than the currency allows.
func CheckPrecision(field string, amount decimal.Decimal, places int32) error {
	if !amount.Equal(amount.Truncate(places)) {
		return fmt.Errorf("%w: %s %s has more than %d decimal places", apperrors.ErrValidation, field, amount.String(), places)
	}
	return nil
}
