package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntrySide indicates whether a line is a Debit or a Credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// JournalItem represents a single line of a JournalEntry, affecting one account.
// Exactly one of Debit and Credit is positive; the other is zero.
type JournalItem struct {
	ItemID      string          `json:"itemID"`
	EntryID     string          `json:"entryID"`
	LineNo      int             `json:"lineNo"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewJournalItem builds an item carrying amount on the given side.
func NewJournalItem(accountCode string, side EntrySide, amount decimal.Decimal) JournalItem {
	item := JournalItem{AccountCode: accountCode, Debit: decimal.Zero, Credit: decimal.Zero}
	if side == Debit {
		item.Debit = amount
	} else {
		item.Credit = amount
	}
	return item
}

// Validate enforces non-negative amounts and debit/credit mutual exclusivity.
func (i JournalItem) Validate() error {
	if i.AccountCode == "" {
		return fmt.Errorf("%w: line %d has no account code", apperrors.ErrInvalidLineItem, i.LineNo)
	}
	if i.Debit.IsNegative() || i.Credit.IsNegative() {
		return fmt.Errorf("%w: line %d on account %s has a negative amount", apperrors.ErrInvalidLineItem, i.LineNo, i.AccountCode)
	}
	if i.Debit.IsPositive() == i.Credit.IsPositive() {
		return fmt.Errorf("%w: line %d on account %s must carry exactly one of debit or credit", apperrors.ErrInvalidLineItem, i.LineNo, i.AccountCode)
	}
	return nil
}
