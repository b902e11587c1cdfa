package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five chart-of-accounts categories.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether debits increase the balance of accounts of this type.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a node in the chart of accounts.
// It is keyed by its human-assigned Code and is read-only to the posting engine.
type Account struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"type"`
	SubType        string          `json:"subType"`
	IsActive       bool            `json:"isActive"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	AuditFields
}
