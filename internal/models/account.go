package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

// Account is the row stored in the accounts table.
type Account struct {
	Code           string          `db:"code"`
	Name           string          `db:"name"`
	AccountType    AccountType     `db:"account_type"`
	SubType        string          `db:"sub_type"`
	IsActive       bool            `db:"is_active"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	AuditFields
}
