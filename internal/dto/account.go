package dto

import (
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to add an account to the chart.
type CreateAccountRequest struct {
	Code           string             `json:"code" binding:"required,max=32"`
	Name           string             `json:"name" binding:"required,max=255"`
	AccountType    domain.AccountType `json:"type" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType        string             `json:"subType" binding:"max=64"`
	IsActive       *bool              `json:"isActive"` // Optional, defaults to true
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	AccountType    domain.AccountType `json:"type"`
	SubType        string             `json:"subType"`
	IsActive       bool               `json:"isActive"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	CreatedAt      time.Time          `json:"createdAt"`
	CreatedBy      string             `json:"createdBy"`
	LastUpdatedAt  time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy  string             `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Code:           acc.Code,
		Name:           acc.Name,
		AccountType:    acc.AccountType,
		SubType:        acc.SubType,
		IsActive:       acc.IsActive,
		OpeningBalance: acc.OpeningBalance,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// AccountBalanceResponse defines the data returned for an account balance query.
type AccountBalanceResponse struct {
	Code    string          `json:"code"`
	Balance decimal.Decimal `json:"balance"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=50" binding:"min=0,max=500"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
