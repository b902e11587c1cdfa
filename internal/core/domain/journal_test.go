package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalItem_Validate(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name    string
		item    domain.JournalItem
		wantErr bool
	}{
		{name: "debit only", item: domain.NewJournalItem("1000", domain.Debit, hundred)},
		{name: "credit only", item: domain.NewJournalItem("4000", domain.Credit, hundred)},
		{name: "both sides", item: domain.JournalItem{AccountCode: "1000", Debit: hundred, Credit: hundred}, wantErr: true},
		{name: "neither side", item: domain.JournalItem{AccountCode: "1000"}, wantErr: true},
		{name: "negative debit", item: domain.JournalItem{AccountCode: "1000", Debit: hundred.Neg()}, wantErr: true},
		{name: "missing account", item: domain.NewJournalItem("", domain.Debit, hundred), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrInvalidLineItem)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewJournalItem_FillsOneSide(t *testing.T) {
	item := domain.NewJournalItem("2100", domain.Credit, decimal.RequireFromString("12.50"))

	assert.True(t, item.Credit.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, item.Debit.IsZero())
}

func TestJournalEntry_IsBalanced(t *testing.T) {
	entry := domain.JournalEntry{Items: []domain.JournalItem{
		domain.NewJournalItem("1100", domain.Debit, decimal.NewFromInt(1100)),
		domain.NewJournalItem("4000", domain.Credit, decimal.NewFromInt(1000)),
		domain.NewJournalItem("2100", domain.Credit, decimal.NewFromInt(100)),
	}}
	assert.True(t, entry.IsBalanced())

	debit, credit := entry.Totals()
	assert.Equal(t, "1100", debit.String())
	assert.Equal(t, "1100", credit.String())

	entry.Items = entry.Items[:2]
	assert.False(t, entry.IsBalanced())
}

func TestAccountType(t *testing.T) {
	assert.True(t, domain.Asset.IsDebitNormal())
	assert.True(t, domain.Expense.IsDebitNormal())
	assert.False(t, domain.Revenue.IsDebitNormal())
	assert.False(t, domain.AccountType("CASH").IsValid())
}

func TestRoleMapping(t *testing.T) {
	mapping := domain.DefaultRoleMapping()
	require.NoError(t, mapping.Validate())

	code, ok := mapping.CodeFor(domain.RoleSalesTaxPayable)
	assert.True(t, ok)
	assert.Equal(t, "2100", code)

	_, ok = mapping.FallbackFor(domain.RoleCashOnHand)
	assert.False(t, ok)

	delete(mapping.Codes, domain.RoleAccountsPayable)
	assert.ErrorIs(t, mapping.Validate(), apperrors.ErrValidation)
}
