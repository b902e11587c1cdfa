package domain

import (
	"fmt"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
)

// AccountRole is a well-known business role that a posting strategy debits or credits.
type AccountRole string

const (
	RoleAccountsReceivable AccountRole = "ACCOUNTS_RECEIVABLE"
	RoleSalesRevenue       AccountRole = "SALES_REVENUE"
	RoleSalesTaxPayable    AccountRole = "SALES_TAX_PAYABLE"
	RoleAccountsPayable    AccountRole = "ACCOUNTS_PAYABLE"
	RoleCashOnHand         AccountRole = "CASH_ON_HAND"
)

// AllRoles lists every role a RoleMapping must resolve.
var AllRoles = []AccountRole{
	RoleAccountsReceivable,
	RoleSalesRevenue,
	RoleSalesTaxPayable,
	RoleAccountsPayable,
	RoleCashOnHand,
}

// RoleMapping maps each role to an account code in the chart of accounts.
// Fallbacks is consulted only for lines that explicitly allow a fallback account.
type RoleMapping struct {
	Codes     map[AccountRole]string
	Fallbacks map[AccountRole]string
}

// DefaultRoleMapping returns the mapping matching the seeded chart of accounts.
func DefaultRoleMapping() RoleMapping {
	return RoleMapping{
		Codes: map[AccountRole]string{
			RoleAccountsReceivable: "1100",
			RoleSalesRevenue:       "4000",
			RoleSalesTaxPayable:    "2100",
			RoleAccountsPayable:    "2000",
			RoleCashOnHand:         "1000",
		},
		Fallbacks: map[AccountRole]string{},
	}
}

// CodeFor returns the configured code for role.
func (m RoleMapping) CodeFor(role AccountRole) (string, bool) {
	code, ok := m.Codes[role]
	return code, ok && code != ""
}

// FallbackFor returns the configured fallback code for role, if any.
func (m RoleMapping) FallbackFor(role AccountRole) (string, bool) {
	code, ok := m.Fallbacks[role]
	return code, ok && code != ""
}

// Validate checks that every role has a code.
func (m RoleMapping) Validate() error {
	for _, role := range AllRoles {
		if _, ok := m.CodeFor(role); !ok {
			return fmt.Errorf("%w: no account code configured for role %s", apperrors.ErrValidation, role)
		}
	}
	return nil
}
