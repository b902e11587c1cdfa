package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceSnapshot carries the fields of a customer invoice the ledger needs to post it.
// Document numbers are capped at 59 so the prefixed reference (at most "BILL-"/"SALE-") fits in 64.
type InvoiceSnapshot struct {
	InvoiceNumber string          `json:"invoiceNumber" validate:"required,max=59"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
}

// BillLine is a single vendor bill line. An empty AccountCode means the line was not coded
// to an expense account and contributes nothing to the posting.
type BillLine struct {
	AccountCode string          `json:"accountCode" validate:"omitempty,max=32"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// BillSnapshot carries the fields of a vendor bill.
type BillSnapshot struct {
	BillNumber  string          `json:"billNumber" validate:"required,max=59"`
	BillDate    time.Time       `json:"billDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	LineItems   []BillLine      `json:"lineItems" validate:"dive"`
}

// POSSaleSnapshot carries the fields of a point-of-sale receipt.
type POSSaleSnapshot struct {
	InvoiceNo   string          `json:"invoiceNo" validate:"required,max=59"`
	CreatedAt   time.Time       `json:"createdAt"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
}

// ManualJournalItem is one caller-supplied line of a manual journal.
type ManualJournalItem struct {
	AccountCode string          `json:"accountCode" validate:"required,max=32"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// ManualJournalRequest is a hand-keyed journal entry.
// The minimum line count is checked by the posting strategy so it can report ErrInsufficientLineItems.
type ManualJournalRequest struct {
	Date        time.Time           `json:"date"`
	Reference   string              `json:"reference" validate:"omitempty,max=64"`
	Description string              `json:"description" validate:"omitempty,max=255"`
	Items       []ManualJournalItem `json:"items" validate:"dive"`
}
