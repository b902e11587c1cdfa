package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_service/internal/core/services"
	"github.com/SscSPs/ledger_posting_service/internal/dto"
	"github.com/SscSPs/ledger_posting_service/internal/repositories/database/sqlite"
	"github.com/SscSPs/ledger_posting_service/migrations"
	"github.com/SscSPs/ledger_posting_service/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerStoreTestSuite struct {
	suite.Suite
	ctx    context.Context
	repos  portsrepo.RepositoryProvider
	chart  portssvc.ChartSvcFacade
	ledger portssvc.LedgerSvcFacade
	closer io.Closer
}

func (s *LedgerStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := filepath.Join(s.T().TempDir(), "ledger.db")

	s.Require().NoError(database.MigrateSQLite(migrations.FS, "sqlite", path, logger))
	db, err := database.OpenSQLite(path)
	s.Require().NoError(err)
	s.closer = db

	s.repos = sqlite.NewRepositoryProvider(db)
	s.chart = services.NewChartService(s.repos.AccountRepo)
	s.ledger = services.NewLedgerService(s.repos.JournalRepo, s.chart, domain.DefaultRoleMapping(),
		services.WithAuditRecorder(services.NewAuditRecorder(logger)),
	)
}

func (s *LedgerStoreTestSuite) TearDownTest() {
	if s.closer != nil {
		s.NoError(s.closer.Close())
	}
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func (s *LedgerStoreTestSuite) balance(code string) string {
	b, err := s.chart.GetAccountBalance(s.ctx, code)
	s.Require().NoError(err)
	return b.String()
}

func (s *LedgerStoreTestSuite) entryCount(prefix string) int {
	resp, err := s.ledger.ListEntriesByReferencePrefix(s.ctx, dto.ListEntriesParams{ReferencePrefix: prefix, Limit: 100})
	s.Require().NoError(err)
	return len(resp.Entries)
}

func (s *LedgerStoreTestSuite) TestSeededChart() {
	accounts, err := s.chart.ListAccounts(s.ctx, dto.ListAccountsParams{})
	s.Require().NoError(err)
	codes := make([]string, len(accounts))
	for i, a := range accounts {
		codes[i] = a.Code
	}
	s.Equal([]string{"1000", "1100", "2000", "2100", "4000", "5000"}, codes)
}

func (s *LedgerStoreTestSuite) TestInvoiceWithTax() {
	entry, err := s.ledger.PostInvoice(s.ctx, domain.InvoiceSnapshot{
		InvoiceNumber: "1042",
		InvoiceDate:   day(20),
		TotalAmount:   dec("1100"),
		Subtotal:      dec("1000"),
		TaxAmount:     dec("100"),
	})
	s.Require().NoError(err)

	stored, err := s.ledger.GetEntry(s.ctx, entry.EntryID)
	s.Require().NoError(err)
	s.Equal("INV-1042", stored.Reference)
	s.Equal(domain.Posted, stored.Status)
	s.True(day(20).Equal(stored.EntryDate))
	s.Require().Len(stored.Items, 3)
	s.True(stored.IsBalanced())
	s.Equal("1100", stored.Items[0].AccountCode)
	s.Equal("1100", stored.Items[0].Debit.String())

	s.Equal("1100", s.balance("1100"))
	s.Equal("1000", s.balance("4000"))
	s.Equal("100", s.balance("2100"))
}

func (s *LedgerStoreTestSuite) TestInvoiceWithoutTax() {
	entry, err := s.ledger.PostInvoice(s.ctx, domain.InvoiceSnapshot{
		InvoiceNumber: "7",
		TotalAmount:   dec("250.75"),
		Subtotal:      dec("250.75"),
	})
	s.Require().NoError(err)
	s.Len(entry.Items, 2)
	s.Equal("0", s.balance("2100"))
	s.Equal("250.75", s.balance("4000"))
}

func (s *LedgerStoreTestSuite) TestVendorBill() {
	_, err := s.ledger.PostBill(s.ctx, domain.BillSnapshot{
		BillNumber:  "B-77",
		BillDate:    day(3),
		TotalAmount: dec("500"),
		LineItems:   []domain.BillLine{{AccountCode: "5000", LineTotal: dec("500")}},
	})
	s.Require().NoError(err)
	s.Equal("500", s.balance("5000"))
	s.Equal("500", s.balance("2000"))
}

func (s *LedgerStoreTestSuite) TestManualEntries() {
	_, err := s.ledger.PostManual(s.ctx, domain.ManualJournalRequest{
		Reference: "ADJ_1",
		Items: []domain.ManualJournalItem{
			{AccountCode: "1000", Debit: dec("100")},
			{AccountCode: "4000", Credit: dec("100")},
		},
	})
	s.Require().NoError(err)

	_, err = s.ledger.PostManual(s.ctx, domain.ManualJournalRequest{
		Reference: "ADJX2",
		Items: []domain.ManualJournalItem{
			{AccountCode: "1000", Debit: dec("100")},
			{AccountCode: "4000", Credit: dec("90")},
		},
	})
	s.ErrorIs(err, apperrors.ErrUnbalancedEntry)

	_, err = s.ledger.PostManual(s.ctx, domain.ManualJournalRequest{
		Items: []domain.ManualJournalItem{{AccountCode: "1000", Debit: dec("100")}},
	})
	s.ErrorIs(err, apperrors.ErrInsufficientLineItems)

	s.Equal(1, s.entryCount("ADJ"))
	s.Equal("100", s.balance("1000"))
}

func (s *LedgerStoreTestSuite) TestDuplicateReferenceRejected() {
	invoice := domain.InvoiceSnapshot{InvoiceNumber: "9", TotalAmount: dec("10"), Subtotal: dec("10")}
	_, err := s.ledger.PostInvoice(s.ctx, invoice)
	s.Require().NoError(err)

	_, err = s.ledger.PostInvoice(s.ctx, invoice)
	s.ErrorIs(err, apperrors.ErrDuplicateReference)
	s.Equal(1, s.entryCount("INV-9"))
	s.Equal("10", s.balance("1100"))
}

func (s *LedgerStoreTestSuite) TestReverseIsIdempotent() {
	_, err := s.ledger.PostInvoice(s.ctx, domain.InvoiceSnapshot{
		InvoiceNumber: "55", TotalAmount: dec("110"), Subtotal: dec("100"), TaxAmount: dec("10"),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.ledger.Reverse(s.ctx, "INV-55"))
	s.Require().NoError(s.ledger.Reverse(s.ctx, "INV-55"))
	s.Equal(0, s.entryCount("INV-"))
	s.Equal("0", s.balance("1100"))

	// The reference is free again once reversed.
	_, err = s.ledger.PostInvoice(s.ctx, domain.InvoiceSnapshot{
		InvoiceNumber: "55", TotalAmount: dec("110"), Subtotal: dec("100"), TaxAmount: dec("10"),
	})
	s.Require().NoError(err)
	s.Require().NoError(s.ledger.ReverseBySource(s.ctx, domain.EventInvoice, "55"))
	s.Equal(0, s.entryCount("INV-"))
}

func (s *LedgerStoreTestSuite) TestReverseUnknownReferenceIsNoop() {
	s.NoError(s.ledger.Reverse(s.ctx, "SALE-404"))
}

func (s *LedgerStoreTestSuite) TestFailedItemInsertRollsBack() {
	now := time.Now().UTC()
	err := s.repos.JournalRepo.WithTx(s.ctx, func(ctx context.Context, tx portsrepo.JournalTxRepository) error {
		if err := tx.CreateEntry(ctx, domain.JournalEntry{
			EntryID: "e-rollback", EntryDate: now, Reference: "RB-1", Status: domain.Draft,
			SourceType: domain.EventManual, SourceRef: "RB-1",
			AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: "t", LastUpdatedAt: now, LastUpdatedBy: "t"},
		}); err != nil {
			return err
		}
		return tx.AddItems(ctx, []domain.JournalItem{
			{ItemID: "i-1", EntryID: "e-rollback", LineNo: 1, AccountCode: "1000", Debit: dec("5"), Credit: decimal.Zero, CreatedAt: now},
			{ItemID: "i-2", EntryID: "e-rollback", LineNo: 2, AccountCode: "9999", Debit: decimal.Zero, Credit: dec("5"), CreatedAt: now},
		})
	})
	s.ErrorIs(err, apperrors.ErrRequiredAccountNotFound)

	_, err = s.ledger.GetEntry(s.ctx, "e-rollback")
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.Equal("0", s.balance("1000"))
}

func (s *LedgerStoreTestSuite) TestPanicRollsBack() {
	now := time.Now().UTC()
	s.Panics(func() {
		_ = s.repos.JournalRepo.WithTx(s.ctx, func(ctx context.Context, tx portsrepo.JournalTxRepository) error {
			_ = tx.CreateEntry(ctx, domain.JournalEntry{
				EntryID: "e-panic", EntryDate: now, Reference: "PN-1", Status: domain.Draft,
				SourceType: domain.EventManual, SourceRef: "PN-1",
				AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: "t", LastUpdatedAt: now, LastUpdatedBy: "t"},
			})
			panic("boom")
		})
	})
	_, err := s.ledger.GetEntry(s.ctx, "e-panic")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerStoreTestSuite) TestListByPrefixPaginates() {
	for i, n := range []string{"1", "2", "3"} {
		_, err := s.ledger.PostInvoice(s.ctx, domain.InvoiceSnapshot{
			InvoiceNumber: n, InvoiceDate: day(i + 1), TotalAmount: dec("1"), Subtotal: dec("1"),
		})
		s.Require().NoError(err)
	}
	_, err := s.ledger.PostBill(s.ctx, domain.BillSnapshot{
		BillNumber: "1", TotalAmount: dec("1"), LineItems: []domain.BillLine{{AccountCode: "5000", LineTotal: dec("1")}},
	})
	s.Require().NoError(err)

	page, err := s.ledger.ListEntriesByReferencePrefix(s.ctx, dto.ListEntriesParams{ReferencePrefix: "INV-", Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 2)
	s.Equal("INV-3", page.Entries[0].Reference)
	s.Equal("INV-2", page.Entries[1].Reference)
	s.Empty(page.Entries[0].Items)
	s.Require().NotNil(page.NextToken)

	page, err = s.ledger.ListEntriesByReferencePrefix(s.ctx, dto.ListEntriesParams{ReferencePrefix: "INV-", Limit: 2, NextToken: page.NextToken})
	s.Require().NoError(err)
	s.Require().Len(page.Entries, 1)
	s.Equal("INV-1", page.Entries[0].Reference)
	s.Nil(page.NextToken)

	s.Equal(0, s.entryCount("inv-"))

	bad := "not-a-token"
	_, err = s.ledger.ListEntriesByReferencePrefix(s.ctx, dto.ListEntriesParams{ReferencePrefix: "INV-", NextToken: &bad})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *LedgerStoreTestSuite) TestPrefixWildcardsAreLiteral() {
	for _, ref := range []string{"ADJ_1", "ADJX1"} {
		_, err := s.ledger.PostManual(s.ctx, domain.ManualJournalRequest{
			Reference: ref,
			Items: []domain.ManualJournalItem{
				{AccountCode: "1000", Debit: dec("1")},
				{AccountCode: "4000", Credit: dec("1")},
			},
		})
		s.Require().NoError(err)
	}
	s.Equal(1, s.entryCount("ADJ_"))
	s.Equal(2, s.entryCount("ADJ"))
}

func (s *LedgerStoreTestSuite) TestInactiveAndReferencedAccounts() {
	inactive := false
	_, err := s.chart.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code: "1200", Name: "Closed Till", AccountType: domain.Asset, IsActive: &inactive,
	})
	s.Require().NoError(err)

	_, err = s.ledger.PostManual(s.ctx, domain.ManualJournalRequest{
		Reference: "ADJ-9",
		Items: []domain.ManualJournalItem{
			{AccountCode: "1200", Debit: dec("1")},
			{AccountCode: "4000", Credit: dec("1")},
		},
	})
	s.ErrorIs(err, apperrors.ErrAccountInactive)

	_, err = s.chart.CreateAccount(s.ctx, dto.CreateAccountRequest{Code: "1200", Name: "Again", AccountType: domain.Asset})
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.ledger.PostInvoice(s.ctx, domain.InvoiceSnapshot{InvoiceNumber: "1", TotalAmount: dec("1"), Subtotal: dec("1")})
	s.Require().NoError(err)
	s.ErrorIs(s.chart.DeleteAccount(s.ctx, "1100"), apperrors.ErrAccountInUse)
	s.NoError(s.chart.DeleteAccount(s.ctx, "1200"))
	s.ErrorIs(s.chart.DeleteAccount(s.ctx, "1200"), apperrors.ErrNotFound)
}

func (s *LedgerStoreTestSuite) TestOpeningBalanceRoundTrips() {
	_, err := s.chart.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code: "3000", Name: "Owner Equity", AccountType: domain.Equity, OpeningBalance: dec("1234.56"),
	})
	s.Require().NoError(err)

	account, err := s.chart.GetAccount(s.ctx, "3000")
	s.Require().NoError(err)
	s.Equal("1234.56", account.OpeningBalance.String())
	s.True(account.IsActive)
	s.Equal("1234.56", s.balance("3000"))
}

func TestLedgerStoreTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerStoreTestSuite))
}
