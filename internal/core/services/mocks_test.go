package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_posting_service/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_posting_service/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
	Tx *MockJournalTx
}

// Ensure MockJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

// WithTx runs fn against Tx unless the expectation returns an error.
func (m *MockJournalRepository) WithTx(ctx context.Context, fn portsrepo.TxFunc) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Tx)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntriesByReferencePrefix(ctx context.Context, prefix string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, prefix, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

// --- Mock JournalTx ---
type MockJournalTx struct {
	mock.Mock
}

var _ portsrepo.JournalTxRepository = (*MockJournalTx)(nil)

func (m *MockJournalTx) CreateEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalTx) AddItems(ctx context.Context, items []domain.JournalItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

// FindItemsByEntryID accepts either a slice or a func(entryID) slice as the first return value.
func (m *MockJournalTx) FindItemsByEntryID(ctx context.Context, entryID string) ([]domain.JournalItem, error) {
	args := m.Called(ctx, entryID)
	if fn, ok := args.Get(0).(func(string) []domain.JournalItem); ok {
		return fn(entryID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalItem), args.Error(1)
}

func (m *MockJournalTx) UpdateEntryStatus(ctx context.Context, entryID string, status domain.JournalStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, entryID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockJournalTx) FindEntryByReference(ctx context.Context, reference string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalTx) DeleteEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockAccountRepository) SumPostedItems(ctx context.Context, code string) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// --- Mock AccountResolver ---
type MockAccountResolver struct {
	mock.Mock
}

var _ portssvc.AccountResolver = (*MockAccountResolver)(nil)

func (m *MockAccountResolver) Resolve(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

// --- Mock AuditRecorder ---
type MockAuditRecorder struct {
	mock.Mock
}

var _ portssvc.AuditRecorder = (*MockAuditRecorder)(nil)

func (m *MockAuditRecorder) Record(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
