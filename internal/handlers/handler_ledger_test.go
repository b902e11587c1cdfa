package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/ledger_posting_service/internal/apperrors"
	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_service/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_service/internal/dto"
	"github.com/SscSPs/ledger_posting_service/internal/handlers"
	"github.com/SscSPs/ledger_posting_service/internal/middleware"
	"github.com/SscSPs/ledger_posting_service/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Post(ctx context.Context, eventType domain.EventType, snapshot any) (*domain.JournalEntry, error) {
	args := m.Called(ctx, eventType, snapshot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) NewSnapshot(eventType domain.EventType) (any, error) {
	args := m.Called(eventType)
	return args.Get(0), args.Error(1)
}
func (m *MockLedgerService) PostInvoice(ctx context.Context, invoice domain.InvoiceSnapshot) (*domain.JournalEntry, error) {
	return m.Post(ctx, domain.EventInvoice, invoice)
}
func (m *MockLedgerService) PostBill(ctx context.Context, bill domain.BillSnapshot) (*domain.JournalEntry, error) {
	return m.Post(ctx, domain.EventBill, bill)
}
func (m *MockLedgerService) PostPOSSale(ctx context.Context, sale domain.POSSaleSnapshot) (*domain.JournalEntry, error) {
	return m.Post(ctx, domain.EventPOSSale, sale)
}
func (m *MockLedgerService) PostManual(ctx context.Context, req domain.ManualJournalRequest) (*domain.JournalEntry, error) {
	return m.Post(ctx, domain.EventManual, req)
}
func (m *MockLedgerService) Reverse(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}
func (m *MockLedgerService) ReverseBySource(ctx context.Context, eventType domain.EventType, documentNumber string) error {
	args := m.Called(ctx, eventType, documentNumber)
	return args.Error(0)
}
func (m *MockLedgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockLedgerService) ListEntriesByReferencePrefix(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

type LedgerHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
	token             string
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(testJWTSecret))

	suite.mockLedgerService = new(MockLedgerService)
	suite.token = generateTestToken(suite.T(), "poster-7")

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterLedgerRoutes(v1, suite.mockLedgerService)
}

func (suite *LedgerHandlerTestSuite) do(method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, url, nil)
	} else {
		req, _ = http.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func postedInvoice() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:    "entry-1",
		EntryDate:  time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
		Reference:  "INV-1042",
		Status:     domain.Posted,
		SourceType: domain.EventInvoice,
		SourceRef:  "1042",
		Items: []domain.JournalItem{
			{ItemID: "i1", LineNo: 1, AccountCode: "1100", Debit: decimal.NewFromInt(1100), Credit: decimal.Zero},
			{ItemID: "i2", LineNo: 2, AccountCode: "4000", Debit: decimal.Zero, Credit: decimal.NewFromInt(1000)},
			{ItemID: "i3", LineNo: 3, AccountCode: "2100", Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *LedgerHandlerTestSuite) TestPostInvoice_Success() {
	suite.mockLedgerService.On("NewSnapshot", domain.EventInvoice).Return(&domain.InvoiceSnapshot{}, nil).Once()
	suite.mockLedgerService.On("Post", mock.Anything, domain.EventInvoice, mock.MatchedBy(func(s any) bool {
		inv, ok := s.(*domain.InvoiceSnapshot)
		return ok && inv.InvoiceNumber == "1042" && inv.TaxAmount.Equal(decimal.NewFromInt(100))
	})).Return(postedInvoice(), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/ledger/postings/invoice",
		`{"invoiceNumber":"1042","invoiceDate":"2024-06-20T00:00:00Z","totalAmount":"1100","subtotal":"1000","taxAmount":"100"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("INV-1042", resp.Reference)
	suite.Equal(domain.Posted, resp.Status)
	suite.Len(resp.Items, 3)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestPostPOSSale_PathIsNormalized() {
	suite.mockLedgerService.On("NewSnapshot", domain.EventPOSSale).Return(&domain.POSSaleSnapshot{}, nil).Once()
	suite.mockLedgerService.On("Post", mock.Anything, domain.EventPOSSale, mock.AnythingOfType("*domain.POSSaleSnapshot")).
		Return(&domain.JournalEntry{EntryID: "e", Reference: "SALE-77", Status: domain.Posted}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/ledger/postings/pos-sale", `{"invoiceNo":"77","totalAmount":"10"}`)

	suite.Equal(http.StatusCreated, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestPostUnknownEventType() {
	suite.mockLedgerService.On("NewSnapshot", domain.EventType("PAYROLL")).
		Return(nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownEventType, "PAYROLL")).Once()

	w := suite.do(http.MethodPost, "/api/v1/ledger/postings/payroll", `{}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Post", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestPostMalformedBody() {
	suite.mockLedgerService.On("NewSnapshot", domain.EventManual).Return(&domain.ManualJournalRequest{}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/ledger/postings/manual", `{"items":`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockLedgerService.AssertNotCalled(suite.T(), "Post", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestPostErrorStatuses() {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unbalanced", apperrors.ErrUnbalancedEntry, http.StatusUnprocessableEntity},
		{"too few lines", apperrors.ErrInsufficientLineItems, http.StatusUnprocessableEntity},
		{"missing account", fmt.Errorf("role SALES_TAX_PAYABLE: %w", apperrors.ErrRequiredAccountNotFound), http.StatusUnprocessableEntity},
		{"inactive account", apperrors.ErrAccountInactive, http.StatusUnprocessableEntity},
		{"invalid line", apperrors.ErrInvalidLineItem, http.StatusBadRequest},
		{"duplicate reference", apperrors.ErrDuplicateReference, http.StatusConflict},
		{"storage", apperrors.NewStorageError("insert entry", assert.AnError), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockLedgerService.On("NewSnapshot", domain.EventManual).Return(&domain.ManualJournalRequest{}, nil).Once()
			suite.mockLedgerService.On("Post", mock.Anything, domain.EventManual, mock.Anything).Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/ledger/postings/manual", `{"items":[]}`)

			suite.Equal(tt.want, w.Code)
		})
	}
}

func (suite *LedgerHandlerTestSuite) TestReverse() {
	suite.mockLedgerService.On("Reverse", mock.Anything, "INV-1042").Return(nil).Once()

	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, "/api/v1/ledger/postings?reference=INV-1042", "").Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodDelete, "/api/v1/ledger/postings", "").Code)
	suite.mockLedgerService.AssertNumberOfCalls(suite.T(), "Reverse", 1)
}

func (suite *LedgerHandlerTestSuite) TestReverseBySource() {
	suite.mockLedgerService.On("ReverseBySource", mock.Anything, domain.EventBill, "B-77").Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/ledger/postings/bill/B-77", "")

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetEntry() {
	suite.mockLedgerService.On("GetEntry", mock.Anything, "entry-1").Return(postedInvoice(), nil).Once()
	suite.mockLedgerService.On("GetEntry", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("journal entry missing")).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/entries/entry-1", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"reference":"INV-1042"`)

	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, "/api/v1/ledger/entries/missing", "").Code)
}

func (suite *LedgerHandlerTestSuite) TestListEntries() {
	next := "token-2"
	suite.mockLedgerService.On("ListEntriesByReferencePrefix", mock.Anything, mock.MatchedBy(func(p dto.ListEntriesParams) bool {
		return p.ReferencePrefix == "INV-" && p.Limit == 2 && p.NextToken == nil
	})).Return(&dto.ListEntriesResponse{
		Entries:   []dto.JournalEntryResponse{{EntryID: "a", Reference: "INV-2"}, {EntryID: "b", Reference: "INV-1"}},
		NextToken: &next,
	}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/ledger/entries?referencePrefix=INV-&limit=2", "")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Entries, 2)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodGet, "/api/v1/ledger/entries?limit=1000", "").Code)
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func TestLedgerHandler(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}

func TestNewRouter_HealthAndRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ledgerSvc := new(MockLedgerService)
	cfg := &config.Config{
		JWTSecret:          testJWTSecret,
		RateLimit:          "1-M",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	router, err := handlers.NewRouter(cfg, &portssvc.ServiceContainer{Chart: new(MockChartService), Ledger: ledgerSvc}, nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	ledgerSvc.On("Reverse", mock.Anything, "INV-1").Return(nil)
	token := generateTestToken(t, "user-1")
	reverse := func() int {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/ledger/postings?reference=INV-1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusNoContent, reverse())
	assert.Equal(t, http.StatusTooManyRequests, reverse())
}

func TestNewRouter_RejectsBadRateLimit(t *testing.T) {
	_, err := handlers.NewRouter(&config.Config{RateLimit: "lots"}, &portssvc.ServiceContainer{}, nil)
	assert.Error(t, err)
}
