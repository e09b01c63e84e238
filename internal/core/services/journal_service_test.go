package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mikopo/ledger_service/internal/apperrors"
	"github.com/mikopo/ledger_service/internal/core/domain"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/core/services"
	"github.com/mikopo/ledger_service/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockJournalRepository is a mock type for the JournalRepository interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryBySource(ctx context.Context, tenantID string, sourceEvent string, sourceID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, sourceEvent, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntries(ctx context.Context, tenantID string, fromDate *time.Time, toDate *time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, fromDate, toDate, limit, nextToken)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockJournalRepository) FindLinesByAccountID(ctx context.Context, tenantID string, accountID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

// MockChartOfAccountsService is a mock type for the ChartOfAccountsSvc interface
type MockChartOfAccountsService struct {
	mock.Mock
}

func (m *MockChartOfAccountsService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartOfAccountsService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartOfAccountsService) GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartOfAccountsService) ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockChartOfAccountsService) ListResolvedAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockChartOfAccountsService) UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockChartOfAccountsService) DeactivateAccount(ctx context.Context, tenantID string, accountID string, userID string) error {
	args := m.Called(ctx, tenantID, accountID, userID)
	return args.Error(0)
}

// MockBalanceService is a mock type for the BalanceSvc interface
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) GetBalance(ctx context.Context, tenantID string, accountID string, year int, month int) (*domain.AccountBalance, error) {
	args := m.Called(ctx, tenantID, accountID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockBalanceService) RefreshBalance(ctx context.Context, tenantID string, accountID string, year int, month int) (*domain.AccountBalance, error) {
	args := m.Called(ctx, tenantID, accountID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockBalanceService) GetLedger(ctx context.Context, tenantID string, accountID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

// MockLedgerEventPublisher is a mock type for the LedgerEventPublisher interface
type MockLedgerEventPublisher struct {
	mock.Mock
}

func (m *MockLedgerEventPublisher) PublishPosted(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Test Suite Setup ---

type JournalServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockJournalRepository
	mockAccountSvc *MockChartOfAccountsService
	mockBalanceSvc *MockBalanceService
	mockPublisher  *MockLedgerEventPublisher
	service        portssvc.JournalSvc
	tenantID       string
	cashAccount    domain.Account
	revenueAccount domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockChartOfAccountsService)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.mockPublisher = new(MockLedgerEventPublisher)
	suite.service = services.NewJournalService(
		suite.mockRepo,
		suite.mockAccountSvc,
		services.WithBalanceRefresher(suite.mockBalanceSvc),
		services.WithPublisher(suite.mockPublisher),
	)
	suite.tenantID = uuid.NewString()

	suite.cashAccount = testAccount(suite.tenantID, "1000")
	suite.revenueAccount = testAccount(suite.tenantID, "4000")
	suite.revenueAccount.AccountType = domain.Income
	suite.revenueAccount.BalanceType = domain.CreditBalance
}

func (suite *JournalServiceTestSuite) balancedRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Reference:   "R1",
		Description: "Cash sale",
		EntryDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Lines: []dto.CreateLineRequest{
			{AccountID: suite.cashAccount.AccountID, DebitAmount: decimal.NewFromInt(1000), Currency: "USD"},
			{AccountID: suite.revenueAccount.AccountID, CreditAmount: decimal.NewFromInt(1000), Currency: "USD"},
		},
	}
}

func (suite *JournalServiceTestSuite) expectAccountsResolve() {
	ctx := mock.Anything
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.tenantID, suite.cashAccount.AccountID).Return(&suite.cashAccount, nil)
	suite.mockAccountSvc.On("GetAccountByID", ctx, suite.tenantID, suite.revenueAccount.AccountID).Return(&suite.revenueAccount, nil)
}

// --- Test Cases ---

func (suite *JournalServiceTestSuite) TestPostEntry_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()
	suite.expectAccountsResolve()

	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()
	suite.mockBalanceSvc.On("RefreshBalance", ctx, suite.tenantID, suite.cashAccount.AccountID, 2026, 3).Return(&domain.AccountBalance{}, nil).Once()
	suite.mockBalanceSvc.On("RefreshBalance", ctx, suite.tenantID, suite.revenueAccount.AccountID, 2026, 3).Return(&domain.AccountBalance{}, nil).Once()
	suite.mockPublisher.On("PublishPosted", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, "poster")

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.NotEmpty(entry.EntryID)
	suite.Equal(domain.Posted, entry.Status)
	suite.True(entry.TotalDebit.Equal(decimal.NewFromInt(1000)))
	suite.True(entry.TotalCredit.Equal(decimal.NewFromInt(1000)))
	suite.Require().Len(entry.Lines, 2)
	suite.Equal(1, entry.Lines[0].LineNo)
	suite.Equal(2, entry.Lines[1].LineNo)
	suite.Equal("poster", entry.PostedBy)

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockBalanceSvc.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_MinLines() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, "poster")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrEntryMinLines)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_UnknownAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockAccountSvc.On("GetAccountByID", mock.Anything, suite.tenantID, suite.cashAccount.AccountID).Return(nil, apperrors.ErrNotFound).Once()

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, "poster")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrUnknownAccount)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	suite.cashAccount.IsActive = false
	suite.expectAccountsResolve()

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, "poster")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrAccountInactive)
}

func (suite *JournalServiceTestSuite) TestPostEntry_InvalidLineShape() {
	ctx := context.Background()
	req := suite.balancedRequest()
	// Both sides set on one line is malformed even if the entry still sums up.
	req.Lines[0].CreditAmount = decimal.NewFromInt(1000)
	req.Lines[0].DebitAmount = decimal.NewFromInt(2000)
	suite.expectAccountsResolve()

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, "poster")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrInvalidLine)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_Unbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].DebitAmount = decimal.RequireFromString("500.00")
	req.Lines[1].CreditAmount = decimal.RequireFromString("499.99")
	suite.expectAccountsResolve()

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, "poster")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, services.ErrUnbalancedEntry)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostEntry_IdempotentReplay() {
	ctx := context.Background()
	sourceEvent := "loan.disbursed"
	sourceID := uuid.NewString()
	req := suite.balancedRequest()
	req.SourceEvent = &sourceEvent
	req.SourceID = &sourceID
	suite.expectAccountsResolve()

	existing := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		TenantID:    suite.tenantID,
		Status:      domain.Posted,
		SourceEvent: &sourceEvent,
		SourceID:    &sourceID,
		TotalDebit:  decimal.NewFromInt(1000),
		TotalCredit: decimal.NewFromInt(1000),
	}
	existingLines := []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: existing.EntryID, LineNo: 1},
		{LineID: uuid.NewString(), EntryID: existing.EntryID, LineNo: 2},
	}

	// A concurrent delivery already inserted the same source pair.
	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(apperrors.ErrDuplicate).Once()
	suite.mockRepo.On("FindEntryBySource", ctx, suite.tenantID, sourceEvent, sourceID).Return(&existing, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, existing.EntryID).Return(existingLines, nil).Once()

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, "poster")

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(existing.EntryID, entry.EntryID)
	suite.Len(entry.Lines, 2)
	// The replay must not re-announce or re-materialize anything.
	suite.mockPublisher.AssertNotCalled(suite.T(), "PublishPosted", mock.Anything, mock.Anything)
	suite.mockBalanceSvc.AssertNotCalled(suite.T(), "RefreshBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostEntry_SourcePairMustBeComplete() {
	ctx := context.Background()
	sourceEvent := "loan.disbursed"
	req := suite.balancedRequest()
	req.SourceEvent = &sourceEvent

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, "poster")

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *JournalServiceTestSuite) TestPostEntry_PublishFailureDoesNotFailPost() {
	ctx := context.Background()
	req := suite.balancedRequest()
	suite.expectAccountsResolve()

	suite.mockRepo.On("SaveEntry", ctx, mock.AnythingOfType("domain.JournalEntry"), mock.AnythingOfType("[]domain.JournalLine")).Return(nil).Once()
	suite.mockBalanceSvc.On("RefreshBalance", ctx, suite.tenantID, mock.AnythingOfType("string"), 2026, 3).Return(&domain.AccountBalance{}, nil).Twice()
	suite.mockPublisher.On("PublishPosted", ctx, mock.AnythingOfType("domain.JournalEntry")).Return(apperrors.ErrInternal).Once()

	entry, err := suite.service.PostEntry(ctx, suite.tenantID, req, "poster")

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetEntryByID_WithLines() {
	ctx := context.Background()
	entryID := uuid.NewString()
	header := domain.JournalEntry{EntryID: entryID, TenantID: suite.tenantID, Status: domain.Posted}
	lines := []domain.JournalLine{{LineID: uuid.NewString(), EntryID: entryID, LineNo: 1}}

	suite.mockRepo.On("FindEntryByID", ctx, suite.tenantID, entryID).Return(&header, nil).Once()
	suite.mockRepo.On("FindLinesByEntryID", ctx, entryID).Return(lines, nil).Once()

	entry, err := suite.service.GetEntryByID(ctx, suite.tenantID, entryID)

	suite.Require().NoError(err)
	suite.Len(entry.Lines, 1)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListEntries_PassesThrough() {
	ctx := context.Background()
	token := "next-page"
	entries := []domain.JournalEntry{{EntryID: uuid.NewString(), TenantID: suite.tenantID}}

	suite.mockRepo.On("ListEntries", ctx, suite.tenantID, (*time.Time)(nil), (*time.Time)(nil), 20, (*string)(nil)).
		Return(entries, &token, nil).Once()

	resp, err := suite.service.ListEntries(ctx, suite.tenantID, dto.ListEntriesParams{Limit: 20})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(token, *resp.NextToken)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestJournalService(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
