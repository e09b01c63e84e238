package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mikopo/ledger_service/internal/apperrors"
	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/mikopo/ledger_service/internal/dto"
	"github.com/mikopo/ledger_service/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func disbursementEnvelope(t *testing.T, tenantID string) *events.Envelope {
	t.Helper()
	env, err := events.DecodeEnvelope([]byte(`{
		"eventType": "loan.disbursed",
		"sourceId": "loan-42",
		"tenantId": "` + tenantID + `",
		"occurredAt": "2026-03-15T10:00:00Z",
		"payload": {"amount": "1000.00", "currency": "USD", "reference": "LOAN-42"}
	}`))
	require.NoError(t, err)
	return env
}

func TestMapToEntryRequest_Disbursement(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	mockAccounts := new(MockChartOfAccountsService)
	mapper := events.NewMapper(mockAccounts, nil)

	receivable := &domain.Account{AccountID: uuid.NewString(), Code: "1200", BalanceType: domain.DebitBalance, IsActive: true}
	cash := &domain.Account{AccountID: uuid.NewString(), Code: "1000", BalanceType: domain.DebitBalance, IsActive: true}

	mockAccounts.On("GetAccountByCode", ctx, tenantID, "1200").Return(receivable, nil).Once()
	mockAccounts.On("GetAccountByCode", ctx, tenantID, "1000").Return(cash, nil).Once()

	req, err := mapper.MapToEntryRequest(ctx, disbursementEnvelope(t, tenantID))

	require.NoError(t, err)
	require.Len(t, req.Lines, 2)
	// Disbursement: debit loans receivable, credit cash.
	assert.Equal(t, receivable.AccountID, req.Lines[0].AccountID)
	assert.True(t, req.Lines[0].DebitAmount.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, req.Lines[0].CreditAmount.IsZero())
	assert.Equal(t, cash.AccountID, req.Lines[1].AccountID)
	assert.True(t, req.Lines[1].CreditAmount.Equal(decimal.RequireFromString("1000.00")))

	require.NotNil(t, req.SourceEvent)
	require.NotNil(t, req.SourceID)
	assert.Equal(t, "loan.disbursed", *req.SourceEvent)
	assert.Equal(t, "loan-42", *req.SourceID)
	assert.Equal(t, "LOAN-42", req.Reference)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), req.EntryDate)
	mockAccounts.AssertExpectations(t)
}

func TestMapToEntryRequest_UnknownEventType(t *testing.T) {
	ctx := context.Background()
	mockAccounts := new(MockChartOfAccountsService)
	mapper := events.NewMapper(mockAccounts, nil)

	env, err := events.DecodeEnvelope([]byte(`{
		"eventType": "loan.refinanced",
		"sourceId": "loan-42",
		"tenantId": "tenant-1",
		"payload": {"amount": "10", "currency": "USD"}
	}`))
	require.NoError(t, err)

	_, err = mapper.MapToEntryRequest(ctx, env)

	assert.ErrorIs(t, err, events.ErrUnknownEventType)
	mockAccounts.AssertNotCalled(t, "GetAccountByCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestMapToEntryRequest_UnresolvedAccountPropagatesNotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	mockAccounts := new(MockChartOfAccountsService)
	mapper := events.NewMapper(mockAccounts, nil)

	mockAccounts.On("GetAccountByCode", ctx, tenantID, "1200").Return(nil, apperrors.ErrNotFound).Once()

	_, err := mapper.MapToEntryRequest(ctx, disbursementEnvelope(t, tenantID))

	// NotFound must survive wrapping so the consumer can classify it retryable.
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMapToEntryRequest_CustomMappings(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.NewString()
	mockAccounts := new(MockChartOfAccountsService)
	mapper := events.NewMapper(mockAccounts, map[string]events.LineMapping{
		"interest.accrued": {DebitCode: "1300", CreditCode: "4200", Description: "Interest accrual"},
	})

	accrual := &domain.Account{AccountID: uuid.NewString(), Code: "1300"}
	income := &domain.Account{AccountID: uuid.NewString(), Code: "4200"}
	mockAccounts.On("GetAccountByCode", ctx, tenantID, "1300").Return(accrual, nil).Once()
	mockAccounts.On("GetAccountByCode", ctx, tenantID, "4200").Return(income, nil).Once()

	env, err := events.DecodeEnvelope([]byte(`{
		"eventType": "interest.accrued",
		"sourceId": "accr-7",
		"tenantId": "` + tenantID + `",
		"payload": {"amount": "12.34", "currency": "USD"}
	}`))
	require.NoError(t, err)

	req, err := mapper.MapToEntryRequest(ctx, env)

	require.NoError(t, err)
	assert.Equal(t, "Interest accrual", req.Description)
	assert.Equal(t, accrual.AccountID, req.Lines[0].AccountID)
	assert.Equal(t, income.AccountID, req.Lines[1].AccountID)
}
