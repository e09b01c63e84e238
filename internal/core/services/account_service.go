package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mikopo/ledger_service/internal/apperrors"
	"github.com/mikopo/ledger_service/internal/core/domain"
	portsrepo "github.com/mikopo/ledger_service/internal/core/ports/repositories"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/dto"
)

var (
	ErrDuplicateAccountCode = errors.New("account code already exists for this tenant")
	ErrUnknownParent        = errors.New("parent account does not resolve")
)

// chartOfAccountsService manages tenant charts layered over the shared system chart.
type chartOfAccountsService struct {
	BaseService
	accountRepo    portsrepo.AccountRepository
	systemTenantID string
}

// NewChartOfAccountsService creates a new chart of accounts service.
// systemTenantID identifies the tenant holding the shared default accounts.
func NewChartOfAccountsService(accountRepo portsrepo.AccountRepository, systemTenantID string) portssvc.ChartOfAccountsSvc {
	return &chartOfAccountsService{
		accountRepo:    accountRepo,
		systemTenantID: systemTenantID,
	}
}

var _ portssvc.ChartOfAccountsSvc = (*chartOfAccountsService)(nil)

// CreateAccount creates an account in the tenant's own chart. A code that only
// exists in the system chart is allowed and shadows the shared default.
func (s *chartOfAccountsService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		if _, err := s.GetAccountByID(ctx, tenantID, parentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownParent, parentID)
			}
			return nil, err
		}
	}

	now := time.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		BalanceType:     req.BalanceType,
		ParentAccountID: parentID,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccountCode, req.Code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID resolves an account by ID within the tenant, then falls back
// to the shared system chart.
func (s *chartOfAccountsService) GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		return nil, err
	}
	if tenantID == s.systemTenantID {
		return nil, apperrors.ErrNotFound
	}

	account, err = s.accountRepo.FindAccountByID(ctx, s.systemTenantID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find system account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountByCode resolves an account by code within the tenant, then falls
// back to the shared system chart.
func (s *chartOfAccountsService) GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to find account by code", slog.String("code", code))
		return nil, err
	}
	if tenantID == s.systemTenantID {
		return nil, apperrors.ErrNotFound
	}

	account, err = s.accountRepo.FindAccountByCode(ctx, s.systemTenantID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find system account by code", slog.String("code", code))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts returns the tenant's own accounts, optionally filtered by type.
func (s *chartOfAccountsService) ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	var typeFilter *domain.AccountType
	if params.Type != "" {
		t := domain.AccountType(params.Type)
		typeFilter = &t
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, typeFilter, params.IncludeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// ListResolvedAccounts returns the tenant's effective chart: its own active
// accounts plus every active system account whose code the tenant has not
// shadowed with an account of its own.
func (s *chartOfAccountsService) ListResolvedAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	tenantAccounts, err := s.accountRepo.ListAccounts(ctx, tenantID, nil, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenant accounts")
		return nil, err
	}
	if tenantID == s.systemTenantID {
		return tenantAccounts, nil
	}

	systemAccounts, err := s.accountRepo.ListAccounts(ctx, s.systemTenantID, nil, false)
	if err != nil {
		s.LogError(ctx, err, "Failed to list system accounts")
		return nil, err
	}

	shadowed := make(map[string]struct{}, len(tenantAccounts))
	for _, acc := range tenantAccounts {
		shadowed[acc.Code] = struct{}{}
	}

	resolved := tenantAccounts
	for _, acc := range systemAccounts {
		if _, ok := shadowed[acc.Code]; !ok {
			resolved = append(resolved, acc)
		}
	}
	return resolved, nil
}

// UpdateAccount changes an account's mutable fields. Only accounts the tenant
// owns can be updated; shared system accounts are read-only to tenants.
func (s *chartOfAccountsService) UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account for update", slog.String("account_id", accountID))
			return nil, err
		}
		// An ID that resolves only in the system chart is visible to the tenant
		// but not writable by it.
		if tenantID != s.systemTenantID {
			if _, sysErr := s.accountRepo.FindAccountByID(ctx, s.systemTenantID, accountID); sysErr == nil {
				return nil, fmt.Errorf("%w: system account %s is read-only", apperrors.ErrConflict, accountID)
			}
		}
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount soft-deletes an account. The account keeps resolving for
// historical reads; only new postings against it are rejected.
func (s *chartOfAccountsService) DeactivateAccount(ctx context.Context, tenantID string, accountID string, userID string) error {
	inactive := false
	_, err := s.UpdateAccount(ctx, tenantID, accountID, dto.UpdateAccountRequest{IsActive: &inactive}, userID)
	if err != nil {
		return err
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}
