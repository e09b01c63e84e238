package services

import (
	"context"

	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/mikopo/ledger_service/internal/dto"
)

// ChartOfAccountsSvc manages each tenant's chart of accounts, layered over the
// shared system chart. Tenant accounts shadow system accounts with the same code.
type ChartOfAccountsSvc interface {
	// CreateAccount creates an account in the tenant's chart. A code that collides
	// with an existing tenant account fails with ErrDuplicateAccountCode; a code
	// that only exists in the system chart shadows it.
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	// GetAccountByID resolves an account by ID, falling back to the system chart
	// when the tenant does not own it.
	GetAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)
	// GetAccountByCode resolves an account by code, falling back to the system
	// chart when the tenant has not defined or shadowed it.
	GetAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)
	// ListAccounts returns the tenant's own accounts, optionally filtered by type.
	ListAccounts(ctx context.Context, tenantID string, params dto.ListAccountsParams) ([]domain.Account, error)
	// ListResolvedAccounts returns the tenant's effective chart: its own active
	// accounts plus every active system account not shadowed by code.
	ListResolvedAccounts(ctx context.Context, tenantID string) ([]domain.Account, error)
	// UpdateAccount changes an account's mutable fields. Code, type and balance
	// type are fixed at creation.
	UpdateAccount(ctx context.Context, tenantID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
	// DeactivateAccount soft-deletes an account. Deactivated accounts reject new
	// lines but still resolve for historical reads.
	DeactivateAccount(ctx context.Context, tenantID string, accountID string, userID string) error
}
