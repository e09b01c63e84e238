package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikopo/ledger_service/internal/apperrors"
	"github.com/mikopo/ledger_service/internal/core/domain"
	portsrepo "github.com/mikopo/ledger_service/internal/core/ports/repositories"
	"github.com/mikopo/ledger_service/internal/models"
	"github.com/mikopo/ledger_service/internal/utils/mapping"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for chart of accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepository
var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, tenant_id, code, name, account_type, balance_type, parent_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, tenant_id, code, name, account_type, balance_type, parent_account_id, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	// Use sql.NullString for potentially NULL parent_account_id
	var parentID sql.NullString
	if modelAcc.ParentAccountID != "" {
		parentID = sql.NullString{String: modelAcc.ParentAccountID, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.TenantID,
		modelAcc.Code,
		modelAcc.Name,
		modelAcc.AccountType,
		modelAcc.BalanceType,
		parentID,
		modelAcc.IsActive,
		modelAcc.CreatedAt,
		modelAcc.CreatedBy,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation on (tenant_id, code)
				return fmt.Errorf("%w: account with code %s already exists in tenant %s", apperrors.ErrDuplicate, modelAcc.Code, modelAcc.TenantID)
			}
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.AccountID, err)
	}
	return nil
}

func scanAccountRow(row pgx.Row) (*models.Account, error) {
	var modelAcc models.Account
	var parentID sql.NullString

	err := row.Scan(
		&modelAcc.AccountID,
		&modelAcc.TenantID,
		&modelAcc.Code,
		&modelAcc.Name,
		&modelAcc.AccountType,
		&modelAcc.BalanceType,
		&parentID,
		&modelAcc.IsActive,
		&modelAcc.CreatedAt,
		&modelAcc.CreatedBy,
		&modelAcc.LastUpdatedAt,
		&modelAcc.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		modelAcc.ParentAccountID = parentID.String
	}
	return &modelAcc, nil
}

// FindAccountByID retrieves an account by its ID within a tenant.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND account_id = $2;`

	modelAcc, err := scanAccountRow(r.pool.QueryRow(ctx, query, tenantID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by ID "+accountID, err)
	}

	domainAcc := mapping.ToDomainAccount(*modelAcc)
	return &domainAcc, nil
}

// FindAccountByCode retrieves an account by its code within a tenant.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 AND code = $2;`

	modelAcc, err := scanAccountRow(r.pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find account by code "+code, err)
	}

	domainAcc := mapping.ToDomainAccount(*modelAcc)
	return &domainAcc, nil
}

// ListAccounts retrieves the tenant's accounts ordered by code, optionally
// filtered by account type. Inactive accounts are excluded unless requested.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, accountType *domain.AccountType, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	if accountType != nil {
		args = append(args, string(*accountType))
		query += fmt.Sprintf(" AND account_type = $%d", len(args))
	}
	if !includeInactive {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY code;"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelAccounts := []models.Account{}
	for rows.Next() {
		modelAcc, err := scanAccountRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row for tenant "+tenantID, err)
		}
		modelAccounts = append(modelAccounts, *modelAcc)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows for tenant "+tenantID, err)
	}

	return mapping.ToDomainAccountSlice(modelAccounts), nil
}

// UpdateAccount persists changes to an account's mutable fields.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $1, is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $5 AND account_id = $6;
	`
	tag, err := r.pool.Exec(ctx, query,
		modelAcc.Name,
		modelAcc.IsActive,
		modelAcc.LastUpdatedAt,
		modelAcc.LastUpdatedBy,
		modelAcc.TenantID,
		modelAcc.AccountID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update account "+modelAcc.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
