package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikopo/ledger_service/internal/apperrors"
	"github.com/mikopo/ledger_service/internal/core/domain"
	portsrepo "github.com/mikopo/ledger_service/internal/core/ports/repositories"
	"github.com/mikopo/ledger_service/internal/models"
	"github.com/shopspring/decimal"
)

type PgxBalanceRepository struct {
	pool *pgxpool.Pool
}

// newPgxBalanceRepository creates a new repository for materialized period balances.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepository {
	return &PgxBalanceRepository{pool: pool}
}

// Ensure PgxBalanceRepository implements portsrepo.BalanceRepository
var _ portsrepo.BalanceRepository = (*PgxBalanceRepository)(nil)

// FindBalance retrieves the cached balance for an account and period.
func (r *PgxBalanceRepository) FindBalance(ctx context.Context, tenantID string, accountID string, year int, month int) (*domain.AccountBalance, error) {
	query := `
		SELECT tenant_id, account_id, period_year, period_month, balance, computed_at
		FROM account_balances
		WHERE tenant_id = $1 AND account_id = $2 AND period_year = $3 AND period_month = $4;
	`
	var m models.AccountBalance
	err := r.pool.QueryRow(ctx, query, tenantID, accountID, year, month).Scan(
		&m.TenantID,
		&m.AccountID,
		&m.PeriodYear,
		&m.PeriodMonth,
		&m.Balance,
		&m.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, fmt.Sprintf("failed to find balance for account %s period %d-%02d", accountID, year, month), err)
	}

	return &domain.AccountBalance{
		TenantID:    m.TenantID,
		AccountID:   m.AccountID,
		PeriodYear:  m.PeriodYear,
		PeriodMonth: m.PeriodMonth,
		Balance:     m.Balance,
		ComputedAt:  m.ComputedAt,
	}, nil
}

// SumLinesForPeriod aggregates posted debits and credits against an account for
// one calendar month. Months with no activity yield two zero sums.
func (r *PgxBalanceRepository) SumLinesForPeriod(ctx context.Context, tenantID string, accountID string, year int, month int) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.tenant_id = $1
		  AND l.account_id = $2
		  AND EXTRACT(YEAR FROM e.entry_date) = $3
		  AND EXTRACT(MONTH FROM e.entry_date) = $4;
	`
	var debits, credits decimal.Decimal
	err := r.pool.QueryRow(ctx, query, tenantID, accountID, year, month).Scan(&debits, &credits)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, fmt.Sprintf("failed to sum lines for account %s period %d-%02d", accountID, year, month), err)
	}
	return debits, credits, nil
}

// UpsertBalance writes a materialized balance, overwriting any stale row for the
// same (tenant, account, period) key.
func (r *PgxBalanceRepository) UpsertBalance(ctx context.Context, balance domain.AccountBalance) error {
	query := `
		INSERT INTO account_balances (tenant_id, account_id, period_year, period_month, balance, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, account_id, period_year, period_month)
		DO UPDATE SET balance = EXCLUDED.balance, computed_at = EXCLUDED.computed_at;
	`
	_, err := r.pool.Exec(ctx, query,
		balance.TenantID,
		balance.AccountID,
		balance.PeriodYear,
		balance.PeriodMonth,
		balance.Balance,
		balance.ComputedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert balance for account "+balance.AccountID, err)
	}
	return nil
}
