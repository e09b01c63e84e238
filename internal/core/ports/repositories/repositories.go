package repositories

import (
	"context"
	"time"

	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the persistence operations for the chart of accounts.
// All lookups are scoped to a single tenant; resolution across the system tenant
// is a service concern, not a repository one.
type AccountRepository interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate when the
	// (tenantID, code) pair already exists.
	SaveAccount(ctx context.Context, account domain.Account) error
	// FindAccountByID retrieves an account by its ID within the tenant.
	// Returns apperrors.ErrNotFound if no account matches.
	FindAccountByID(ctx context.Context, tenantID string, accountID string) (*domain.Account, error)
	// FindAccountByCode retrieves an account by its code within the tenant.
	// Returns apperrors.ErrNotFound if no account matches.
	FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.Account, error)
	// ListAccounts retrieves the tenant's accounts, optionally filtered by type.
	// Inactive accounts are excluded unless includeInactive is set.
	ListAccounts(ctx context.Context, tenantID string, accountType *domain.AccountType, includeInactive bool) ([]domain.Account, error)
	// UpdateAccount persists changes to an existing account's mutable fields.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// JournalRepository defines the persistence operations for journal entries and lines.
type JournalRepository interface {
	// SaveEntry persists an entry header and all of its lines in one transaction.
	// Returns apperrors.ErrDuplicate when the entry's (sourceEvent, sourceID) pair
	// was already posted for the tenant; nothing is written in that case.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error
	// FindEntryByID retrieves an entry header by its ID within the tenant.
	// Returns apperrors.ErrNotFound if no entry matches.
	FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)
	// FindEntryBySource retrieves the entry posted for the given idempotency key
	// pair. Returns apperrors.ErrNotFound if none was posted.
	FindEntryBySource(ctx context.Context, tenantID string, sourceEvent string, sourceID string) (*domain.JournalEntry, error)
	// FindLinesByEntryID retrieves an entry's lines ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)
	// ListEntries retrieves entry headers for the tenant, newest first, optionally
	// restricted to an entry date window. Pagination follows the (entryDate,
	// createdAt) cursor; the returned token is nil on the last page.
	ListEntries(ctx context.Context, tenantID string, fromDate *time.Time, toDate *time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
	// FindLinesByAccountID retrieves every line ever posted against the account,
	// joined with its entry context and account identity, ordered by entry date
	// then line number.
	FindLinesByAccountID(ctx context.Context, tenantID string, accountID string) ([]domain.JournalLine, error)
}

// RepositoryProvider bundles the concrete repositories for dependency injection.
type RepositoryProvider struct {
	AccountRepo AccountRepository
	JournalRepo JournalRepository
	BalanceRepo BalanceRepository
}

// BalanceRepository defines the persistence operations for materialized period balances.
type BalanceRepository interface {
	// FindBalance retrieves the cached balance for the account and period.
	// Returns apperrors.ErrNotFound when the period has not been materialized.
	FindBalance(ctx context.Context, tenantID string, accountID string, year int, month int) (*domain.AccountBalance, error)
	// SumLinesForPeriod aggregates posted debits and credits against the account
	// for the calendar month. Both sums are zero when no lines exist.
	SumLinesForPeriod(ctx context.Context, tenantID string, accountID string, year int, month int) (debits decimal.Decimal, credits decimal.Decimal, err error)
	// UpsertBalance writes the materialized balance, replacing any stale row for
	// the same (tenant, account, period) key.
	UpsertBalance(ctx context.Context, balance domain.AccountBalance) error
}
