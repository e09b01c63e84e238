package services

import (
	"context"

	"github.com/mikopo/ledger_service/internal/core/domain"
)

// BalanceSvc serves period balances through a write-through monthly cache and
// exposes the full per-account ledger.
type BalanceSvc interface {
	// GetBalance returns the account's balance for the calendar month, expressed
	// in the account's normal balance convention. Cache misses are computed from
	// the journal lines and materialized before returning.
	GetBalance(ctx context.Context, tenantID string, accountID string, year int, month int) (*domain.AccountBalance, error)
	// RefreshBalance recomputes the period balance from the journal lines and
	// overwrites the cached row, returning the fresh value.
	RefreshBalance(ctx context.Context, tenantID string, accountID string, year int, month int) (*domain.AccountBalance, error)
	// GetLedger returns every line ever posted against the account, with entry
	// context, ordered chronologically.
	GetLedger(ctx context.Context, tenantID string, accountID string) ([]domain.JournalLine, error)
}
