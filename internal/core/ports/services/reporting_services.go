package services

import (
	"context"

	"github.com/mikopo/ledger_service/internal/core/domain"
)

// TrialBalanceSvc compiles the per-period trial balance report.
type TrialBalanceSvc interface {
	// GetTrialBalance compiles one row per account with activity or an existing
	// balance in the period, placing each net on its normal side. Total debits
	// and credits must agree; a mismatch marks the report unbalanced and is
	// surfaced as a data integrity failure.
	GetTrialBalance(ctx context.Context, tenantID string, year int, month int) (*domain.TrialBalance, error)
}
