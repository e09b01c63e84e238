package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the cached net balance of one account for one calendar month.
// It is a materialized view of JournalLine sums, never a source of truth: replaying
// the lines for the period must always reproduce it. For DEBIT-balance accounts the
// net is sum(debit) - sum(credit); for CREDIT-balance accounts the reverse.
type AccountBalance struct {
	TenantID    string          `json:"tenantID"`
	AccountID   string          `json:"accountID"`
	PeriodYear  int             `json:"periodYear"`
	PeriodMonth int             `json:"periodMonth"`
	Balance     decimal.Decimal `json:"balance"`
	ComputedAt  time.Time       `json:"computedAt"`
}
