package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the persistence shape of a cached monthly account balance.
type AccountBalance struct {
	TenantID    string          `db:"tenant_id"`
	AccountID   string          `db:"account_id"`
	PeriodYear  int             `db:"period_year"`
	PeriodMonth int             `db:"period_month"`
	Balance     decimal.Decimal `db:"balance"`
	ComputedAt  time.Time       `db:"computed_at"`
}
