package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account's net balance for the period, presented on the
// account's normal side. A negative net flips to the opposite column so that the
// column totals stay directly comparable.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalance aggregates every active account's balance for a period and records
// whether total debits equal total credits. Balanced must always be true for a
// correctly materialized ledger; false signals a data-integrity defect.
type TrialBalance struct {
	TenantID     string            `json:"tenantID"`
	PeriodYear   int               `json:"periodYear"`
	PeriodMonth  int               `json:"periodMonth"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	Balanced     bool              `json:"balanced"`
}
