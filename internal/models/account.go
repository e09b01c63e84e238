package models

// AccountType mirrors domain.AccountType for persistence.
type AccountType string

// BalanceType mirrors domain.BalanceType for persistence.
type BalanceType string

// Account is the persistence shape of a chart-of-accounts entry.
type Account struct {
	AccountID       string      `db:"account_id"`
	TenantID        string      `db:"tenant_id"`
	Code            string      `db:"code"`
	Name            string      `db:"name"`
	AccountType     AccountType `db:"account_type"`
	BalanceType     BalanceType `db:"balance_type"`
	ParentAccountID string      `db:"parent_account_id"` // nullable
	IsActive        bool        `db:"is_active"`
	AuditFields
}
