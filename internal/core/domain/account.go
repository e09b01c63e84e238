package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// BalanceType identifies the side on which an account's balance increases.
type BalanceType string

const (
	DebitBalance  BalanceType = "DEBIT"
	CreditBalance BalanceType = "CREDIT"
)

// Account represents one node of a tenant's chart of accounts.
// Accounts are never hard-deleted; deactivation is the only removal path, and
// deactivated accounts must still resolve for historical line lookups.
type Account struct {
	AccountID       string      `json:"accountID"`
	TenantID        string      `json:"tenantID"`
	Code            string      `json:"code"` // unique per tenant, <= 20 chars
	Name            string      `json:"name"`
	AccountType     AccountType `json:"accountType"`
	BalanceType     BalanceType `json:"balanceType"`
	ParentAccountID string      `json:"parentAccountID"` // empty when the account is a root
	IsActive        bool        `json:"isActive"`
	AuditFields
}
