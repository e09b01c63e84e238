package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors domain.EntryStatus for persistence.
type EntryStatus string

// JournalEntry is the persistence shape of a journal entry header.
type JournalEntry struct {
	EntryID     string          `db:"entry_id"`
	TenantID    string          `db:"tenant_id"`
	Reference   string          `db:"reference"`
	Description string          `db:"description"`
	EntryDate   time.Time       `db:"entry_date"`
	Status      EntryStatus     `db:"status"`
	SourceEvent *string         `db:"source_event"`
	SourceID    *string         `db:"source_id"`
	TotalDebit  decimal.Decimal `db:"total_debit"`
	TotalCredit decimal.Decimal `db:"total_credit"`
	PostedBy    string          `db:"posted_by"`
	AuditFields
}

// JournalLine is the persistence shape of a journal line.
type JournalLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	AccountID    string          `db:"account_id"`
	LineNo       int             `db:"line_no"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	Currency     string          `db:"currency"`
	Description  string          `db:"description"`

	// Joined columns for ledger queries; not stored on the lines table.
	AccountCode    string    `db:"account_code"`
	AccountName    string    `db:"account_name"`
	EntryReference string    `db:"entry_reference"`
	EntryDate      time.Time `db:"entry_date"`
}
