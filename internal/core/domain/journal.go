package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry. Entries are immutable once
// posted; corrections are made by posting a new offsetting entry.
type EntryStatus string

const (
	Posted EntryStatus = "POSTED"
)

// JournalEntry is a single, balanced financial event composed of at least two lines.
// TotalDebit and TotalCredit are denormalized from the lines for fast trial-balance
// aggregation and must always be equal.
type JournalEntry struct {
	EntryID     string      `json:"entryID"`
	TenantID    string      `json:"tenantID"`
	Reference   string      `json:"reference"` // human label, not required unique
	Description string      `json:"description"`
	EntryDate   time.Time   `json:"entryDate"`
	Status      EntryStatus `json:"status"`
	// SourceEvent/SourceID form the idempotency key pair for event-driven postings.
	// Both nil for entries posted directly through the API.
	SourceEvent *string         `json:"sourceEvent,omitempty"`
	SourceID    *string         `json:"sourceID,omitempty"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	PostedBy    string          `json:"postedBy"`
	AuditFields

	// Lines are loaded on demand; nil when the header was fetched alone.
	Lines []JournalLine `json:"lines,omitempty"`
}

// JournalLine is a single debit or credit against one account within an entry.
// Exactly one of DebitAmount/CreditAmount is strictly positive, the other zero.
type JournalLine struct {
	LineID       string          `json:"lineID"`
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	LineNo       int             `json:"lineNo"` // 1-based, entry-scoped display/audit order
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description"`

	// Joined fields populated by ledger queries.
	AccountCode    string    `json:"accountCode,omitempty"`
	AccountName    string    `json:"accountName,omitempty"`
	EntryReference string    `json:"entryReference,omitempty"`
	EntryDate      time.Time `json:"entryDate,omitempty"`
}
