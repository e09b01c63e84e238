package dto

import (
	"time"

	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one debit or credit line of an entry to be posted.
// Exactly one of debitAmount/creditAmount must be strictly positive; the posting
// engine enforces the shape, binding only guards the basics.
type CreateLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Currency     string          `json:"currency" binding:"required,len=3"`
	Description  string          `json:"description"`
}

// CreateEntryRequest defines a journal entry to be posted.
type CreateEntryRequest struct {
	Reference   string              `json:"reference"`
	Description string              `json:"description"`
	EntryDate   time.Time           `json:"entryDate" binding:"required"`
	Lines       []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
	// Optional idempotency key pair; both must be set for replay protection.
	SourceEvent *string `json:"sourceEvent"`
	SourceID    *string `json:"sourceID"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	LineNo       int             `json:"lineNo"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Currency     string          `json:"currency"`
	Description  string          `json:"description"`
}

// EntryResponse defines the data returned for an entry header.
type EntryResponse struct {
	EntryID     string          `json:"entryID"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
	EntryDate   time.Time       `json:"entryDate"`
	Status      string          `json:"status"`
	SourceEvent *string         `json:"sourceEvent,omitempty"`
	SourceID    *string         `json:"sourceID,omitempty"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	PostedBy    string          `json:"postedBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	Lines       []LineResponse  `json:"lines,omitempty"`
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	Limit     int        `form:"limit,default=20"`
	NextToken *string    `form:"nextToken"`
	FromDate  *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"toDate" time_format:"2006-01-02"`
}

// ListEntriesResponse wraps a page of entries with the cursor for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to its DTO.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:       l.LineID,
		AccountID:    l.AccountID,
		LineNo:       l.LineNo,
		DebitAmount:  l.DebitAmount,
		CreditAmount: l.CreditAmount,
		Currency:     l.Currency,
		Description:  l.Description,
	}
}

// ToEntryResponse converts a domain.JournalEntry (with or without lines) to its DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:     e.EntryID,
		Reference:   e.Reference,
		Description: e.Description,
		EntryDate:   e.EntryDate,
		Status:      string(e.Status),
		SourceEvent: e.SourceEvent,
		SourceID:    e.SourceID,
		TotalDebit:  e.TotalDebit,
		TotalCredit: e.TotalCredit,
		PostedBy:    e.PostedBy,
		CreatedAt:   e.CreatedAt,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]LineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = ToLineResponse(&l)
		}
	}
	return resp
}
