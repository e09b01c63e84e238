package dto

import (
	"time"

	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceResponse defines the data returned for a period balance query.
type BalanceResponse struct {
	AccountID   string          `json:"accountID"`
	PeriodYear  int             `json:"periodYear"`
	PeriodMonth int             `json:"periodMonth"`
	Balance     decimal.Decimal `json:"balance"`
	ComputedAt  time.Time       `json:"computedAt"`
}

// LedgerLineResponse is one line of an account's full audit trail, with the joined
// account and entry context.
type LedgerLineResponse struct {
	LineID         string          `json:"lineID"`
	EntryID        string          `json:"entryID"`
	EntryReference string          `json:"entryReference"`
	EntryDate      time.Time       `json:"entryDate"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	LineNo         int             `json:"lineNo"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
}

// LedgerResponse wraps an account's full ledger.
type LedgerResponse struct {
	AccountID string               `json:"accountID"`
	Lines     []LedgerLineResponse `json:"lines"`
}

// ToBalanceResponse converts a domain.AccountBalance to its DTO.
func ToBalanceResponse(b *domain.AccountBalance) BalanceResponse {
	return BalanceResponse{
		AccountID:   b.AccountID,
		PeriodYear:  b.PeriodYear,
		PeriodMonth: b.PeriodMonth,
		Balance:     b.Balance,
		ComputedAt:  b.ComputedAt,
	}
}

// ToLedgerResponse converts joined ledger lines to the response DTO.
func ToLedgerResponse(accountID string, lines []domain.JournalLine) LedgerResponse {
	res := make([]LedgerLineResponse, len(lines))
	for i, l := range lines {
		res[i] = LedgerLineResponse{
			LineID:         l.LineID,
			EntryID:        l.EntryID,
			EntryReference: l.EntryReference,
			EntryDate:      l.EntryDate,
			AccountCode:    l.AccountCode,
			AccountName:    l.AccountName,
			LineNo:         l.LineNo,
			DebitAmount:    l.DebitAmount,
			CreditAmount:   l.CreditAmount,
			Currency:       l.Currency,
			Description:    l.Description,
		}
	}
	return LedgerResponse{AccountID: accountID, Lines: res}
}
