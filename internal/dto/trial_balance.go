package dto

import (
	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse is one account row of the trial balance report.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"accountID"`
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
}

// TrialBalanceResponse is the period trial balance report.
type TrialBalanceResponse struct {
	PeriodYear   int                       `json:"periodYear"`
	PeriodMonth  int                       `json:"periodMonth"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebits  decimal.Decimal           `json:"totalDebits"`
	TotalCredits decimal.Decimal           `json:"totalCredits"`
	Balanced     bool                      `json:"balanced"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance to its DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
	}
	return TrialBalanceResponse{
		PeriodYear:   tb.PeriodYear,
		PeriodMonth:  tb.PeriodMonth,
		Rows:         rows,
		TotalDebits:  tb.TotalDebits,
		TotalCredits: tb.TotalCredits,
		Balanced:     tb.Balanced,
	}
}
