package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mikopo/ledger_service/internal/core/domain"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ErrDataIntegrity signals a trial balance that does not balance. Every posted
// entry balances individually, so an unbalanced report means the materializer
// produced a wrong aggregate. It is alerted, never silently corrected.
var ErrDataIntegrity = errors.New("trial balance totals do not agree")

// trialBalanceService compiles the per-period trial balance report.
type trialBalanceService struct {
	BaseService
	accountSvc portssvc.ChartOfAccountsSvc
	balanceSvc portssvc.BalanceSvc
}

// NewTrialBalanceService creates a new trial balance compiler.
func NewTrialBalanceService(accountSvc portssvc.ChartOfAccountsSvc, balanceSvc portssvc.BalanceSvc) portssvc.TrialBalanceSvc {
	return &trialBalanceService{
		accountSvc: accountSvc,
		balanceSvc: balanceSvc,
	}
}

var _ portssvc.TrialBalanceSvc = (*trialBalanceService)(nil)

// GetTrialBalance obtains each active account's period balance and places the
// net on its normal side, flipping side for negative nets so both columns stay
// non-negative. Rows with a zero net are omitted; they contribute nothing.
func (s *trialBalanceService) GetTrialBalance(ctx context.Context, tenantID string, year int, month int) (*domain.TrialBalance, error) {
	accounts, err := s.accountSvc.ListResolvedAccounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalance{
		TenantID:     tenantID,
		PeriodYear:   year,
		PeriodMonth:  month,
		Rows:         []domain.TrialBalanceRow{},
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}

	for _, account := range accounts {
		balance, err := s.balanceSvc.GetBalance(ctx, tenantID, account.AccountID, year, month)
		if err != nil {
			s.LogError(ctx, err, "Failed to obtain balance for trial balance row",
				slog.String("account_id", account.AccountID))
			return nil, err
		}
		if balance.Balance.IsZero() {
			continue
		}

		debit, credit := accounting.NormalSideColumns(account.BalanceType, balance.Balance)
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			AccountName: account.Name,
			AccountType: account.AccountType,
			Debit:       debit,
			Credit:      credit,
		})
		report.TotalDebits = report.TotalDebits.Add(debit)
		report.TotalCredits = report.TotalCredits.Add(credit)
	}

	report.Balanced = report.TotalDebits.Equal(report.TotalCredits)
	if !report.Balanced {
		s.LogError(ctx, ErrDataIntegrity, "Trial balance failed its integrity self-check",
			slog.Int("year", year),
			slog.Int("month", month),
			slog.String("total_debits", report.TotalDebits.String()),
			slog.String("total_credits", report.TotalCredits.String()))
	}
	return report, nil
}
