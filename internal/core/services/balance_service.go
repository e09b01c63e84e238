package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikopo/ledger_service/internal/apperrors"
	"github.com/mikopo/ledger_service/internal/core/domain"
	portsrepo "github.com/mikopo/ledger_service/internal/core/ports/repositories"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/utils/accounting"
)

// balanceService materializes per-account monthly balances over immutable lines.
// Recomputation is pure aggregation, so concurrent refreshes of the same key
// overwrite each other with the same deterministic value.
type balanceService struct {
	BaseService
	balanceRepo portsrepo.BalanceRepository
	journalRepo portsrepo.JournalRepository
	accountSvc  portssvc.ChartOfAccountsSvc
}

// NewBalanceService creates a new balance materializer service.
func NewBalanceService(balanceRepo portsrepo.BalanceRepository, journalRepo portsrepo.JournalRepository, accountSvc portssvc.ChartOfAccountsSvc) portssvc.BalanceSvc {
	return &balanceService{
		balanceRepo: balanceRepo,
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func validatePeriod(year int, month int) error {
	if month < 1 || month > 12 || year < 1 {
		return fmt.Errorf("%w: invalid period %d-%d", apperrors.ErrValidation, year, month)
	}
	return nil
}

// GetBalance returns the cached balance when present, otherwise computes it
// from the journal lines, persists it and returns it.
func (s *balanceService) GetBalance(ctx context.Context, tenantID string, accountID string, year int, month int) (*domain.AccountBalance, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	balance, err := s.balanceRepo.FindBalance(ctx, tenantID, accountID, year, month)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to read cached balance", slog.String("account_id", accountID))
		return nil, err
	}

	return s.RefreshBalance(ctx, tenantID, accountID, year, month)
}

// RefreshBalance recomputes the period balance from the journal lines and
// overwrites the cached row.
func (s *balanceService) RefreshBalance(ctx context.Context, tenantID string, accountID string, year int, month int) (*domain.AccountBalance, error) {
	if err := validatePeriod(year, month); err != nil {
		return nil, err
	}

	account, err := s.accountSvc.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	debits, credits, err := s.balanceRepo.SumLinesForPeriod(ctx, tenantID, accountID, year, month)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum lines for period", slog.String("account_id", accountID))
		return nil, err
	}

	net, err := accounting.NetBalance(account.BalanceType, debits, credits)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute net balance", slog.String("account_id", accountID))
		return nil, err
	}

	balance := domain.AccountBalance{
		TenantID:    tenantID,
		AccountID:   accountID,
		PeriodYear:  year,
		PeriodMonth: month,
		Balance:     net,
		ComputedAt:  time.Now(),
	}
	if err := s.balanceRepo.UpsertBalance(ctx, balance); err != nil {
		s.LogError(ctx, err, "Failed to persist materialized balance", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogDebug(ctx, "Balance materialized",
		slog.String("account_id", accountID),
		slog.Int("year", year),
		slog.Int("month", month),
		slog.String("balance", net.String()))
	return &balance, nil
}

// GetLedger returns the account's full audit trail in posting order.
func (s *balanceService) GetLedger(ctx context.Context, tenantID string, accountID string) ([]domain.JournalLine, error) {
	// Resolve first so an unknown account is NotFound, not an empty ledger.
	if _, err := s.accountSvc.GetAccountByID(ctx, tenantID, accountID); err != nil {
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByAccountID(ctx, tenantID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger", slog.String("account_id", accountID))
		return nil, err
	}
	if lines == nil {
		return []domain.JournalLine{}, nil
	}
	return lines, nil
}
