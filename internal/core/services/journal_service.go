package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mikopo/ledger_service/internal/apperrors"
	"github.com/mikopo/ledger_service/internal/core/domain"
	portsrepo "github.com/mikopo/ledger_service/internal/core/ports/repositories"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/dto"
	"github.com/shopspring/decimal"
)

var (
	ErrEntryMinLines   = errors.New("entry must have at least two lines")
	ErrUnknownAccount  = errors.New("line account does not resolve")
	ErrAccountInactive = errors.New("line account is deactivated")
	ErrInvalidLine     = errors.New("line must carry exactly one of debit or credit, strictly positive")
	ErrUnbalancedEntry = errors.New("entry debits and credits do not balance")
)

// journalService validates and atomically posts journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepository
	accountSvc  portssvc.ChartOfAccountsSvc
	balanceSvc  portssvc.BalanceSvc
	publisher   portssvc.LedgerEventPublisher
}

// JournalServiceOption configures optional collaborators of the journal service.
type JournalServiceOption func(*journalService)

// WithBalanceRefresher makes posting synchronously refresh the materialized
// balances of the affected accounts for the entry's period.
func WithBalanceRefresher(balanceSvc portssvc.BalanceSvc) JournalServiceOption {
	return func(s *journalService) {
		s.balanceSvc = balanceSvc
	}
}

// WithPublisher makes posting announce each committed entry downstream.
func WithPublisher(publisher portssvc.LedgerEventPublisher) JournalServiceOption {
	return func(s *journalService) {
		s.publisher = publisher
	}
}

// NewJournalService creates a new journal posting service.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountSvc portssvc.ChartOfAccountsSvc, opts ...JournalServiceOption) portssvc.JournalSvc {
	s := &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.JournalSvc = (*journalService)(nil)

// PostEntry validates and atomically persists a balanced journal entry.
// Validation order: line count, account resolution, line shape, balance, then
// the idempotency race is closed by the unique index at insert time.
func (s *journalService) PostEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, postedBy string) (*domain.JournalEntry, error) {
	if (req.SourceEvent == nil) != (req.SourceID == nil) {
		return nil, fmt.Errorf("%w: sourceEvent and sourceID must be provided together", apperrors.ErrValidation)
	}
	if len(req.Lines) < 2 {
		return nil, ErrEntryMinLines
	}

	for _, line := range req.Lines {
		account, err := s.accountSvc.GetAccountByID(ctx, tenantID, line.AccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, line.AccountID)
			}
			return nil, err
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrAccountInactive, line.AccountID)
		}
	}

	totalDebit, totalCredit, err := s.validateLineShapes(req.Lines)
	if err != nil {
		return nil, err
	}
	if !totalDebit.Equal(totalCredit) {
		return nil, fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			ErrUnbalancedEntry, totalDebit.String(), totalCredit.String())
	}

	now := time.Now()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		TenantID:    tenantID,
		Reference:   req.Reference,
		Description: req.Description,
		EntryDate:   req.EntryDate,
		Status:      domain.Posted,
		SourceEvent: req.SourceEvent,
		SourceID:    req.SourceID,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		PostedBy:    postedBy,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     postedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: postedBy,
		},
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:       uuid.NewString(),
			EntryID:      entry.EntryID,
			AccountID:    l.AccountID,
			LineNo:       i + 1,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Currency:     l.Currency,
			Description:  l.Description,
		}
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.SourceEvent != nil && req.SourceID != nil {
			// Insert, catch conflict, re-read: the same source was already
			// posted, possibly by a concurrent delivery. Return it.
			return s.replayExistingEntry(ctx, tenantID, *req.SourceEvent, *req.SourceID)
		}
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("entry_id", entry.EntryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("total_debit", totalDebit.String()),
		slog.Int("line_count", len(lines)))

	s.refreshBalances(ctx, entry, lines)
	s.publishPosted(ctx, entry)

	entry.Lines = lines
	return &entry, nil
}

// validateLineShapes checks each line carries exactly one strictly positive side
// and returns the two column sums.
func (s *journalService) validateLineShapes(lines []dto.CreateLineRequest) (decimal.Decimal, decimal.Decimal, error) {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, line := range lines {
		debitSet := line.DebitAmount.IsPositive()
		creditSet := line.CreditAmount.IsPositive()
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() || debitSet == creditSet {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: line %d", ErrInvalidLine, i+1)
		}
		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
	}
	return totalDebit, totalCredit, nil
}

// replayExistingEntry re-reads the entry previously posted for the source pair.
func (s *journalService) replayExistingEntry(ctx context.Context, tenantID string, sourceEvent string, sourceID string) (*domain.JournalEntry, error) {
	existing, err := s.journalRepo.FindEntryBySource(ctx, tenantID, sourceEvent, sourceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to re-read entry after idempotency conflict",
			slog.String("source_event", sourceEvent), slog.String("source_id", sourceID))
		return nil, err
	}
	existingLines, err := s.journalRepo.FindLinesByEntryID(ctx, existing.EntryID)
	if err != nil {
		return nil, err
	}
	existing.Lines = existingLines

	s.LogInfo(ctx, "Idempotent replay: returning previously posted entry",
		slog.String("entry_id", existing.EntryID),
		slog.String("source_event", sourceEvent),
		slog.String("source_id", sourceID))
	return existing, nil
}

// refreshBalances recomputes the materialized period balances touched by the
// entry. The post is already durable; a refresh failure only leaves a cache
// that the next read recomputes, so it is logged and not propagated.
func (s *journalService) refreshBalances(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) {
	if s.balanceSvc == nil {
		return
	}
	year, month := entry.EntryDate.Year(), int(entry.EntryDate.Month())

	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		if _, err := s.balanceSvc.RefreshBalance(ctx, entry.TenantID, line.AccountID, year, month); err != nil {
			s.LogError(ctx, err, "Failed to refresh balance after posting",
				slog.String("entry_id", entry.EntryID),
				slog.String("account_id", line.AccountID))
		}
	}
}

// publishPosted announces the committed entry. Emission failure never affects
// the post; it is logged and left to the publisher's own retry concern.
func (s *journalService) publishPosted(ctx context.Context, entry domain.JournalEntry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPosted(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger.posted notification",
			slog.String("entry_id", entry.EntryID))
	}
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, tenantID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entry by ID", slog.String("entry_id", entryID))
		}
		return nil, err
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load lines for entry", slog.String("entry_id", entryID))
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a page of entry headers, newest first.
func (s *journalService) ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	entries, nextToken, err := s.journalRepo.ListEntries(ctx, tenantID, params.FromDate, params.ToDate, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries")
		return nil, err
	}

	resp := &dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return resp, nil
}
