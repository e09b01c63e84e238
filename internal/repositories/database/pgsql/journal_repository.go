package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikopo/ledger_service/internal/apperrors"
	"github.com/mikopo/ledger_service/internal/core/domain"
	portsrepo "github.com/mikopo/ledger_service/internal/core/ports/repositories"
	"github.com/mikopo/ledger_service/internal/models"
	"github.com/mikopo/ledger_service/internal/utils/mapping"
	"github.com/mikopo/ledger_service/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry and line data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepository
var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, tenant_id, reference, description, entry_date, status, source_event, source_id, total_debit, total_credit, posted_by, created_at, created_by, last_updated_at, last_updated_by`

// SaveEntry saves an entry header and all of its lines within a DB transaction.
// A unique violation on the (tenant_id, source_event, source_id) index means the
// same source was already posted; the caller handles that as a replay.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction commits

	modelEntry := mapping.ToModelJournalEntry(entry)
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, entryQuery,
		modelEntry.EntryID,
		modelEntry.TenantID,
		modelEntry.Reference,
		modelEntry.Description,
		modelEntry.EntryDate,
		modelEntry.Status,
		modelEntry.SourceEvent,
		modelEntry.SourceID,
		modelEntry.TotalDebit,
		modelEntry.TotalCredit,
		modelEntry.PostedBy,
		modelEntry.CreatedAt,
		modelEntry.CreatedBy,
		modelEntry.LastUpdatedAt,
		modelEntry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: entry for this source was already posted", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+modelEntry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, line_no, debit_amount, credit_amount, currency, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, line := range lines {
		modelLine := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery,
			modelLine.LineID,
			modelLine.EntryID,
			modelLine.AccountID,
			modelLine.LineNo,
			modelLine.DebitAmount,
			modelLine.CreditAmount,
			modelLine.Currency,
			modelLine.Description,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for entry "+modelEntry.EntryID, err)
	}

	return r.Commit(ctx, tx)
}

func scanEntryRow(row pgx.Row) (*models.JournalEntry, error) {
	var modelEntry models.JournalEntry
	var sourceEvent, sourceID sql.NullString

	err := row.Scan(
		&modelEntry.EntryID,
		&modelEntry.TenantID,
		&modelEntry.Reference,
		&modelEntry.Description,
		&modelEntry.EntryDate,
		&modelEntry.Status,
		&sourceEvent,
		&sourceID,
		&modelEntry.TotalDebit,
		&modelEntry.TotalCredit,
		&modelEntry.PostedBy,
		&modelEntry.CreatedAt,
		&modelEntry.CreatedBy,
		&modelEntry.LastUpdatedAt,
		&modelEntry.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if sourceEvent.Valid {
		modelEntry.SourceEvent = &sourceEvent.String
	}
	if sourceID.Valid {
		modelEntry.SourceID = &sourceID.String
	}
	return &modelEntry, nil
}

// FindEntryByID retrieves an entry header by its ID within a tenant.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2;`

	modelEntry, err := scanEntryRow(r.Pool.QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("entry " + entryID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}

	domainEntry := mapping.ToDomainJournalEntry(*modelEntry)
	return &domainEntry, nil
}

// FindEntryBySource retrieves the entry posted for a (sourceEvent, sourceID) pair.
func (r *PgxJournalRepository) FindEntryBySource(ctx context.Context, tenantID string, sourceEvent string, sourceID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND source_event = $2 AND source_id = $3;`

	modelEntry, err := scanEntryRow(r.Pool.QueryRow(ctx, query, tenantID, sourceEvent, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by source "+sourceEvent+"/"+sourceID, err)
	}

	domainEntry := mapping.ToDomainJournalEntry(*modelEntry)
	return &domainEntry, nil
}

// FindLinesByEntryID retrieves all lines of an entry ordered by line number.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, line_no, debit_amount, credit_amount, currency, description
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_no;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	modelLines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.LineNo,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.Currency,
			&l.Description,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		modelLines = append(modelLines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return mapping.ToDomainJournalLineSlice(modelLines), nil
}

// ListEntries retrieves a paginated list of entry headers for a tenant, newest
// first, optionally restricted to an entry date window. Pagination is
// token-based over the stable (entry_date, created_at) ordering.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID string, fromDate *time.Time, toDate *time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	if fromDate != nil {
		args = append(args, *fromDate)
		query += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if toDate != nil {
		args = append(args, *toDate)
		query += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastEntryDate, lastCreatedAt)
		query += fmt.Sprintf(" AND (entry_date, created_at) < ($%d, $%d)", len(args)-1, len(args))
	}

	args = append(args, fetchLimit)
	query += " ORDER BY entry_date DESC, created_at DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for tenant "+tenantID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		modelEntry, err := scanEntryRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for tenant "+tenantID, err)
		}
		modelEntries = append(modelEntries, *modelEntry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for tenant "+tenantID, err)
	}

	var nextTokenVal *string
	if len(modelEntries) > limit {
		last := modelEntries[limit-1] // Last item actually included in this page
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		modelEntries = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}

// FindLinesByAccountID retrieves every line posted against an account, joined
// with the owning entry and account identity, in chronological order.
func (r *PgxJournalRepository) FindLinesByAccountID(ctx context.Context, tenantID string, accountID string) ([]domain.JournalLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, l.line_no, l.debit_amount, l.credit_amount, l.currency, l.description,
		       a.code, a.name, e.reference, e.entry_date
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		JOIN accounts a ON l.account_id = a.account_id
		WHERE l.account_id = $1 AND e.tenant_id = $2
		ORDER BY e.entry_date, e.created_at, l.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, tenantID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger for account "+accountID, err)
	}
	defer rows.Close()

	modelLines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.LineNo,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.Currency,
			&l.Description,
			&l.AccountCode,
			&l.AccountName,
			&l.EntryReference,
			&l.EntryDate,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger row for account "+accountID, err)
		}
		modelLines = append(modelLines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger rows for account "+accountID, err)
	}

	return mapping.ToDomainJournalLineSlice(modelLines), nil
}
