package services

import (
	"context"

	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/mikopo/ledger_service/internal/dto"
)

// JournalSvc posts and reads journal entries. Posted entries are immutable.
type JournalSvc interface {
	// PostEntry validates and atomically persists a balanced journal entry.
	// When the request carries a (sourceEvent, sourceID) pair that was already
	// posted, the existing entry is returned and nothing new is written.
	PostEntry(ctx context.Context, tenantID string, req dto.CreateEntryRequest, postedBy string) (*domain.JournalEntry, error)
	// GetEntryByID retrieves an entry with its lines.
	GetEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error)
	// ListEntries retrieves a page of entry headers, newest first, optionally
	// restricted to an entry date window.
	ListEntries(ctx context.Context, tenantID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}
