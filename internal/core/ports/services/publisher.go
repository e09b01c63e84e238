package services

import (
	"context"

	"github.com/mikopo/ledger_service/internal/core/domain"
)

// LedgerEventPublisher announces successfully posted entries to downstream
// consumers. Publishing happens after commit and must never fail the posting.
type LedgerEventPublisher interface {
	PublishPosted(ctx context.Context, entry domain.JournalEntry) error
}
