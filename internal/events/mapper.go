package events

import (
	"context"
	"fmt"
	"time"

	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/dto"
	"github.com/shopspring/decimal"
)

// LineMapping tells the mapper which account codes an event type moves money
// between. Codes resolve through the chart of accounts with system fallback.
type LineMapping struct {
	DebitCode   string
	CreditCode  string
	Description string
}

// DefaultMappings returns the built-in event-to-posting rules. The codes refer
// to the shared system chart unless a tenant shadows them.
func DefaultMappings() map[string]LineMapping {
	return map[string]LineMapping{
		EventLoanDisbursed: {DebitCode: "1200", CreditCode: "1000", Description: "Loan disbursement"},
		EventLoanRepayment: {DebitCode: "1000", CreditCode: "1200", Description: "Loan repayment"},
		EventFeeCharged:    {DebitCode: "1000", CreditCode: "4100", Description: "Fee collection"},
	}
}

// Mapper turns inbound domain events into journal entry requests.
type Mapper struct {
	accountSvc portssvc.ChartOfAccountsSvc
	mappings   map[string]LineMapping
}

// NewMapper creates a mapper over the given event-to-posting rules.
func NewMapper(accountSvc portssvc.ChartOfAccountsSvc, mappings map[string]LineMapping) *Mapper {
	if mappings == nil {
		mappings = DefaultMappings()
	}
	return &Mapper{
		accountSvc: accountSvc,
		mappings:   mappings,
	}
}

// MapToEntryRequest builds the pre-validated posting request for an event.
// The event's own identity becomes the idempotency key pair, so redelivery of
// the same event replays instead of double-posting.
func (m *Mapper) MapToEntryRequest(ctx context.Context, env *Envelope) (*dto.CreateEntryRequest, error) {
	mapping, ok := m.mappings[env.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, env.EventType)
	}

	payload, err := DecodeMonetaryPayload(env)
	if err != nil {
		return nil, err
	}

	debitAccount, err := m.accountSvc.GetAccountByCode(ctx, env.TenantID, mapping.DebitCode)
	if err != nil {
		return nil, fmt.Errorf("resolving debit account %s: %w", mapping.DebitCode, err)
	}
	creditAccount, err := m.accountSvc.GetAccountByCode(ctx, env.TenantID, mapping.CreditCode)
	if err != nil {
		return nil, fmt.Errorf("resolving credit account %s: %w", mapping.CreditCode, err)
	}

	description := payload.Description
	if description == "" {
		description = mapping.Description
	}

	entryDate := time.Now().UTC()
	if env.OccurredAt != nil {
		entryDate = *env.OccurredAt
	}

	sourceEvent := env.EventType
	sourceID := env.SourceID
	return &dto.CreateEntryRequest{
		Reference:   payload.Reference,
		Description: description,
		EntryDate:   entryDate,
		SourceEvent: &sourceEvent,
		SourceID:    &sourceID,
		Lines: []dto.CreateLineRequest{
			{
				AccountID:    debitAccount.AccountID,
				DebitAmount:  payload.Amount,
				CreditAmount: decimal.Zero,
				Currency:     payload.Currency,
				Description:  description,
			},
			{
				AccountID:    creditAccount.AccountID,
				DebitAmount:  decimal.Zero,
				CreditAmount: payload.Amount,
				Currency:     payload.Currency,
				Description:  description,
			},
		},
	}, nil
}
