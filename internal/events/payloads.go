package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMalformedEvent   = errors.New("event payload is malformed")
	ErrUnknownEventType = errors.New("no mapping for event type")
)

// Event types consumed from upstream services.
const (
	EventLoanDisbursed = "loan.disbursed"
	EventLoanRepayment = "loan.repayment"
	EventFeeCharged    = "fee.charged"
)

// Envelope is the common shape of every inbound domain event. The business
// payload stays raw until the event type selects a typed struct for it.
type Envelope struct {
	EventType  string          `json:"eventType"`
	SourceID   string          `json:"sourceId"`
	TenantID   string          `json:"tenantId"`
	OccurredAt *time.Time      `json:"occurredAt"`
	Payload    json.RawMessage `json:"payload"`
}

// MonetaryPayload is the part of a payload every mappable event must carry.
type MonetaryPayload struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Reference   string          `json:"reference"`
	Description string          `json:"description"`
}

// DecodeEnvelope parses and structurally validates an inbound event.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if env.EventType == "" || env.SourceID == "" || env.TenantID == "" {
		return nil, fmt.Errorf("%w: eventType, sourceId and tenantId are required", ErrMalformedEvent)
	}
	return &env, nil
}

// DecodeMonetaryPayload parses the business payload of a mappable event and
// rejects it before it can reach the posting engine when required fields are
// missing or unusable. Unknown fields are ignored.
func DecodeMonetaryPayload(env *Envelope) (*MonetaryPayload, error) {
	var p MonetaryPayload
	if len(env.Payload) == 0 {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformedEvent)
	}
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be strictly positive", ErrMalformedEvent)
	}
	if len(p.Currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrMalformedEvent)
	}
	return &p, nil
}
