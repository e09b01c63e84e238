package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mikopo/ledger_service/internal/core/domain"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const postedRoutingKey = "ledger.posted"

// PostedNotification is the payload announced for every committed entry.
type PostedNotification struct {
	EntryID     string          `json:"entryId"`
	TenantID    string          `json:"tenantId"`
	Reference   string          `json:"reference"`
	EntryDate   time.Time       `json:"entryDate"`
	SourceEvent *string         `json:"sourceEvent,omitempty"`
	SourceID    *string         `json:"sourceId,omitempty"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// AMQPPublisher announces posted entries on a topic exchange. It runs strictly
// after commit; a publish failure is the caller's logging concern and never
// touches the ledger transaction.
type AMQPPublisher struct {
	channel  *amqp.Channel
	exchange string
}

// NewAMQPPublisher declares the exchange and returns a publisher bound to it.
func NewAMQPPublisher(channel *amqp.Channel, exchange string) (*AMQPPublisher, error) {
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &AMQPPublisher{
		channel:  channel,
		exchange: exchange,
	}, nil
}

var _ portssvc.LedgerEventPublisher = (*AMQPPublisher)(nil)

// PublishPosted sends the ledger.posted notification for a committed entry.
func (p *AMQPPublisher) PublishPosted(ctx context.Context, entry domain.JournalEntry) error {
	notification := PostedNotification{
		EntryID:     entry.EntryID,
		TenantID:    entry.TenantID,
		Reference:   entry.Reference,
		EntryDate:   entry.EntryDate,
		SourceEvent: entry.SourceEvent,
		SourceID:    entry.SourceID,
		TotalDebit:  entry.TotalDebit,
		TotalCredit: entry.TotalCredit,
	}

	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx, p.exchange, postedRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
}
