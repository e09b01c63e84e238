package events

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mikopo/ledger_service/internal/apperrors"
	portssvc "github.com/mikopo/ledger_service/internal/core/ports/services"
	"github.com/mikopo/ledger_service/internal/core/services"
	"github.com/mikopo/ledger_service/internal/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer ingests domain events from an AMQP queue and posts the mapped
// journal entries. Delivery is at-least-once; the posting engine's idempotency
// key makes redelivery safe.
type Consumer struct {
	channel    *amqp.Channel
	queue      string
	mapper     *Mapper
	journalSvc portssvc.JournalSvc
	logger     *slog.Logger
	retryMax   int
	retryDelay time.Duration
}

// NewConsumer creates a consumer over an already-open channel. The caller owns
// the connection lifecycle.
func NewConsumer(channel *amqp.Channel, queue string, mapper *Mapper, journalSvc portssvc.JournalSvc, logger *slog.Logger, retryMax int, retryDelay time.Duration) *Consumer {
	return &Consumer{
		channel:    channel,
		queue:      queue,
		mapper:     mapper,
		journalSvc: journalSvc,
		logger:     logger,
		retryMax:   retryMax,
		retryDelay: retryDelay,
	}
}

// Start declares the queue and consumes it until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return err
	}

	deliveries, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.logger.Info("Event consumer started", slog.String("queue", c.queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("event delivery channel closed")
			}
			c.handleDelivery(ctx, delivery)
		}
	}
}

// handleDelivery processes one message end to end. Every outcome acknowledges
// the delivery: retries are bounded in-process, and a message that still fails
// is dropped with a logged error rather than requeued forever.
func (c *Consumer) handleDelivery(ctx context.Context, delivery amqp.Delivery) {
	if err := c.process(ctx, delivery.Body); err != nil {
		c.logger.Error("Dropping event after processing failure", slog.String("error", err.Error()))
	}
	if err := delivery.Ack(false); err != nil {
		c.logger.Error("Failed to ack delivery", slog.String("error", err.Error()))
	}
}

// process decodes, maps and posts one event body.
func (c *Consumer) process(ctx context.Context, body []byte) error {
	env, err := DecodeEnvelope(body)
	if err != nil {
		return err
	}

	logger := c.logger.With(
		slog.String("event_type", env.EventType),
		slog.String("source_id", env.SourceID),
		slog.String("tenant_id", env.TenantID),
	)
	ctx = middleware.AddLoggerToCtx(ctx, logger)

	// Account resolution may lose a race with account provisioning, and storage
	// can fail transiently, so both get a bounded retry. Everything else fails
	// fast: a malformed or unbalanced event will not become well-formed by
	// waiting.
	var lastErr error
	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
			logger.Warn("Retrying event after transient failure", slog.Int("attempt", attempt))
		}

		req, err := c.mapper.MapToEntryRequest(ctx, env)
		if err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return err
		}

		entry, err := c.journalSvc.PostEntry(ctx, env.TenantID, *req, "event-ingestion")
		if err != nil {
			if isRetryable(err) {
				lastErr = err
				continue
			}
			return err
		}

		logger.Info("Event posted to ledger", slog.String("entry_id", entry.EntryID))
		return nil
	}
	return lastErr
}

// isRetryable reports whether the failure may be an event-ordering race or a
// transient storage condition rather than a malformed event. Repositories
// report storage failures as AppError with a 5xx code.
func isRetryable(err error) bool {
	if errors.Is(err, services.ErrUnknownAccount) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrInternal) {
		return true
	}
	var appErr *apperrors.AppError
	return errors.As(err, &appErr) && appErr.Code >= 500
}
