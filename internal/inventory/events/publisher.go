package events

import (
	"context"

	"github.com/obatqu/obatqu-backend/pkg/httputil"
	"github.com/obatqu/obatqu-backend/pkg/logger"
	"github.com/obatqu/obatqu-backend/pkg/messaging"
)

// Publisher emits inventory events. A nil Publisher is valid and drops
// everything, which is how deployments without RabbitMQ run.
type Publisher struct {
	pub    *messaging.Publisher
	logger *logger.Logger
}

// NewPublisher creates an event publisher on the inventory exchange.
func NewPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*Publisher, error) {
	pub, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, "obatqu-backend", log)
	if err != nil {
		return nil, err
	}
	return &Publisher{pub: pub, logger: log}, nil
}

// publish sends the event, logging failures instead of propagating them.
// Event delivery never fails a committed mutation.
func (p *Publisher) publish(ctx context.Context, eventType string, data interface{}) {
	if p == nil || p.pub == nil {
		return
	}
	// Carry the HTTP request ID through as the event correlation ID so
	// consumers can tie an event back to the request that caused it.
	if id := httputil.GetRequestID(ctx); id != "" {
		ctx = messaging.WithCorrelationID(ctx, id)
	}
	if err := p.pub.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to publish event")
	}
}

// StockDispensed emits an event after a FEFO dispense commits.
func (p *Publisher) StockDispensed(ctx context.Context, e messaging.StockDispensedEvent) {
	p.publish(ctx, messaging.EventStockDispensed, e)
}

// StockAdjusted emits an event after a manual quantity change commits.
func (p *Publisher) StockAdjusted(ctx context.Context, e messaging.StockAdjustedEvent) {
	p.publish(ctx, messaging.EventStockAdjusted, e)
}

// AlertGenerated emits an event for one digest notification.
func (p *Publisher) AlertGenerated(ctx context.Context, e messaging.AlertGeneratedEvent) {
	p.publish(ctx, messaging.EventAlertGenerated, e)
}
