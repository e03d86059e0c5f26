// Package events implementa los destinos de eventos de dominio: log estructurado, Kafka y fan-out.
package events

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher escribe cada evento como una línea zerolog.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher construye el publicador sobre el logger dado.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With().Str("component", "events").Logger()}
}

// Publish nunca falla.
func (p *LogPublisher) Publish(_ context.Context, evt entity.DomainEvent) error {
	p.logger.Info().
		Str("event_id", evt.ID).
		Str("event_type", evt.Type).
		Str("aggregate_id", evt.AggregateID).
		Time("occurred_at", evt.OccurredAt).
		Interface("payload", evt.Payload).
		Msg("domain event")
	return nil
}
