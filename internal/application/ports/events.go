package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// EventPublisher emite eventos de dominio ya confirmados (después del commit).
type EventPublisher interface {
	Publish(ctx context.Context, event entity.DomainEvent) error
}

// Emit construye y publica un evento. La publicación es fire-and-forget:
// el error se registra y nunca se devuelve al llamador.
func Emit(ctx context.Context, pub EventPublisher, log zerolog.Logger, eventType, aggregateID string, payload map[string]any) {
	if pub == nil {
		return
	}
	evt := entity.DomainEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
	if err := pub.Publish(ctx, evt); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Str("aggregate_id", aggregateID).Msg("no se pudo publicar el evento")
	}
}
