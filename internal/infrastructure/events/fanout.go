package events

import (
	"context"
	"errors"

	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

var _ ports.EventPublisher = FanOut(nil)

// FanOut entrega el evento a todos los destinos aunque alguno falle.
type FanOut []ports.EventPublisher

// Publish devuelve los errores de todos los destinos unidos.
func (f FanOut) Publish(ctx context.Context, evt entity.DomainEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
