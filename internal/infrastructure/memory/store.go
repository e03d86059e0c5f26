// Package memory implementa los repositorios en memoria (STORE_DRIVER=memory y tests).
// Un único mutex serializa a todos los escritores; las transacciones trabajan sobre el
// estado vivo y lo restauran desde una copia si la función devuelve error.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/application/routing"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ routing.TxRunner   = (*Store)(nil)
)

type state struct {
	seq            int64
	movements      map[string][]entity.Movement
	reservations   map[string]entity.Reservation
	locations      map[string]entity.Location
	locationCodes  map[string]string
	warehouses     map[string]entity.Warehouse
	warehouseCodes map[string]string
	stock          map[stockKey]entity.StockLocationEntry
	assignments    map[string]entity.RoutingAssignment
}

type stockKey struct {
	assetID     string
	warehouseID string
}

func newState() *state {
	return &state{
		movements:      make(map[string][]entity.Movement),
		reservations:   make(map[string]entity.Reservation),
		locations:      make(map[string]entity.Location),
		locationCodes:  make(map[string]string),
		warehouses:     make(map[string]entity.Warehouse),
		warehouseCodes: make(map[string]string),
		stock:          make(map[stockKey]entity.StockLocationEntry),
		assignments:    make(map[string]entity.RoutingAssignment),
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:            s.seq,
		movements:      make(map[string][]entity.Movement, len(s.movements)),
		reservations:   make(map[string]entity.Reservation, len(s.reservations)),
		locations:      make(map[string]entity.Location, len(s.locations)),
		locationCodes:  make(map[string]string, len(s.locationCodes)),
		warehouses:     make(map[string]entity.Warehouse, len(s.warehouses)),
		warehouseCodes: make(map[string]string, len(s.warehouseCodes)),
		stock:          make(map[stockKey]entity.StockLocationEntry, len(s.stock)),
		assignments:    make(map[string]entity.RoutingAssignment, len(s.assignments)),
	}
	for k, v := range s.movements {
		c.movements[k] = append([]entity.Movement(nil), v...)
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.locationCodes {
		c.locationCodes[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.warehouseCodes {
		c.warehouseCodes[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.assignments {
		c.assignments[k] = v
	}
	return c
}

// Store almacenamiento en memoria compartido por todos los repositorios.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// access toma el mutex salvo que el repositorio ya corra dentro de una transacción.
func (s *Store) access(held bool) func() {
	if held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Movements repositorio del ledger.
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }

// Reservations repositorio de reservas.
func (s *Store) Reservations() repository.ReservationRepository { return &reservationRepo{s: s} }

// Locations repositorio de ubicaciones.
func (s *Store) Locations() repository.LocationRepository { return &locationRepo{s: s} }

// Warehouses repositorio de bodegas.
func (s *Store) Warehouses() repository.WarehouseRepository { return &warehouseRepo{s: s} }

// Stock repositorio de stock por bodega.
func (s *Store) Stock() repository.StockLocationRepository { return &stockRepo{s: s} }

// Assignments repositorio de asignaciones de ruteo.
func (s *Store) Assignments() repository.RoutingAssignmentRepository { return &assignmentRepo{s: s} }

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	resRepo repository.ReservationRepository,
) error) error {
	return s.inTx(ctx, func() error {
		return fn(&movementRepo{s: s, held: true}, &reservationRepo{s: s, held: true})
	})
}

// RunRouting implementa routing.TxRunner.
func (s *Store) RunRouting(ctx context.Context, fn func(
	stockRepo repository.StockLocationRepository,
	assignRepo repository.RoutingAssignmentRepository,
) error) error {
	return s.inTx(ctx, func() error {
		return fn(&stockRepo{s: s, held: true}, &assignmentRepo{s: s, held: true})
	})
}

func (s *Store) inTx(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.st.clone()
	if err := fn(); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
