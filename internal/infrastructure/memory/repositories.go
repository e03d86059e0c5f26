package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

type movementRepo struct {
	s    *Store
	held bool
}

// LockAsset no hace nada: el mutex del store ya serializa la transacción completa.
func (r *movementRepo) LockAsset(ctx context.Context, assetID string) error {
	return ctx.Err()
}

func (r *movementRepo) Append(ctx context.Context, m *entity.Movement) error {
	defer r.s.access(r.held)()
	st := r.s.st
	st.seq++
	m.Sequence = st.seq
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.s.now()
	}
	st.movements[m.AssetID] = append(st.movements[m.AssetID], *m)
	return nil
}

func (r *movementRepo) ListByAsset(ctx context.Context, assetID string) ([]entity.Movement, error) {
	defer r.s.access(r.held)()
	out := append([]entity.Movement{}, r.s.st.movements[assetID]...)
	return out, nil
}

func (r *movementRepo) Latest(ctx context.Context, assetID string) (*entity.Movement, error) {
	defer r.s.access(r.held)()
	list := r.s.st.movements[assetID]
	if len(list) == 0 {
		return nil, nil
	}
	m := list[len(list)-1]
	return &m, nil
}

type reservationRepo struct {
	s    *Store
	held bool
}

func (r *reservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	defer r.s.access(r.held)()
	if _, ok := r.s.st.reservations[res.AssetID]; ok {
		return domain.ErrDuplicate
	}
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	if res.CreatedAt.IsZero() {
		res.CreatedAt = r.s.now()
	}
	r.s.st.reservations[res.AssetID] = *res
	return nil
}

func (r *reservationRepo) GetByAsset(ctx context.Context, assetID string) (*entity.Reservation, error) {
	defer r.s.access(r.held)()
	res, ok := r.s.st.reservations[assetID]
	if !ok {
		return nil, nil
	}
	return &res, nil
}

func (r *reservationRepo) DeleteByAsset(ctx context.Context, assetID string) (*entity.Reservation, error) {
	defer r.s.access(r.held)()
	res, ok := r.s.st.reservations[assetID]
	if !ok {
		return nil, nil
	}
	delete(r.s.st.reservations, assetID)
	return &res, nil
}

type locationRepo struct {
	s    *Store
	held bool
}

func (r *locationRepo) Create(ctx context.Context, l *entity.Location) error {
	defer r.s.access(r.held)()
	st := r.s.st
	if _, ok := st.locationCodes[l.Code]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := st.locations[l.ID]; ok {
		return domain.ErrDuplicate
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.s.now()
	}
	st.locations[l.ID] = *l
	st.locationCodes[l.Code] = l.ID
	return nil
}

func (r *locationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	defer r.s.access(r.held)()
	l, ok := r.s.st.locations[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *locationRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Location, error) {
	defer r.s.access(r.held)()
	list := make([]*entity.Location, 0)
	for _, l := range r.s.st.locations {
		if warehouseID != "" && l.WarehouseID != warehouseID {
			continue
		}
		l := l
		list = append(list, &l)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return page(list, limit, offset), nil
}

type warehouseRepo struct {
	s    *Store
	held bool
}

func (r *warehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	defer r.s.access(r.held)()
	st := r.s.st
	if _, ok := st.warehouseCodes[w.Code]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := st.warehouses[w.ID]; ok {
		return domain.ErrDuplicate
	}
	now := r.s.now()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	if w.UpdatedAt.IsZero() {
		w.UpdatedAt = now
	}
	st.warehouses[w.ID] = *w
	st.warehouseCodes[w.Code] = w.ID
	return nil
}

func (r *warehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	defer r.s.access(r.held)()
	w, ok := r.s.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *warehouseRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Warehouse, error) {
	defer r.s.access(r.held)()
	list := make([]*entity.Warehouse, 0, len(r.s.st.warehouses))
	for _, w := range r.s.st.warehouses {
		if activeOnly && !w.Active {
			continue
		}
		w := w
		list = append(list, &w)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list, nil
}

func (r *warehouseRepo) SetActive(ctx context.Context, id string, active bool) error {
	defer r.s.access(r.held)()
	w, ok := r.s.st.warehouses[id]
	if !ok {
		return domain.ErrNotFound
	}
	w.Active = active
	w.UpdatedAt = r.s.now()
	r.s.st.warehouses[id] = w
	return nil
}

type stockRepo struct {
	s    *Store
	held bool
}

func (r *stockRepo) Create(ctx context.Context, e *entity.StockLocationEntry) error {
	defer r.s.access(r.held)()
	key := stockKey{assetID: e.AssetID, warehouseID: e.WarehouseID}
	if _, ok := r.s.st.stock[key]; ok {
		return domain.ErrDuplicate
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = entity.StockAvailable
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = r.s.now()
	}
	r.s.st.stock[key] = *e
	return nil
}

func (r *stockRepo) ListAvailable(ctx context.Context, assetIDs []string) ([]entity.StockLocationEntry, error) {
	defer r.s.access(r.held)()
	wanted := make(map[string]struct{}, len(assetIDs))
	for _, id := range assetIDs {
		wanted[id] = struct{}{}
	}
	out := make([]entity.StockLocationEntry, 0)
	for _, e := range r.s.st.stock {
		if _, ok := wanted[e.AssetID]; ok && e.Status == entity.StockAvailable {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func (r *stockRepo) ClaimAvailable(ctx context.Context, assetID, warehouseID, orderID string) (bool, error) {
	defer r.s.access(r.held)()
	key := stockKey{assetID: assetID, warehouseID: warehouseID}
	e, ok := r.s.st.stock[key]
	if !ok || e.Status != entity.StockAvailable {
		return false, nil
	}
	e.Status = entity.StockReserved
	e.OrderID = orderID
	e.UpdatedAt = r.s.now()
	r.s.st.stock[key] = e
	return true, nil
}

func (r *stockRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]entity.StockLocationEntry, error) {
	defer r.s.access(r.held)()
	out := make([]entity.StockLocationEntry, 0)
	for _, e := range r.s.st.stock {
		if e.WarehouseID == warehouseID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return page(out, limit, offset), nil
}

func (r *stockRepo) ListByOrder(ctx context.Context, orderID string) ([]entity.StockLocationEntry, error) {
	defer r.s.access(r.held)()
	out := make([]entity.StockLocationEntry, 0)
	for _, e := range r.s.st.stock {
		if orderID != "" && e.OrderID == orderID {
			out = append(out, e)
		}
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(list []entity.StockLocationEntry) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].WarehouseID != list[j].WarehouseID {
			return list[i].WarehouseID < list[j].WarehouseID
		}
		return list[i].AssetID < list[j].AssetID
	})
}

type assignmentRepo struct {
	s    *Store
	held bool
}

func (r *assignmentRepo) Create(ctx context.Context, a *entity.RoutingAssignment) error {
	defer r.s.access(r.held)()
	if _, ok := r.s.st.assignments[a.OrderID]; ok {
		return domain.ErrDuplicate
	}
	if a.AssignedAt.IsZero() {
		a.AssignedAt = r.s.now()
	}
	r.s.st.assignments[a.OrderID] = *a
	return nil
}

func (r *assignmentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.RoutingAssignment, error) {
	defer r.s.access(r.held)()
	a, ok := r.s.st.assignments[orderID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}
