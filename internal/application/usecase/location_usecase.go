package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/refurb-inventory-api/internal/application/dto"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

// LocationUseCase casos de uso de ubicaciones físicas.
type LocationUseCase struct {
	repo          repository.LocationRepository
	warehouseRepo repository.WarehouseRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, warehouseRepo repository.WarehouseRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo, warehouseRepo: warehouseRepo}
}

// Create crea una ubicación; si indica bodega, esta debe existir.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return nil, &domain.ValidationError{Field: "code", Reason: "obligatorio"}
	}
	warehouseID := strings.TrimSpace(in.WarehouseID)
	if warehouseID != "" {
		wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
		}
	}
	location := &entity.Location{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        strings.TrimSpace(in.Name),
		WarehouseID: warehouseID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("ubicación %s: %w", code, domain.ErrDuplicate)
		}
		return nil, err
	}
	return toLocationResponse(location), nil
}

// GetByID obtiene una ubicación por ID; nil si no existe.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil || location == nil {
		return nil, err
	}
	return toLocationResponse(location), nil
}

// List lista ubicaciones (opcionalmente de una bodega) con paginación.
func (uc *LocationUseCase) List(ctx context.Context, warehouseID string, limit, offset int) (*dto.LocationListResponse, error) {
	list, err := uc.repo.ListByWarehouse(ctx, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:          l.ID,
		Code:        l.Code,
		Name:        l.Name,
		WarehouseID: l.WarehouseID,
		CreatedAt:   l.CreatedAt,
	}
}
