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

// StockUseCase registra la presencia de activos en bodegas para el ruteo.
type StockUseCase struct {
	repo          repository.StockLocationRepository
	warehouseRepo repository.WarehouseRepository
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(repo repository.StockLocationRepository, warehouseRepo repository.WarehouseRepository) *StockUseCase {
	return &StockUseCase{repo: repo, warehouseRepo: warehouseRepo}
}

// Register da de alta el activo como AVAILABLE en la bodega. Una entrada por (activo, bodega).
func (uc *StockUseCase) Register(ctx context.Context, in dto.RegisterStockRequest) (*dto.StockEntryResponse, error) {
	assetID := strings.TrimSpace(in.AssetID)
	warehouseID := strings.TrimSpace(in.WarehouseID)
	if assetID == "" {
		return nil, &domain.ValidationError{Field: "asset_id", Reason: "obligatorio"}
	}
	if warehouseID == "" {
		return nil, &domain.ValidationError{Field: "warehouse_id", Reason: "obligatorio"}
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
	}
	entry := &entity.StockLocationEntry{
		ID:          uuid.New().String(),
		AssetID:     assetID,
		WarehouseID: warehouseID,
		Status:      entity.StockAvailable,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("activo %s ya registrado en bodega %s: %w", assetID, wh.Code, domain.ErrDuplicate)
		}
		return nil, err
	}
	return toStockEntryResponse(*entry), nil
}

// ListByWarehouse lista las entradas de stock de la bodega con paginación.
func (uc *StockUseCase) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) (*dto.StockListResponse, error) {
	warehouseID = strings.TrimSpace(warehouseID)
	if warehouseID == "" {
		return nil, &domain.ValidationError{Field: "warehouse_id", Reason: "obligatorio"}
	}
	list, err := uc.repo.ListByWarehouse(ctx, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockEntryResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toStockEntryResponse(e))
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toStockEntryResponse(e entity.StockLocationEntry) *dto.StockEntryResponse {
	return &dto.StockEntryResponse{
		ID:          e.ID,
		AssetID:     e.AssetID,
		WarehouseID: e.WarehouseID,
		Status:      string(e.Status),
		OrderID:     e.OrderID,
		UpdatedAt:   e.UpdatedAt,
	}
}
