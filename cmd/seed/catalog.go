package main

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/refurb-inventory-api/internal/application/dto"
	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/application/usecase"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// catalog exportación de datos maestros del WMS:
//
//	<catalog>
//	  <warehouse code="FR-PAR" name="París" country="FR">
//	    <location code="PAR-A-01" name="Pasillo A"/>
//	    <asset id="SN-0001" location="PAR-A-01"/>
//	  </warehouse>
//	</catalog>
type catalog struct {
	Warehouses []catalogWarehouse `xml:"warehouse"`
}

type catalogWarehouse struct {
	Code      string            `xml:"code,attr"`
	Name      string            `xml:"name,attr"`
	Country   string            `xml:"country,attr"`
	Locations []catalogLocation `xml:"location"`
	Assets    []catalogAsset    `xml:"asset"`
}

type catalogLocation struct {
	Code string `xml:"code,attr"`
	Name string `xml:"name,attr"`
}

type catalogAsset struct {
	ID       string `xml:"id,attr"`
	Location string `xml:"location,attr"`
}

// decodeCatalog lee el XML; las exportaciones del WMS suelen venir en ISO-8859-1 o Windows-1252.
func decodeCatalog(r io.Reader) (*catalog, error) {
	var c catalog
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "iso-8859-1", "iso8859-1", "latin1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "windows-1252", "cp1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		case "utf-8", "":
			return input, nil
		}
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}
	return &c, nil
}

// seedSummary conteo de lo creado; Skipped son filas que ya existían.
type seedSummary struct {
	Warehouses int
	Locations  int
	Stock      int
	Movements  int
	Skipped    int
}

// seeder carga el catálogo a través de los casos de uso (mismas validaciones que la API).
type seeder struct {
	warehouses *usecase.WarehouseUseCase
	locations  *usecase.LocationUseCase
	stock      *usecase.StockUseCase
	ledger     *inventory.LedgerUseCase
}

// apply es idempotente: volver a cargar el mismo catálogo no crea duplicados ni movimientos.
func (s *seeder) apply(ctx context.Context, c *catalog) (seedSummary, error) {
	var sum seedSummary
	for _, w := range c.Warehouses {
		whID, created, err := s.warehouse(ctx, w)
		if err != nil {
			return sum, err
		}
		count(&sum.Warehouses, &sum.Skipped, created)

		locIDs := make(map[string]string, len(w.Locations))
		for _, l := range w.Locations {
			locID, created, err := s.location(ctx, whID, l)
			if err != nil {
				return sum, err
			}
			locIDs[strings.TrimSpace(l.Code)] = locID
			count(&sum.Locations, &sum.Skipped, created)
		}

		for _, a := range w.Assets {
			_, err := s.stock.Register(ctx, dto.RegisterStockRequest{AssetID: a.ID, WarehouseID: whID})
			switch {
			case err == nil:
				sum.Stock++
			case errors.Is(err, domain.ErrDuplicate):
				sum.Skipped++
			default:
				return sum, fmt.Errorf("activo %s: %w", a.ID, err)
			}

			code := strings.TrimSpace(a.Location)
			if code == "" {
				continue
			}
			locID, ok := locIDs[code]
			if !ok {
				return sum, &domain.ValidationError{Field: "asset.location", Reason: fmt.Sprintf("ubicación %s no declarada en la bodega %s", code, w.Code)}
			}
			moved, err := s.place(ctx, strings.TrimSpace(a.ID), locID)
			if err != nil {
				return sum, err
			}
			if moved {
				sum.Movements++
			}
		}
	}
	return sum, nil
}

func (s *seeder) warehouse(ctx context.Context, w catalogWarehouse) (string, bool, error) {
	created, err := s.warehouses.Create(ctx, dto.CreateWarehouseRequest{Code: w.Code, Name: w.Name, Country: w.Country})
	if err == nil {
		return created.ID, true, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return "", false, fmt.Errorf("bodega %s: %w", w.Code, err)
	}
	all, err := s.warehouses.List(ctx, false)
	if err != nil {
		return "", false, err
	}
	code := strings.ToUpper(strings.TrimSpace(w.Code))
	for _, existing := range all.Items {
		if existing.Code == code {
			return existing.ID, false, nil
		}
	}
	return "", false, fmt.Errorf("bodega %s duplicada pero no encontrada", code)
}

func (s *seeder) location(ctx context.Context, warehouseID string, l catalogLocation) (string, bool, error) {
	created, err := s.locations.Create(ctx, dto.CreateLocationRequest{Code: l.Code, Name: l.Name, WarehouseID: warehouseID})
	if err == nil {
		return created.ID, true, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return "", false, fmt.Errorf("ubicación %s: %w", l.Code, err)
	}
	code := strings.TrimSpace(l.Code)
	for offset := 0; ; offset += 100 {
		page, err := s.locations.List(ctx, warehouseID, 100, offset)
		if err != nil {
			return "", false, err
		}
		for _, existing := range page.Items {
			if existing.Code == code {
				return existing.ID, false, nil
			}
		}
		if len(page.Items) < 100 {
			break
		}
	}
	return "", false, fmt.Errorf("ubicación %s pertenece a otra bodega", code)
}

// place deja el activo en la ubicación: INTAKE si no tenía posición, MOVE si estaba en otra.
func (s *seeder) place(ctx context.Context, assetID, locationID string) (bool, error) {
	pos, err := s.ledger.CurrentPosition(ctx, assetID)
	if err != nil {
		return false, err
	}
	if pos.LocationID == locationID {
		return false, nil
	}
	reason := entity.MovementMove
	if !pos.Known() {
		reason = entity.MovementIntake
	}
	_, err = s.ledger.MoveAsset(ctx, inventory.MoveAssetInput{
		AssetID:      assetID,
		ToLocationID: locationID,
		Reason:       reason,
		ActorID:      "seed",
	})
	return err == nil, err
}

func count(created, skipped *int, isNew bool) {
	if isNew {
		*created++
		return
	}
	*skipped++
}
