package routing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// Bonificaciones del puntaje de bodega.
const (
	SameCountryBonus  = 10
	FullStockBonus    = 5
	FastDeliveryBonus = 1
)

// ScoreInput instantánea de stock y tablas estáticas usadas para puntuar.
// Available indexa por WarehouseID los AssetID en estado AVAILABLE.
type ScoreInput struct {
	Warehouses      []entity.Warehouse
	Available       map[string]map[string]struct{}
	AssetIDs        []string
	CustomerCountry string
	Delays          DelayTable
}

// Score calcula el puntaje de cada bodega activa (servicio de dominio puro).
// Orden: puntaje desc, código de bodega asc, id asc. Mismas entradas producen el mismo orden.
func Score(in ScoreInput) []entity.WarehouseScore {
	delays := in.Delays
	if delays == nil {
		delays = DefaultDelays
	}
	required := UniqueIDs(in.AssetIDs)
	customer := strings.ToUpper(in.CustomerCountry)

	scores := make([]entity.WarehouseScore, 0, len(in.Warehouses))
	for _, w := range in.Warehouses {
		if !w.Active {
			continue
		}
		s := entity.WarehouseScore{
			WarehouseID:   w.ID,
			WarehouseCode: w.Code,
			Country:       w.Country,
			Reasons:       []string{},
		}
		stock := in.Available[w.ID]
		for _, id := range required {
			if _, ok := stock[id]; ok {
				s.AvailableAssetCount++
			}
		}
		s.EstimatedDelayDays = delays.Estimate(w.Country, customer)

		if strings.EqualFold(w.Country, customer) {
			s.Score += SameCountryBonus
			s.Reasons = append(s.Reasons, fmt.Sprintf("same country (%s)", customer))
		}
		if len(required) > 0 && s.AvailableAssetCount == len(required) {
			s.Score += FullStockBonus
			s.Reasons = append(s.Reasons, "full stock, no split shipment")
		}
		if s.EstimatedDelayDays <= FastDeliveryDays {
			s.Score += FastDeliveryBonus
			s.Reasons = append(s.Reasons, fmt.Sprintf("fast delivery (%d days)", s.EstimatedDelayDays))
		}
		scores = append(scores, s)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].WarehouseCode != scores[j].WarehouseCode {
			return scores[i].WarehouseCode < scores[j].WarehouseCode
		}
		return scores[i].WarehouseID < scores[j].WarehouseID
	})
	return scores
}

// FullStock filtra las bodegas que tienen todos los activos requeridos.
// Conserva el orden de entrada.
func FullStock(scores []entity.WarehouseScore, required int) []entity.WarehouseScore {
	out := make([]entity.WarehouseScore, 0, len(scores))
	for _, s := range scores {
		if required > 0 && s.AvailableAssetCount == required {
			out = append(out, s)
		}
	}
	return out
}

// UniqueIDs elimina duplicados y vacíos conservando el primer orden de aparición.
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
