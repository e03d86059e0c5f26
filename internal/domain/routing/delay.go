package routing

import "strings"

// DefaultDelayDays plazo por defecto para países fuera de la tabla.
const DefaultDelayDays = 5

// FastDeliveryDays umbral del bonus de entrega rápida.
const FastDeliveryDays = 2

// DelayTable plazo de entrega nacional (días) por país ISO alfa-2.
type DelayTable map[string]int

// DefaultDelays tabla estática de plazos domésticos.
var DefaultDelays = DelayTable{
	"FR": 1,
	"BE": 2,
	"NL": 2,
	"DE": 2,
	"LU": 2,
	"ES": 3,
	"IT": 3,
	"CH": 3,
	"PL": 3,
	"PT": 4,
	"GB": 4,
}

// Domestic plazo dentro de un mismo país.
func (t DelayTable) Domestic(country string) int {
	if d, ok := t[strings.ToUpper(country)]; ok {
		return d
	}
	return DefaultDelayDays
}

// Estimate plazo desde una bodega en warehouseCountry hasta un cliente en customerCountry.
// Mismo país: plazo doméstico. Transfronterizo: max(plazo bodega, plazo cliente) + 1.
func (t DelayTable) Estimate(warehouseCountry, customerCountry string) int {
	if strings.EqualFold(warehouseCountry, customerCountry) {
		return t.Domestic(customerCountry)
	}
	return max(t.Domestic(warehouseCountry), t.Domestic(customerCountry)) + 1
}
