package routing

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/jhoicas/refurb-inventory-api/internal/domain"
)

// NormalizeCountry valida un código de país ISO 3166-1 y lo devuelve en su forma canónica
// alfa-2 en mayúsculas ("fr" → "FR", "250" → "FR").
func NormalizeCountry(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", &domain.ValidationError{Field: field, Reason: "obligatorio"}
	}
	region, err := language.ParseRegion(raw)
	if err != nil || !region.IsCountry() {
		return "", &domain.ValidationError{Field: field, Reason: "código de país inválido: " + raw}
	}
	return region.String(), nil
}
