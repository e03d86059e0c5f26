package inventory

import "strings"

// StatusSetPolicy considera vendibles los estados de la lista (sin distinguir mayúsculas).
type StatusSetPolicy struct {
	statuses map[string]struct{}
}

// NewSellablePolicy construye la política a partir de SELLABLE_STATUSES.
func NewSellablePolicy(statuses ...string) *StatusSetPolicy {
	p := &StatusSetPolicy{statuses: make(map[string]struct{}, len(statuses))}
	for _, s := range statuses {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			p.statuses[s] = struct{}{}
		}
	}
	return p
}

// IsSellable implementa ports.SellablePolicy.
func (p *StatusSetPolicy) IsSellable(status string) bool {
	_, ok := p.statuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}
