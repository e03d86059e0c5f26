package ports

// Metrics registra el resultado de cada operación del núcleo.
// outcome es "ok" o el código estable del error (domain.Kind).
type Metrics interface {
	RecordOperation(operation, outcome string)
}

// NopMetrics implementación vacía para tests y wiring parcial.
type NopMetrics struct{}

func (NopMetrics) RecordOperation(string, string) {}
