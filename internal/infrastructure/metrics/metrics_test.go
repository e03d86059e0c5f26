package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/metrics"
)

func TestMetrics_ExponeContadores(t *testing.T) {
	m := metrics.New()
	m.RecordOperation("reserve_asset", "ok")
	m.RecordOperation("reserve_asset", "ASSET_ALREADY_RESERVED")
	m.ObserveRequest("/api/inventory/reservations", http.MethodPost, 201, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)
	assert.Contains(t, text, `refurb_inventory_operations_total{operation="reserve_asset",outcome="ASSET_ALREADY_RESERVED"} 1`)
	assert.Contains(t, text, `refurb_inventory_http_requests_total{code="201",method="POST",route="/api/inventory/reservations"} 1`)
}

func TestMetrics_NilEsSeguro(t *testing.T) {
	var m *metrics.Metrics
	m.RecordOperation("x", "ok")
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
