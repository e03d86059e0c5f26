package collaborators

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
)

var _ ports.FulfillmentStatusProvider = (*FulfillmentStatusClient)(nil)

// FulfillmentStatusClient consulta GET {WMS_SERVICE_URL}/api/fulfillment/orders/{id}/status.
// Un 404 significa que el WMS aún no conoce el pedido: no comenzó.
type FulfillmentStatusClient struct {
	http *httpJSON
}

type fulfillmentResponse struct {
	Started *bool `json:"started"`
}

// NewFulfillmentStatusClient construye el cliente.
func NewFulfillmentStatusClient(baseURL string, timeout time.Duration, client *http.Client) *FulfillmentStatusClient {
	return &FulfillmentStatusClient{http: newHTTPJSON("wms-service", baseURL, timeout, client)}
}

// HasStarted indica si la preparación del pedido ya comenzó en bodega.
func (c *FulfillmentStatusClient) HasStarted(ctx context.Context, orderID string) (bool, error) {
	v, err := c.http.get(ctx, "/api/fulfillment/orders/"+escape(orderID)+"/status", unmarshal[fulfillmentResponse])
	if errors.Is(err, errNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	resp := v.(fulfillmentResponse)
	if resp.Started == nil {
		return false, &domain.UpstreamError{Collaborator: "wms-service", Err: errors.New("respuesta sin campo started")}
	}
	return *resp.Started, nil
}
