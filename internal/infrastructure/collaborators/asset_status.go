package collaborators

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
)

var _ ports.AssetStatusProvider = (*AssetStatusClient)(nil)

// AssetStatusClient consulta GET {ASSET_SERVICE_URL}/api/assets/{id}.
type AssetStatusClient struct {
	http *httpJSON
}

// assetResponse acepta el estado en la raíz o dentro de "data".
type assetResponse struct {
	Status string `json:"status"`
	Data   *struct {
		Status string `json:"status"`
	} `json:"data"`
}

// NewAssetStatusClient construye el cliente. client nil usa uno con el timeout indicado.
func NewAssetStatusClient(baseURL string, timeout time.Duration, client *http.Client) *AssetStatusClient {
	return &AssetStatusClient{http: newHTTPJSON("asset-service", baseURL, timeout, client)}
}

// GetStatus devuelve el estado del activo; domain.ErrNotFound si asset-service no lo conoce.
func (c *AssetStatusClient) GetStatus(ctx context.Context, assetID string) (string, error) {
	v, err := c.http.get(ctx, "/api/assets/"+escape(assetID), unmarshal[assetResponse])
	if errors.Is(err, errNotFound) {
		return "", fmt.Errorf("activo %s: %w", assetID, domain.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	resp := v.(assetResponse)
	status := resp.Status
	if status == "" && resp.Data != nil {
		status = resp.Data.Status
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return "", &domain.UpstreamError{Collaborator: "asset-service", Err: errors.New("respuesta sin estado")}
	}
	return status, nil
}
