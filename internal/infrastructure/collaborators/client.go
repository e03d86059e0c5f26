// Package collaborators implementa los clientes HTTP de asset-service y del WMS.
// Toda llamada lleva timeout y falla cerrada: cualquier error distinto de "no encontrado"
// se devuelve como *domain.UpstreamError.
package collaborators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/refurb-inventory-api/internal/domain"
)

// errNotFound marca un 404 del colaborador.
var errNotFound = errors.New("404")

// httpJSON cliente JSON de solo lectura con timeout y deduplicación de llamadas concurrentes.
type httpJSON struct {
	name       string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	group      singleflight.Group
}

func newHTTPJSON(name, baseURL string, timeout time.Duration, client *http.Client) *httpJSON {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &httpJSON{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: client,
	}
}

// get hace GET de path y decodifica el cuerpo en un valor nuevo creado por decode.
// Las llamadas concurrentes al mismo path comparten una única petición.
func (c *httpJSON) get(ctx context.Context, path string, decode func([]byte) (any, error)) (any, error) {
	ch := c.group.DoChan(path, func() (any, error) {
		// La petición compartida no depende de la cancelación de un único llamador.
		reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusNotFound {
			return nil, errNotFound
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
		}
		return decode(body)
	})

	select {
	case <-ctx.Done():
		return nil, &domain.UpstreamError{Collaborator: c.name, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			if errors.Is(res.Err, errNotFound) {
				return nil, errNotFound
			}
			return nil, &domain.UpstreamError{Collaborator: c.name, Err: res.Err}
		}
		return res.Val, nil
	}
}

func escape(id string) string { return url.PathEscape(id) }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func unmarshal[T any](body []byte) (any, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("respuesta inválida: %w", err)
	}
	return v, nil
}
