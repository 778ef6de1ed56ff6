package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rapidstor-backend/internal/domain"
)

// HTTPClient is an InventoryClient backed by the RapidStor HTTP API.
type HTTPClient struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
}

// envelope is the RapidStor response wrapper: {status, data|error}.
type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func (c *HTTPClient) httpClient() *http.Client {
	if c.Client == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		c.Client = &http.Client{Timeout: timeout}
	}
	return c.Client
}

// do issues one request and decodes the envelope. Transport failures become
// UnavailableError; non-200 statuses (HTTP or envelope) become RejectedError
// with the upstream message relayed verbatim where present.
func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if c.BaseURL == "" {
		return fmt.Errorf("rapidstor: RAPIDSTOR_API_URL is not set")
	}
	url := strings.TrimRight(c.BaseURL, "/") + path

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &UnavailableError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &RejectedError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		return fmt.Errorf("rapidstor response decode: %w", err)
	}

	status := env.Status
	if status == 0 {
		status = resp.StatusCode
	}
	if status != http.StatusOK {
		return &RejectedError{StatusCode: status, Message: env.Error}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("rapidstor data decode: %w", err)
		}
	}
	return nil
}

// FetchDescriptors returns all descriptors for a location.
func (c *HTTPClient) FetchDescriptors(ctx context.Context, locationID string) ([]domain.Descriptor, error) {
	var out []domain.Descriptor
	if err := c.do(ctx, http.MethodGet, "/v1/locations/"+locationID+"/descriptors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchUnitTypes returns the unit-type catalog for a location.
func (c *HTTPClient) FetchUnitTypes(ctx context.Context, locationID string) ([]domain.UnitType, error) {
	var out []domain.UnitType
	if err := c.do(ctx, http.MethodGet, "/v1/locations/"+locationID+"/unit-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchDeals returns the deal catalog for a location.
func (c *HTTPClient) FetchDeals(ctx context.Context, locationID string) ([]domain.Deal, error) {
	var out []domain.Deal
	if err := c.do(ctx, http.MethodGet, "/v1/locations/"+locationID+"/deals", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchInsurance returns the insurance coverage catalog for a location.
func (c *HTTPClient) FetchInsurance(ctx context.Context, locationID string) ([]domain.InsuranceCoverage, error) {
	var out []domain.InsuranceCoverage
	if err := c.do(ctx, http.MethodGet, "/v1/locations/"+locationID+"/insurance", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveDescriptor overwrites one descriptor document.
func (c *HTTPClient) SaveDescriptor(ctx context.Context, d domain.Descriptor, locationID string) error {
	return c.do(ctx, http.MethodPut, "/v1/locations/"+locationID+"/descriptors/"+d.ID, d, nil)
}

// DeleteDescriptor removes one descriptor document.
func (c *HTTPClient) DeleteDescriptor(ctx context.Context, d domain.Descriptor, locationID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/locations/"+locationID+"/descriptors/"+d.ID, nil, nil)
}

// BatchUpdate submits several descriptor documents under one named operation.
// The API applies them item by item with no transaction; a 200 here only
// means the batch was accepted.
func (c *HTTPClient) BatchUpdate(ctx context.Context, operation string, ds []domain.Descriptor, locationID string) error {
	payload := map[string]interface{}{
		"operation":   operation,
		"descriptors": ds,
	}
	return c.do(ctx, http.MethodPost, "/v1/locations/"+locationID+"/descriptors/batch", payload, nil)
}
