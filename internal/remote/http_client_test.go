package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"rapidstor-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUnitTypes_DecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/locations/loc-1/unit-types", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		// counts arrive as mixed number/string/null and must all decode
		w.Write([]byte(`{"status":200,"data":[
			{"id":"U1","typeName":"10 sq ft Regular","totalUnits":10,"occupied":"6","reserved":null,"vacant":3}
		]}`))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL, APIKey: "test-key"}
	uts, err := c.FetchUnitTypes(context.Background(), "loc-1")
	require.NoError(t, err)
	require.Len(t, uts, 1)
	assert.Equal(t, 10, uts[0].TotalUnits.Int())
	assert.Equal(t, 6, uts[0].Occupied.Int())
	assert.Equal(t, 0, uts[0].Reserved.Int())
	assert.Equal(t, 3, uts[0].Vacant.Int())
}

func TestSaveDescriptor_SendsFullDocument(t *testing.T) {
	var got domain.Descriptor
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/locations/loc-1/descriptors/D1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status":200}`))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL}
	d := domain.Descriptor{ID: "D1", Name: "10 sq ft Regular", Enabled: true, Deals: []string{"DL1"}}
	require.NoError(t, c.SaveDescriptor(context.Background(), d, "loc-1"))
	assert.Equal(t, "D1", got.ID)
	assert.True(t, got.Enabled)
	assert.Equal(t, []string{"DL1"}, got.Deals)
}

func TestDo_EnvelopeErrorBecomesRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":422,"error":"Descriptor name already in use"}`))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL}
	err := c.SaveDescriptor(context.Background(), domain.Descriptor{ID: "D1"}, "loc-1")
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 422, rejected.StatusCode)
	// upstream message relayed verbatim
	assert.Equal(t, "Descriptor name already in use", rejected.Error())
}

func TestDo_HTTPErrorBecomesRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL}
	_, err := c.FetchDescriptors(context.Background(), "loc-1")
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusBadGateway, rejected.StatusCode)
}

func TestDo_TransportFailureBecomesUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := &HTTPClient{BaseURL: srv.URL}
	_, err := c.FetchDescriptors(context.Background(), "loc-1")
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestBatchUpdate_WrapsOperationAndDescriptors(t *testing.T) {
	var payload struct {
		Operation   string              `json:"operation"`
		Descriptors []domain.Descriptor `json:"descriptors"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Write([]byte(`{"status":200}`))
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL}
	ds := []domain.Descriptor{{ID: "D1"}, {ID: "D2"}}
	require.NoError(t, c.BatchUpdate(context.Background(), "reorder", ds, "loc-1"))
	assert.Equal(t, "reorder", payload.Operation)
	assert.Len(t, payload.Descriptors, 2)
}
