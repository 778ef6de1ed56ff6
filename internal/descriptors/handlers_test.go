package descriptors

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"rapidstor-backend/internal/domain"
	"rapidstor-backend/internal/mutation"
	"rapidstor-backend/internal/remote"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	descriptors []domain.Descriptor
	unitTypes   []domain.UnitType
	deals       []domain.Deal
	insurance   []domain.InsuranceCoverage
	failSaveIDs map[string]bool
	saved       []domain.Descriptor
	deleted     []string
}

func (f *fakeClient) FetchDescriptors(ctx context.Context, locationID string) ([]domain.Descriptor, error) {
	out := make([]domain.Descriptor, len(f.descriptors))
	copy(out, f.descriptors)
	return out, nil
}

func (f *fakeClient) FetchUnitTypes(ctx context.Context, locationID string) ([]domain.UnitType, error) {
	return f.unitTypes, nil
}

func (f *fakeClient) FetchDeals(ctx context.Context, locationID string) ([]domain.Deal, error) {
	return f.deals, nil
}

func (f *fakeClient) FetchInsurance(ctx context.Context, locationID string) ([]domain.InsuranceCoverage, error) {
	return f.insurance, nil
}

func (f *fakeClient) SaveDescriptor(ctx context.Context, d domain.Descriptor, locationID string) error {
	if f.failSaveIDs[d.ID] {
		return &remote.RejectedError{StatusCode: 500, Message: "save rejected"}
	}
	f.saved = append(f.saved, d)
	for i := range f.descriptors {
		if f.descriptors[i].ID == d.ID {
			f.descriptors[i] = d
			return nil
		}
	}
	f.descriptors = append(f.descriptors, d)
	return nil
}

func (f *fakeClient) DeleteDescriptor(ctx context.Context, d domain.Descriptor, locationID string) error {
	f.deleted = append(f.deleted, d.ID)
	return nil
}

func (f *fakeClient) BatchUpdate(ctx context.Context, operation string, ds []domain.Descriptor, locationID string) error {
	for _, d := range ds {
		for i := range f.descriptors {
			if f.descriptors[i].ID == d.ID {
				f.descriptors[i] = d
			}
		}
	}
	return nil
}

func seedClient() *fakeClient {
	return &fakeClient{
		descriptors: []domain.Descriptor{
			{ID: "D1", Name: "10 sq ft Regular", Description: "Small unit", OrdinalPosition: 1, Enabled: true,
				Criteria: domain.Criteria{Include: domain.CriteriaInclude{Sizes: []string{"U1"}}}},
			{ID: "D2", Name: "10 sq ft Premium", SpecialText: "VIP access", OrdinalPosition: 2, Enabled: true,
				Criteria: domain.Criteria{Include: domain.CriteriaInclude{Sizes: []string{"U2"}}}},
		},
		unitTypes: []domain.UnitType{
			{ID: "U1", TypeName: "10 sq ft Regular", TotalUnits: 10, Occupied: 6, Vacant: 4},
			{ID: "U2", TypeName: "10 sq ft Premium", TotalUnits: 10, Occupied: 2, Vacant: 8},
		},
		deals:       []domain.Deal{{ID: "DL1", Title: "First month free", Active: true}},
		insurance:   []domain.InsuranceCoverage{{ID: "I1", Description: "Basic", Active: true}},
		failSaveIDs: map[string]bool{},
	}
}

func setupApp(fake *fakeClient) *fiber.App {
	coordinator := mutation.NewCoordinator(fake, nil)
	h := &Handlers{Service: NewService(fake, coordinator), DefaultLocation: "loc-1"}
	app := fiber.New()
	app.Get("/api/v1/descriptors", h.View)
	app.Post("/api/v1/descriptors/action", h.Action)
	return app
}

func postAction(t *testing.T, app *fiber.App, payload map[string]interface{}) (int, map[string]interface{}) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", "/api/v1/descriptors/action", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	respBody, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(respBody, &out))
	return resp.StatusCode, out
}

func TestView_ReturnsViewModelWithStats(t *testing.T) {
	app := setupApp(seedClient())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/descriptors?search=vip", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var payload struct {
		Status string `json:"status"`
		Data   struct {
			Descriptors []struct {
				ID        string                `json:"id"`
				Inventory domain.InventoryStats `json:"inventory"`
			} `json:"descriptors"`
			Stats struct {
				DescriptorCount int `json:"descriptorCount"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "success", payload.Status)
	require.Len(t, payload.Data.Descriptors, 1)
	assert.Equal(t, "D2", payload.Data.Descriptors[0].ID)
	assert.Equal(t, 80.0, payload.Data.Descriptors[0].Inventory.Availability)
	assert.Equal(t, 1, payload.Data.Stats.DescriptorCount)
}

func TestAction_QuickToggle(t *testing.T) {
	fake := seedClient()
	app := setupApp(fake)

	status, out := postAction(t, app, map[string]interface{}{
		"action": "quick_toggle", "descriptorId": "D1", "field": "hidden", "value": true,
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["success"])
	assert.True(t, fake.descriptors[0].Hidden)
}

func TestAction_QuickToggle_NotFound(t *testing.T) {
	app := setupApp(seedClient())
	status, out := postAction(t, app, map[string]interface{}{
		"action": "quick_toggle", "descriptorId": "GONE", "field": "hidden", "value": true,
	})
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, false, out["success"])
	assert.NotEmpty(t, out["error"])
}

func TestAction_Reorder(t *testing.T) {
	fake := seedClient()
	app := setupApp(fake)

	status, out := postAction(t, app, map[string]interface{}{
		"action": "reorder_descriptors", "orderedIds": []string{"D2", "D1"},
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["success"])
	for _, d := range fake.descriptors {
		if d.ID == "D2" {
			assert.Equal(t, 1, d.OrdinalPosition)
		}
	}
}

func TestAction_BatchApplyReportsPartialFailure(t *testing.T) {
	fake := seedClient()
	fake.failSaveIDs["D2"] = true
	app := setupApp(fake)

	status, out := postAction(t, app, map[string]interface{}{
		"action": "batch_apply", "ids": []string{"D1", "D2"}, "field": "enabled", "value": false,
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, out["success"]) // one item failed
	result := out["result"].(map[string]interface{})
	assert.Equal(t, float64(1), result["succeeded"])
	assert.Equal(t, float64(1), result["failed"])
}

func TestAction_BatchUpdateValidatesBeforeRemoteCall(t *testing.T) {
	app := setupApp(seedClient())

	status, out := postAction(t, app, map[string]interface{}{
		"action": "batch_update",
		"descriptors": []map[string]interface{}{
			{"id": "D1"}, // name missing
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, out["success"])
}

func TestAction_AutoGenerateUpsellsDoesNotSave(t *testing.T) {
	fake := seedClient()
	app := setupApp(fake)

	status, out := postAction(t, app, map[string]interface{}{
		"action": "auto_generate_upsells", "descriptorId": "D1",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["success"])
	suggestions := out["suggestions"].([]interface{})
	require.NotEmpty(t, suggestions)
	first := suggestions[0].(map[string]interface{})
	assert.Equal(t, "D2", first["targetId"])
	assert.Empty(t, fake.saved)
}

func TestAction_SmartCarouselOff(t *testing.T) {
	fake := seedClient()
	app := setupApp(fake)

	status, out := postAction(t, app, map[string]interface{}{"action": "smart_carousel_off"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["success"])
	// both descriptors have vacancy and were off the carousel: turned on
	actions := out["actions"].([]interface{})
	assert.Len(t, actions, 2)
}

func TestAction_DuplicateDescriptor(t *testing.T) {
	fake := seedClient()
	app := setupApp(fake)

	status, out := postAction(t, app, map[string]interface{}{
		"action": "duplicate_descriptor", "descriptorId": "D1",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["success"])
	dup := out["descriptor"].(map[string]interface{})
	assert.Equal(t, "10 sq ft Regular (Copy)", dup["name"])
	assert.Equal(t, false, dup["enabled"])
	assert.Len(t, fake.descriptors, 3)
}

func TestAction_DeleteDescriptor(t *testing.T) {
	fake := seedClient()
	app := setupApp(fake)

	status, out := postAction(t, app, map[string]interface{}{
		"action": "delete_descriptor", "descriptorId": "D2",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, []string{"D2"}, fake.deleted)
}

func TestAction_ExportDescriptors(t *testing.T) {
	app := setupApp(seedClient())

	status, out := postAction(t, app, map[string]interface{}{"action": "export_descriptors"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["success"])
	export := out["export"].(map[string]interface{})
	assert.Equal(t, float64(2), export["count"])
}

func TestAction_GetDescriptor(t *testing.T) {
	app := setupApp(seedClient())

	status, out := postAction(t, app, map[string]interface{}{
		"action": "get_descriptor", "descriptorId": "D1",
	})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Descriptor loaded", out["message"])
	d := out["descriptor"].(map[string]interface{})
	inventory := d["inventory"].(map[string]interface{})
	assert.Equal(t, float64(10), inventory["total"])
	assert.Equal(t, float64(60), inventory["occupancy"])
}

func TestAction_UnknownAction(t *testing.T) {
	app := setupApp(seedClient())
	status, out := postAction(t, app, map[string]interface{}{"action": "make_coffee"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, out["success"])
}
