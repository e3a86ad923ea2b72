package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/pvlab/sunrack/pkg/pipeline"
	"github.com/pvlab/sunrack/pkg/store"
)

func testServer(t *testing.T, st store.Store) http.Handler {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return NewServer(runner, st, logger).Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decodeBody(t, rec, &body)
	return body.Error.Code
}

func validPlanRequest() map[string]any {
	return map[string]any{
		"site": [][]float64{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
		"config": map[string]any{
			"latitude":      23.0225,
			"module_length": 2.278,
			"module_width":  1.134,
			"module_power":  545,
			"tilt_angle":    15,
			"walkway_width": 3,
			"margin":        5,
		},
	}
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, testServer(t, nil), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestPlanEndpoint(t *testing.T) {
	rec := doJSON(t, testServer(t, nil), http.MethodPost, "/v1/plan", validPlanRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp planResponse
	decodeBody(t, rec, &resp)
	if resp.Result == nil || resp.Result.TotalModules != 1264 {
		t.Errorf("unexpected result: %+v", resp.Result)
	}
	if resp.Estimate == nil {
		t.Error("response should include an estimate")
	}
	if resp.SiteHash == "" {
		t.Error("response should include the site hash")
	}
}

func TestPlanEndpointWithArtifacts(t *testing.T) {
	body := validPlanRequest()
	body["formats"] = []string{"json", "svg"}
	rec := doJSON(t, testServer(t, nil), http.MethodPost, "/v1/plan", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp planResponse
	decodeBody(t, rec, &resp)
	if _, ok := resp.Artifacts["svg"]; !ok {
		t.Error("svg artifact should be echoed inline")
	}
	if _, ok := resp.Artifacts["json"]; ok {
		t.Error("json artifact duplicates the result and should be omitted")
	}
}

func TestPlanEndpointValidation(t *testing.T) {
	srv := testServer(t, nil)

	// Not JSON at all.
	req := httptest.NewRequest(http.MethodPost, "/v1/plan", bytes.NewBufferString("not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}

	// Too few vertices.
	body := validPlanRequest()
	body["site"] = [][]float64{{0, 0}, {10, 0}}
	rec = doJSON(t, srv, http.MethodPost, "/v1/plan", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad polygon status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_POLYGON" {
		t.Errorf("error code = %s, want INVALID_POLYGON", code)
	}

	// Invalid latitude inside the config.
	body = validPlanRequest()
	body["config"].(map[string]any)["latitude"] = 120
	rec = doJSON(t, srv, http.MethodPost, "/v1/plan", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad latitude status = %d, want 400", rec.Code)
	}
}

func TestEstimateEndpoint(t *testing.T) {
	body := map[string]any{
		"site_area":  10000,
		"module":     map[string]any{"length": 2.278, "width": 1.134, "power": 545},
		"target_gcr": 0.4,
		"latitude":   23.0225,
		"tilt_angle": 15,
	}
	rec := doJSON(t, testServer(t, nil), http.MethodPost, "/v1/estimate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var est struct {
		RecommendedModules int     `json:"recommended_modules"`
		CapacityKWp        float64 `json:"capacity_kwp"`
	}
	decodeBody(t, rec, &est)
	if est.RecommendedModules != 1548 {
		t.Errorf("recommended_modules = %d, want 1548", est.RecommendedModules)
	}
}

func TestSunPathEndpoint(t *testing.T) {
	srv := testServer(t, nil)

	rec := doJSON(t, srv, http.MethodGet, "/v1/sunpath?lat=23.0225&lon=72.57&date=2025-12-21", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Date      string `json:"date"`
		Positions []struct {
			Hour      int     `json:"hour"`
			Elevation float64 `json:"elevation"`
		} `json:"positions"`
	}
	decodeBody(t, rec, &resp)
	if resp.Date != "2025-12-21" {
		t.Errorf("date = %q", resp.Date)
	}
	if len(resp.Positions) != 24 {
		t.Errorf("positions = %d, want 24", len(resp.Positions))
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/sunpath", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing lat status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/v1/sunpath?lat=120", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid lat status = %d, want 400", rec.Code)
	}
}

func TestProjectLifecycle(t *testing.T) {
	srv := testServer(t, store.NewMemoryStore())

	// Create.
	create := map[string]any{
		"name":   "Kutch Block A",
		"site":   validPlanRequest()["site"],
		"config": validPlanRequest()["config"],
	}
	rec := doJSON(t, srv, http.MethodPost, "/v1/projects", create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var created store.Project
	decodeBody(t, rec, &created)
	if created.ID == "" {
		t.Fatal("created project should have an ID")
	}

	// List.
	rec = doJSON(t, srv, http.MethodGet, "/v1/projects", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var projects []store.Project
	decodeBody(t, rec, &projects)
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}

	// Fetch.
	rec = doJSON(t, srv, http.MethodGet, "/v1/projects/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Run a layout against the stored project.
	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/v1/projects/%s/layouts", created.ID), nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("run layout status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var layout store.Layout
	decodeBody(t, rec, &layout)
	if layout.Result.TotalModules != 1264 {
		t.Errorf("layout modules = %d, want 1264", layout.Result.TotalModules)
	}

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/v1/projects/%s/layouts", created.ID), nil)
	var layouts []store.Layout
	decodeBody(t, rec, &layouts)
	if len(layouts) != 1 {
		t.Errorf("got %d layouts, want 1", len(layouts))
	}

	// Delete and verify 404 afterwards.
	rec = doJSON(t, srv, http.MethodDelete, "/v1/projects/"+created.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/v1/projects/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("deleted project status = %d, want 404", rec.Code)
	}
	if code := errorCode(t, rec); code != "PROJECT_NOT_FOUND" {
		t.Errorf("error code = %s, want PROJECT_NOT_FOUND", code)
	}
}

func TestProjectsWithoutStore(t *testing.T) {
	rec := doJSON(t, testServer(t, nil), http.MethodGet, "/v1/projects", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if code := errorCode(t, rec); code != "STORAGE_UNAVAILABLE" {
		t.Errorf("error code = %s, want STORAGE_UNAVAILABLE", code)
	}
}
