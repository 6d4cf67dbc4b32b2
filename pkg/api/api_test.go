package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/chemdeck/chemdeck/pkg/dataset"
	"github.com/chemdeck/chemdeck/pkg/layout"
	"github.com/chemdeck/chemdeck/pkg/pipeline"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func readOnlyServer() *Server {
	runner := pipeline.NewRunner(nil, nil, nil, quietLogger())
	return NewServer(runner, nil, quietLogger())
}

func editableServer(t *testing.T) *Server {
	t.Helper()
	store, err := dataset.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(store, nil, nil, quietLogger())
	return NewServer(runner, store, quietLogger())
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return v
}

func TestHealthz(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestModes(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodGet, "/v1/modes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string][]string](t, rec)
	if len(body["modes"]) != len(layout.AllModes()) {
		t.Errorf("modes = %d, want %d", len(body["modes"]), len(layout.AllModes()))
	}
}

func TestListDatasets(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodGet, "/v1/datasets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string][]datasetSummary](t, rec)
	if len(body["datasets"]) != len(dataset.Categories()) {
		t.Errorf("datasets = %d", len(body["datasets"]))
	}
	for _, d := range body["datasets"] {
		if d.Count == 0 {
			t.Errorf("category %s reports zero entities", d.Category)
		}
		if d.Editable {
			t.Errorf("read-only server reports %s editable", d.Category)
		}
	}
}

func TestGetDatasetUnknownCategory(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodGet, "/v1/datasets/minerals", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestComputeLayout(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodPost, "/v1/layouts", pipeline.Options{
		Category: "molecules",
		Mode:     "polarity",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	body := decode[layoutResponse](t, rec)
	if body.Layout.Mode != "polarity" {
		t.Errorf("mode = %s", body.Layout.Mode)
	}
	if len(body.Layout.Placed) == 0 {
		t.Error("empty placement")
	}
	if body.LayoutHash == "" {
		t.Error("missing layout hash")
	}
}

func TestComputeLayoutInvalidMode(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodPost, "/v1/layouts", pipeline.Options{
		Category: "molecules",
		Mode:     "cubist",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestArtifactPNG(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodGet, "/v1/artifacts/molecules/grid.png", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %s", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte{0x89, 'P', 'N', 'G'}) {
		t.Error("body is not a PNG")
	}
}

func TestArtifactDOT(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodGet, "/v1/artifacts/particles/force-network.dot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Body.String(), "digraph") {
		t.Error("body is not DOT")
	}
}

func TestArtifactBadName(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodGet, "/v1/artifacts/molecules/grid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestEditingDisabledOnReadOnlyServer(t *testing.T) {
	rec := do(t, readOnlyServer(), http.MethodPost, "/v1/datasets/molecules", map[string]any{"Name": "Ozone"})
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestDatasetEditingRoundTrip(t *testing.T) {
	s := editableServer(t)

	record := map[string]any{
		"Name":              "Ozone",
		"Formula":           "O3",
		"MolecularMass_amu": 47.997,
		"BondType":          "Covalent",
		"Geometry":          "Bent",
		"Polarity":          "Polar",
	}

	rec := do(t, s, http.MethodPost, "/v1/datasets/molecules", record)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}

	// Duplicate add fails.
	rec = do(t, s, http.MethodPost, "/v1/datasets/molecules", record)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate add status = %d", rec.Code)
	}

	record["MolecularMass_amu"] = 48.0
	rec = do(t, s, http.MethodPut, "/v1/datasets/molecules/Ozone", record)
	if rec.Code != http.StatusOK {
		t.Errorf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodDelete, "/v1/datasets/molecules/Ozone", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("remove status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodDelete, "/v1/datasets/molecules/Ozone", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second remove status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, "/v1/datasets/molecules/reset", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("reset status = %d", rec.Code)
	}
}

func TestSplitArtifact(t *testing.T) {
	tests := []struct {
		in     string
		mode   string
		format string
		ok     bool
	}{
		{"grid.png", "grid", "png", true},
		{"force-network.dot", "force-network", "dot", true},
		{"grid", "", "", false},
		{".png", "", "", false},
		{"grid.", "", "", false},
	}
	for _, tt := range tests {
		mode, format, ok := splitArtifact(tt.in)
		if mode != tt.mode || format != tt.format || ok != tt.ok {
			t.Errorf("splitArtifact(%q) = %q, %q, %v", tt.in, mode, format, ok)
		}
	}
}
