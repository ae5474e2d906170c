package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer() *httptest.Server {
	return httptest.NewServer(NewServer(nil).Router())
}

func TestHealthz(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestGenerateReturnsPDF(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	// Small render: minimum DPI, wide margins, two sparse designs.
	req := `{
		"dpi": 150,
		"supersampling": 1,
		"margin_cm": 5,
		"num_mandala_designs": 2,
		"base_circles": 3,
		"base_radii": 4
	}`
	resp, err := http.Post(ts.URL+"/api/v1/generate", "application/json", strings.NewReader(req))
	if err != nil {
		t.Fatalf("POST /api/v1/generate: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body = %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q, want application/pdf", ct)
	}
	if resp.Header.Get("X-Run-Id") == "" {
		t.Error("X-Run-Id header missing")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("response body is not a PDF")
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"dpi": `},
		{"out of range dpi", `{"dpi": 10}`},
		{"bad page format", `{"page_format": "A5"}`},
		{"bad color", `{"dash_color": "red"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/generate", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body["error"] == "" {
				t.Error("error field is empty")
			}
		})
	}
}
