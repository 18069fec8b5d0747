package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fabricai/internal/ai"
)

// stubProvider is a canned ai.Provider for handler tests. It records the
// last request it received.
type stubProvider struct {
	result  *ai.EditResult
	err     error
	calls   int
	lastReq ai.EditRequest
}

func (s *stubProvider) EditImage(_ context.Context, req ai.EditRequest) (*ai.EditResult, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubProvider) Name() string { return "stub" }

func postEdit(t *testing.T, g *Generate, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/gemini/edit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	g.Edit(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	return resp
}

func TestEditLegacyShapeSuccess(t *testing.T) {
	stub := &stubProvider{result: &ai.EditResult{ImageBase64: "b64result", MimeType: "image/png"}}
	g := NewGenerate(stub, nil, nil, "server-key")

	rec := postEdit(t, g, `{"imageBase64":"b64input","prompt":"red velvet"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp["success"] != true {
		t.Error("expected success true")
	}
	if resp["image"] != "b64result" {
		t.Errorf("image: got %v, want raw base64", resp["image"])
	}
	if strings.HasPrefix(resp["image"].(string), "data:") {
		t.Error("image must not carry a data-URI prefix")
	}

	if len(stub.lastReq.Images) != 1 || stub.lastReq.Images[0].Data != "b64input" {
		t.Errorf("provider images: got %+v", stub.lastReq.Images)
	}
	if !strings.Contains(stub.lastReq.Instruction, "red velvet") {
		t.Error("prompt missing from instruction")
	}
}

func TestEditStripsDataURIPrefix(t *testing.T) {
	stub := &stubProvider{result: &ai.EditResult{ImageBase64: "out"}}
	g := NewGenerate(stub, nil, nil, "server-key")

	postEdit(t, g, `{"imageBase64":"data:image/jpeg;base64,RAWDATA","prompt":"p"}`)

	if stub.lastReq.Images[0].Data != "RAWDATA" {
		t.Errorf("data-URI prefix not stripped: %q", stub.lastReq.Images[0].Data)
	}
}

func TestEditDualShape(t *testing.T) {
	stub := &stubProvider{result: &ai.EditResult{ImageBase64: "out"}}
	g := NewGenerate(stub, nil, nil, "server-key")

	rec := postEdit(t, g, `{"sofaImageBase64":"sofa","fabricImageBase64":"fabric","outputMode":"scontornato"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if len(stub.lastReq.Images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(stub.lastReq.Images))
	}
	if stub.lastReq.Images[0].Data != "sofa" || stub.lastReq.Images[1].Data != "fabric" {
		t.Errorf("image order wrong: %+v", stub.lastReq.Images)
	}
	if !strings.Contains(stub.lastReq.Instruction, "LIGHT GRAY studio background") {
		t.Error("expected isolated-mode instruction for scontornato")
	}
	if !strings.Contains(stub.lastReq.Instruction, "fabric sample") {
		t.Error("expected dual-image description in instruction")
	}
}

func TestEditDualShapeMissingImage(t *testing.T) {
	stub := &stubProvider{result: &ai.EditResult{ImageBase64: "out"}}
	g := NewGenerate(stub, nil, nil, "server-key")

	rec := postEdit(t, g, `{"sofaImageBase64":"sofa"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp["error"] != "Both sofa image and fabric texture image are required." {
		t.Errorf("error: got %q", resp["error"])
	}
	if stub.calls != 0 {
		t.Error("provider must not be called on validation failure")
	}
}

func TestEditLegacyShapeMissingImage(t *testing.T) {
	stub := &stubProvider{result: &ai.EditResult{ImageBase64: "out"}}
	g := NewGenerate(stub, nil, nil, "server-key")

	rec := postEdit(t, g, `{"prompt":"only a prompt"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if stub.calls != 0 {
		t.Error("provider must not be called without an image")
	}
}

func TestEditMissingAPIKey(t *testing.T) {
	stub := &stubProvider{result: &ai.EditResult{ImageBase64: "out"}}
	g := NewGenerate(stub, nil, nil, "") // no server default

	rec := postEdit(t, g, `{"imageBase64":"b64","prompt":"p"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp["error"] != "API key required. Set GOOGLE_API_KEY or pass apiKey in request." {
		t.Errorf("error: got %q", resp["error"])
	}
	if stub.calls != 0 {
		t.Error("provider must not be called without a key")
	}
}

func TestEditRequestKeyBypassesMissingDefault(t *testing.T) {
	stub := &stubProvider{result: &ai.EditResult{ImageBase64: "out"}}
	g := NewGenerate(stub, nil, nil, "")

	rec := postEdit(t, g, `{"imageBase64":"b64","prompt":"p","apiKey":"caller-key"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if stub.lastReq.APIKey != "caller-key" {
		t.Errorf("api key: got %q, want caller override", stub.lastReq.APIKey)
	}
}

func TestEditNoImageGenerated(t *testing.T) {
	stub := &stubProvider{result: &ai.EditResult{Text: "I cannot edit this image."}}
	g := NewGenerate(stub, nil, nil, "server-key")

	rec := postEdit(t, g, `{"imageBase64":"b64","prompt":"p"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp["error"] != "No image generated" {
		t.Errorf("error: got %q", resp["error"])
	}
	if resp["message"] != "I cannot edit this image." {
		t.Errorf("message: got %q, want provider text", resp["message"])
	}
}

func TestEditProviderError(t *testing.T) {
	stub := &stubProvider{err: errors.New("gemini API error (status 500): boom")}
	g := NewGenerate(stub, nil, nil, "server-key")

	rec := postEdit(t, g, `{"imageBase64":"b64","prompt":"p"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp["error"] != "gemini API error (status 500): boom" {
		t.Errorf("error: got %q, want verbatim provider error", resp["error"])
	}
}

func TestEditInvalidJSON(t *testing.T) {
	stub := &stubProvider{result: &ai.EditResult{ImageBase64: "out"}}
	g := NewGenerate(stub, nil, nil, "server-key")

	rec := postEdit(t, g, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if stub.calls != 0 {
		t.Error("provider must not be called on parse failure")
	}
}
