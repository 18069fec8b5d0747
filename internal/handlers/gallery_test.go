package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSaveImageWithoutStorage(t *testing.T) {
	g := NewGallery(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/images",
		strings.NewReader(`{"imageBase64":"aGVsbG8=","name":"test"}`))
	rec := httptest.NewRecorder()
	g.SaveImage(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}

func TestSaveImageMissingPayload(t *testing.T) {
	g := NewGallery(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/images",
		strings.NewReader(`{"name":"no image"}`))
	rec := httptest.NewRecorder()
	g.SaveImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestSaveImageRejectsBlankFolderName(t *testing.T) {
	g := NewGallery(nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/images",
		strings.NewReader(`{"imageBase64":"aGVsbG8=","name":"test","newFolderName":"   "}`))
	rec := httptest.NewRecorder()
	g.SaveImage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp["error"] != "Folder name is required." {
		t.Errorf("error: got %q", resp["error"])
	}
}

func TestListImagesRejectsBadFolderID(t *testing.T) {
	g := NewGallery(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/images?folder=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	g.ListImages(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

// testJPEG produces an in-memory JPEG of the given dimensions.
func testJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestGenerateThumbnailScalesDown(t *testing.T) {
	data := testJPEG(t, 800, 600)

	thumb, err := generateThumbnail(bytes.NewReader(data), thumbMaxWidth)
	if err != nil {
		t.Fatalf("generateThumbnail: %v", err)
	}
	if thumb == nil {
		t.Fatal("expected a thumbnail for an 800px image")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if cfg.Width != thumbMaxWidth {
		t.Errorf("width: got %d, want %d", cfg.Width, thumbMaxWidth)
	}
	if cfg.Height != 300 {
		t.Errorf("height: got %d, want 300 (aspect preserved)", cfg.Height)
	}
}

func TestGenerateThumbnailSkipsSmallImages(t *testing.T) {
	data := testJPEG(t, 200, 150)

	thumb, err := generateThumbnail(bytes.NewReader(data), thumbMaxWidth)
	if err != nil {
		t.Fatalf("generateThumbnail: %v", err)
	}
	if thumb != nil {
		t.Error("expected nil thumbnail for an image under the size threshold")
	}
}

func TestGenerateThumbnailRejectsGarbage(t *testing.T) {
	if _, err := generateThumbnail(bytes.NewReader([]byte("not an image")), thumbMaxWidth); err == nil {
		t.Error("expected error for non-image data")
	}
}

func TestStripDataURI(t *testing.T) {
	cases := []struct{ in, want string }{
		{"data:image/jpeg;base64,ABCD", "ABCD"},
		{"data:image/png;base64,xyz=", "xyz="},
		{"ABCD", "ABCD"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := stripDataURI(tc.in); got != tc.want {
			t.Errorf("stripDataURI(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}
