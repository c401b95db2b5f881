package cli

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zip"

	"github.com/matzehuels/inkblot/pkg/export"
)

func newTestServer() http.Handler {
	s := &previewServer{cfg: testConfig(), maxBatch: 5, logger: log.New(io.Discard)}
	return s.routes()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServeHealth(t *testing.T) {
	rec := get(t, newTestServer(), "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if rec.Header().Get("Server") == "" {
		t.Error("missing Server header")
	}
}

func TestServeImage(t *testing.T) {
	h := newTestServer()
	rec := get(t, h, "/inkblot.png?seed=9")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, k := range []string{"X-Inkblot-Seed", "X-Inkblot-Padding", "X-Inkblot-Shapes", "X-Inkblot-Blur"} {
		if rec.Header().Get(k) == "" {
			t.Errorf("missing header %s", k)
		}
	}
	if rec.Header().Get("X-Inkblot-Seed") != "9" {
		t.Errorf("seed = %q, want 9", rec.Header().Get("X-Inkblot-Seed"))
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("image = %dx%d, want 160x120", b.Dx(), b.Dy())
	}

	again := get(t, h, "/inkblot.png?seed=9")
	if !bytes.Equal(rec.Body.Bytes(), again.Body.Bytes()) {
		t.Error("same seed should render the same image")
	}
	if rec.Header().Get("X-Inkblot-Shapes") != again.Header().Get("X-Inkblot-Shapes") {
		t.Error("same seed should report the same parameters")
	}
}

func TestServeBatch(t *testing.T) {
	rec := get(t, newTestServer(), "/batch/3?seed=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="inkblot_images_3.zip"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	want := []string{"inkblot_image_001.png", "inkblot_image_002.png", "inkblot_image_003.png", export.LogFileName}
	if len(zr.File) != len(want) {
		t.Fatalf("archive has %d entries, want %d", len(zr.File), len(want))
	}
	for i, f := range zr.File {
		if f.Name != want[i] {
			t.Errorf("entry %d = %q, want %q", i, f.Name, want[i])
		}
	}
}

func TestServeErrors(t *testing.T) {
	tests := []struct {
		target string
		status int
		code   string
	}{
		{"/batch/abc", http.StatusBadRequest, "INVALID_INPUT"},
		{"/batch/0", http.StatusBadRequest, "INVALID_INPUT"},
		{"/batch/6", http.StatusBadRequest, "INVALID_INPUT"},
		{"/inkblot.png?seed=x", http.StatusBadRequest, "INVALID_INPUT"},
	}

	h := newTestServer()
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["code"] != tt.code {
				t.Errorf("code = %q, want %q", body["code"], tt.code)
			}
		})
	}
}

func TestServeNotFound(t *testing.T) {
	if rec := get(t, newTestServer(), "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
