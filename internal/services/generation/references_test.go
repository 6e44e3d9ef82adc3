package generation

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/services/filestorage"

	"go.uber.org/zap"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReferenceFetcherReadsStoredImages(t *testing.T) {
	ctx := context.Background()

	// nothing listens on port 1, so only the store can serve the image
	store, err := filestorage.NewLocalFileStorage(&config.Config{AssetsDir: t.TempDir(), Host: "127.0.0.1", Port: 1})
	if err != nil {
		t.Fatal(err)
	}
	stored := encodePNG(t, 4, 4)
	url, err := store.Upload(ctx, filestorage.NewFileInfo("reference-images/style-1/1700000000000.png", stored, "image/png"))
	if err != nil {
		t.Fatal(err)
	}

	remote := encodePNG(t, 2, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/remote.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(remote)
	}))
	defer server.Close()

	fetcher := NewHTTPReferenceFetcher(2, time.Second, 2048, store, zap.NewNop())
	defer fetcher.Stop()

	images := fetcher.Fetch(ctx, []string{url, server.URL + "/missing.png", server.URL + "/remote.png"})
	if len(images) != 2 {
		t.Fatalf("Fetch() returned %d images, want 2", len(images))
	}
	if !bytes.Equal(images[0].Data, stored) || images[0].MIMEType != "image/png" {
		t.Errorf("first image = %s %d bytes, want the stored png", images[0].MIMEType, len(images[0].Data))
	}
	if !bytes.Equal(images[1].Data, remote) {
		t.Errorf("second image should come from the http fetch")
	}
}

func TestReferenceFetcherWithoutStore(t *testing.T) {
	data := encodePNG(t, 8, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer server.Close()

	fetcher := NewHTTPReferenceFetcher(1, time.Second, 4, nil, zap.NewNop())
	defer fetcher.Stop()

	images := fetcher.Fetch(context.Background(), []string{server.URL + "/wide.png"})
	if len(images) != 1 {
		t.Fatalf("Fetch() returned %d images", len(images))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(images[0].Data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 4 || cfg.Height != 1 {
		t.Errorf("downscaled to %dx%d, want 4x1", cfg.Width, cfg.Height)
	}
}
