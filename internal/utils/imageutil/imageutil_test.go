package imageutil

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
)

func solidImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	return img
}

func TestParseDataURL(t *testing.T) {
	mimeType, data, err := ParseDataURL("data:image/jpeg;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("ParseDataURL() error = %v", err)
	}
	if mimeType != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", mimeType)
	}
	if string(data) != "hello" {
		t.Errorf("data = %q, want hello", data)
	}

	for _, bad := range []string{"", "https://example.com/a.png", "data:image/png,aGVsbG8=", "data:image/png;base64,!!!"} {
		if _, _, err := ParseDataURL(bad); !errors.Is(err, ErrInvalidDataURL) {
			t.Errorf("ParseDataURL(%q) error = %v, want ErrInvalidDataURL", bad, err)
		}
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	url := DataURL("image/png", []byte{1, 2, 3})
	mimeType, data, err := ParseDataURL(url)
	if err != nil {
		t.Fatalf("ParseDataURL() error = %v", err)
	}
	if mimeType != "image/png" || !bytes.Equal(data, []byte{1, 2, 3}) {
		t.Errorf("round trip = %q %v", mimeType, data)
	}
}

func TestExtensionForMIME(t *testing.T) {
	tests := map[string]string{
		"image/jpeg": "jpg",
		"image/JPG":  "jpg",
		"image/png":  "png",
		"image/webp": "png",
		"":           "png",
	}
	for in, want := range tests {
		if got := ExtensionForMIME(in); got != want {
			t.Errorf("ExtensionForMIME(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrepareForModel(t *testing.T) {
	t.Run("small png passes through", func(t *testing.T) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, solidImage(16, 8)); err != nil {
			t.Fatal(err)
		}

		out, mimeType, err := PrepareForModel(buf.Bytes(), "image/png", 2048)
		if err != nil {
			t.Fatalf("PrepareForModel() error = %v", err)
		}
		if mimeType != "image/png" || !bytes.Equal(out, buf.Bytes()) {
			t.Errorf("expected untouched png, got %s (%d bytes)", mimeType, len(out))
		}
	})

	t.Run("bmp converted to png", func(t *testing.T) {
		var buf bytes.Buffer
		if err := bmp.Encode(&buf, solidImage(8, 8)); err != nil {
			t.Fatal(err)
		}

		out, mimeType, err := PrepareForModel(buf.Bytes(), "image/bmp", 2048)
		if err != nil {
			t.Fatalf("PrepareForModel() error = %v", err)
		}
		if mimeType != "image/png" {
			t.Errorf("mime = %q, want image/png", mimeType)
		}
		if _, err := png.Decode(bytes.NewReader(out)); err != nil {
			t.Errorf("output is not a png: %v", err)
		}
	})

	t.Run("oversized image scaled to max edge", func(t *testing.T) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, solidImage(400, 100)); err != nil {
			t.Fatal(err)
		}

		out, _, err := PrepareForModel(buf.Bytes(), "image/png", 200)
		if err != nil {
			t.Fatalf("PrepareForModel() error = %v", err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != 200 || cfg.Height != 50 {
			t.Errorf("size = %dx%d, want 200x50", cfg.Width, cfg.Height)
		}
	})

	t.Run("garbage rejected", func(t *testing.T) {
		if _, _, err := PrepareForModel([]byte("not an image"), "image/png", 2048); err == nil {
			t.Error("expected error for undecodable data")
		}
	})
}
