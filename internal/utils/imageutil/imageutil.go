package imageutil

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"regexp"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/gabriel-vasile/mimetype"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var dataURLPattern = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

var ErrInvalidDataURL = errors.New("invalid image data URL")

// ParseDataURL splits a base64 data URL into its MIME type and decoded bytes.
func ParseDataURL(dataURL string) (string, []byte, error) {
	match := dataURLPattern.FindStringSubmatch(dataURL)
	if match == nil {
		return "", nil, ErrInvalidDataURL
	}

	data, err := base64.StdEncoding.DecodeString(match[2])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}

	return match[1], data, nil
}

func DataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// ExtensionForMIME maps a MIME type onto the two extensions the gallery
// stores: jpg for any jpeg flavour, png for everything else.
func ExtensionForMIME(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	if strings.Contains(mimeType, "jpeg") || strings.Contains(mimeType, "jpg") {
		return "jpg"
	}
	return "png"
}

// DetectMIME prefers a specific declared type and sniffs the content otherwise.
func DetectMIME(declared string, data []byte) string {
	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	if declared != "" && declared != "application/octet-stream" && declared != "binary/octet-stream" {
		return declared
	}
	return mimetype.Detect(data).String()
}

// PrepareForModel converts formats the image model does not accept (bmp,
// tiff) to png and scales images whose long edge exceeds maxEdge. Images that
// need neither are returned untouched.
func PrepareForModel(data []byte, mimeType string, maxEdge int) ([]byte, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image header: %w", err)
	}

	needsConvert := format == "bmp" || format == "tiff"
	needsResize := maxEdge > 0 && max(cfg.Width, cfg.Height) > maxEdge
	if !needsConvert && !needsResize {
		return data, mimeType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	if needsResize {
		width, height := fitWithin(cfg.Width, cfg.Height, maxEdge)
		img = transform.Resize(img, width, height, transform.Linear)
	}

	var output bytes.Buffer
	if format == "jpeg" {
		if err := jpeg.Encode(&output, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, "", err
		}
		return output.Bytes(), "image/jpeg", nil
	}

	if err := png.Encode(&output, img); err != nil {
		return nil, "", err
	}
	return output.Bytes(), "image/png", nil
}

func fitWithin(width, height, maxEdge int) (int, int) {
	if width >= height {
		return maxEdge, max(1, height*maxEdge/width)
	}
	return max(1, width*maxEdge/height), maxEdge
}
