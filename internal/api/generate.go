package api

import (
	"net/http"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/services/generation"

	"github.com/gin-gonic/gin"
)

const defaultAdminBatchCount = 10

type GenerateRequest struct {
	Mode              string             `json:"mode"`
	StyleID           string             `json:"style_id"`
	Orientation       models.Orientation `json:"orientation"`
	CustomPrompt      string             `json:"custom_prompt"`
	ReferenceNotes    string             `json:"reference_notes"`
	BasePrompt        string             `json:"base_prompt"`
	InspirationImages []string           `json:"inspiration_images"`
	AutoPublish       bool               `json:"auto_publish"`
	Count             *int               `json:"count"`
}

// validOrientation rejects anything but an empty value or one of the
// three known orientations.
func validOrientation(c *gin.Context, o models.Orientation) bool {
	if o == "" || o.Valid() {
		return true
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid orientation. Use portrait, landscape or square."})
	return false
}

func (r *GenerateRequest) options() generation.Options {
	return generation.Options{
		Orientation:       r.Orientation,
		CustomPrompt:      r.CustomPrompt,
		ReferenceNotes:    r.ReferenceNotes,
		BasePrompt:        r.BasePrompt,
		InspirationImages: r.InspirationImages,
		AutoPublish:       r.AutoPublish,
	}
}

func ListGenerationStyles(c *gin.Context) {
	app := getApp(c)

	styles, err := app.Generation().ListActiveStyles(c.Request.Context())
	if err != nil {
		internalError(c, err, "failed to load styles")
		return
	}

	c.JSON(http.StatusOK, gin.H{"styles": styles})
}

// Generate runs a single generation or a synchronous batch. Pipeline failures
// come back as results with success false, not as HTTP errors.
func Generate(c *gin.Context) {
	app := getApp(c)

	data := GenerateRequest{Mode: "single"}
	if !bindJSON(c, &data) {
		return
	}
	if !validOrientation(c, data.Orientation) {
		return
	}

	switch data.Mode {
	case "single", "":
		if data.StyleID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "style_id required for single generation"})
			return
		}

		c.JSON(http.StatusOK, app.Generation().Generate(c.Request.Context(), data.StyleID, data.options()))
	case "batch":
		count := defaultAdminBatchCount
		if data.Count != nil {
			count = *data.Count
		}

		batch := app.Generation().BatchGenerate(c.Request.Context(), count, generation.BatchOptions{
			StyleID:     data.StyleID,
			Orientation: data.Orientation,
			AutoPublish: data.AutoPublish,
			BasePrompt:  data.BasePrompt,
		})
		c.JSON(http.StatusOK, batch)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": `Invalid mode. Use "single" or "batch".`})
	}
}

func PreviewGeneration(c *gin.Context) {
	app := getApp(c)

	var data GenerateRequest
	if !bindJSON(c, &data) {
		return
	}
	if !validOrientation(c, data.Orientation) {
		return
	}
	if data.StyleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "style_id required for preview"})
		return
	}

	c.JSON(http.StatusOK, app.Generation().Preview(c.Request.Context(), data.StyleID, data.options()))
}
