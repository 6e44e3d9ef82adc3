package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/blart-ai/blart-server/internal/services/filestorage"
	"github.com/blart-ai/blart-server/internal/utils/imageutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReferenceImageRequest struct {
	ImageDataURL string `json:"image_data_url"`
	URL          string `json:"url"`
}

// UploadReferenceImage stores a data URL under the style's moodboard folder
// and appends the public URL to the style.
func UploadReferenceImage(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	id := c.Param("id")
	if !validID(c, id, "style") {
		return
	}

	var data ReferenceImageRequest
	if !bindJSON(c, &data) {
		return
	}
	if data.ImageDataURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing image_data_url"})
		return
	}

	mimeType, content, err := imageutil.ParseDataURL(data.ImageDataURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid image data URL"})
		return
	}

	if _, err := app.StyleRepository.GetByID(ctx, id); err != nil {
		lookupFailed(c, err, "style")
		return
	}

	key := fmt.Sprintf("reference-images/%s/%d.%s", id, time.Now().UnixMilli(), imageutil.ExtensionForMIME(mimeType))
	url, err := app.FileStorage().Upload(ctx, filestorage.NewFileInfo(key, content, mimeType))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, filestorage.ErrFileExists) {
			status = http.StatusConflict
		}
		app.Logger.Error("reference image upload failed", zap.String("key", key), zap.Error(err))
		c.JSON(status, gin.H{"message": fmt.Sprintf("Upload failed: %v", err)})
		return
	}

	style, err := app.StyleRepository.AppendReferenceImage(ctx, id, url)
	if err != nil {
		internalError(c, err, "failed to update style")
		return
	}

	c.JSON(http.StatusOK, gin.H{"style": style, "uploaded_url": url})
}

// RemoveReferenceImage drops a URL from the moodboard. The stored object is
// left in place.
func RemoveReferenceImage(c *gin.Context) {
	app := getApp(c)

	id := c.Param("id")
	if !validID(c, id, "style") {
		return
	}

	var data ReferenceImageRequest
	if !bindJSON(c, &data) {
		return
	}
	if data.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing url"})
		return
	}

	style, err := app.StyleRepository.RemoveReferenceImage(c.Request.Context(), id, data.URL)
	if err != nil {
		lookupFailed(c, err, "style")
		return
	}

	c.JSON(http.StatusOK, gin.H{"style": style})
}
