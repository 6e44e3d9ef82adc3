package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/utils/slugutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultAdminArtworkLimit = 50

type CreateArtworkRequest struct {
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	ImageURL         string               `json:"image_url"`
	Image4KURL       string               `json:"image_4k_url"`
	ThumbnailURL     string               `json:"thumbnail_url"`
	StyleID          string               `json:"style_id"`
	Tags             []string             `json:"tags"`
	Colors           []string             `json:"colors"`
	Orientation      models.Orientation   `json:"orientation"`
	WidthPx          int                  `json:"width_px"`
	HeightPx         int                  `json:"height_px"`
	GenerationPrompt string               `json:"generation_prompt"`
	GenerationModel  string               `json:"generation_model"`
	Status           models.ArtworkStatus `json:"status"`
}

type UpdateArtworkRequest struct {
	Title       *string               `json:"title"`
	Description *string               `json:"description"`
	Tags        *[]string             `json:"tags"`
	Status      *models.ArtworkStatus `json:"status"`
	IsFeatured  *bool                 `json:"is_featured"`
}

type PublishArtworkRequest struct {
	Title string `json:"title"`
}

func ListArtworks(c *gin.Context) {
	app := getApp(c)

	status := models.ArtworkStatus(c.DefaultQuery("status", string(models.ArtworkStatusReview)))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status"})
		return
	}

	limit := queryInt(c, "limit", defaultAdminArtworkLimit)
	if limit <= 0 {
		limit = defaultAdminArtworkLimit
	}

	artworks, err := app.ArtworkRepository.ListByStatus(c.Request.Context(), status, limit)
	if err != nil {
		internalError(c, err, "failed to load artworks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"artworks": artworks})
}

func CreateArtwork(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	data := CreateArtworkRequest{
		Orientation: models.OrientationPortrait,
		Status:      models.ArtworkStatusReview,
	}
	if !bindJSON(c, &data) {
		return
	}

	if strings.TrimSpace(data.Title) == "" || data.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and image_url are required"})
		return
	}
	if !data.Orientation.Valid() || !data.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid orientation or status"})
		return
	}

	styleID, err := uuid.Parse(data.StyleID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid style_id"})
		return
	}
	if _, err := app.StyleRepository.GetByID(ctx, styleID.String()); err != nil {
		lookupFailed(c, err, "style")
		return
	}

	if data.WidthPx == 0 || data.HeightPx == 0 {
		data.WidthPx, data.HeightPx = data.Orientation.Dimensions()
	}
	if data.Tags == nil {
		data.Tags = []string{}
	}
	if data.Colors == nil {
		data.Colors = []string{}
	}

	now := time.Now().UTC()
	artwork := &models.Artwork{
		ID:               uuid.Must(uuid.NewRandom()),
		Title:            data.Title,
		Slug:             slugutil.WithTimestamp(data.Title, now.UnixMilli()),
		Description:      data.Description,
		ImageURL:         data.ImageURL,
		Image4KURL:       firstNonEmpty(data.Image4KURL, data.ImageURL),
		ThumbnailURL:     firstNonEmpty(data.ThumbnailURL, data.ImageURL),
		StyleID:          styleID,
		Tags:             data.Tags,
		Colors:           data.Colors,
		Orientation:      data.Orientation,
		WidthPx:          data.WidthPx,
		HeightPx:         data.HeightPx,
		GenerationPrompt: data.GenerationPrompt,
		GenerationModel:  data.GenerationModel,
		CreatedAt:        now,
	}
	artwork.SetStatus(data.Status, now)

	created, err := app.ArtworkRepository.Create(ctx, artwork)
	if err != nil {
		internalError(c, err, "failed to create artwork")
		return
	}

	c.JSON(http.StatusOK, gin.H{"artwork": created})
}

func UpdateArtwork(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	id := c.Param("id")
	if !validID(c, id, "artwork") {
		return
	}

	var data UpdateArtworkRequest
	if !bindJSON(c, &data) {
		return
	}
	if data.Status != nil && !data.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status"})
		return
	}

	artwork, err := app.ArtworkRepository.GetByID(ctx, id)
	if err != nil {
		lookupFailed(c, err, "artwork")
		return
	}

	var columns []string
	if data.Title != nil {
		artwork.Title = *data.Title
		columns = append(columns, "title")
	}
	if data.Description != nil {
		artwork.Description = *data.Description
		columns = append(columns, "description")
	}
	if data.Tags != nil {
		artwork.Tags = *data.Tags
		columns = append(columns, "tags")
	}
	if data.IsFeatured != nil {
		artwork.IsFeatured = *data.IsFeatured
		columns = append(columns, "is_featured")
	}
	if data.Status != nil {
		artwork.SetStatus(*data.Status, time.Now().UTC())
		columns = append(columns, "status", "published_at")
	}

	if len(columns) > 0 {
		if err := app.ArtworkRepository.UpdateColumns(ctx, artwork, columns...); err != nil {
			internalError(c, err, "failed to update artwork")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"artwork": artwork})
}

// PublishArtwork moves an artwork to published, optionally retitling it.
// The slug stays as generated so existing links keep working.
func PublishArtwork(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	id := c.Param("id")
	if !validID(c, id, "artwork") {
		return
	}

	var data PublishArtworkRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &data) {
		return
	}

	artwork, err := app.ArtworkRepository.GetByID(ctx, id)
	if err != nil {
		lookupFailed(c, err, "artwork")
		return
	}

	columns := []string{"status", "published_at"}
	if title := strings.TrimSpace(data.Title); title != "" {
		artwork.Title = title
		columns = append(columns, "title")
	}
	artwork.SetStatus(models.ArtworkStatusPublished, time.Now().UTC())

	if err := app.ArtworkRepository.UpdateColumns(ctx, artwork, columns...); err != nil {
		internalError(c, err, "failed to publish artwork")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Artwork published!", "artwork": artwork})
}

func RejectArtwork(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	id := c.Param("id")
	if !validID(c, id, "artwork") {
		return
	}

	artwork, err := app.ArtworkRepository.GetByID(ctx, id)
	if err != nil {
		lookupFailed(c, err, "artwork")
		return
	}

	artwork.SetStatus(models.ArtworkStatusRejected, time.Now().UTC())
	if err := app.ArtworkRepository.UpdateColumns(ctx, artwork, "status"); err != nil {
		internalError(c, err, "failed to reject artwork")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Artwork rejected"})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
