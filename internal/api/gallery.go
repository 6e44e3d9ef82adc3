package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/db/repository"
	"github.com/blart-ai/blart-server/internal/services/ratelimit"
	"github.com/blart-ai/blart-server/internal/utils/hashutil"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	defaultGalleryLimit = 20
	maxGalleryLimit     = 100
)

type GalleryArtwork struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Description string             `json:"description"`
	Style       *string            `json:"style"`
	Tags        []string           `json:"tags"`
	Colors      []string           `json:"colors"`
	Orientation models.Orientation `json:"orientation"`
	URLs        GalleryURLs        `json:"urls"`
	Stats       GalleryStats       `json:"stats"`
	Published   any                `json:"published"`
}

type GalleryURLs struct {
	Page       string `json:"page"`
	Image      string `json:"image"`
	Download4K string `json:"download_4k"`
	Thumbnail  string `json:"thumbnail"`
}

type GalleryStats struct {
	Views     int `json:"views"`
	Downloads int `json:"downloads"`
	Orders    int `json:"orders"`
}

type PrintOption struct {
	Size        string   `json:"size"`
	PriceAUD    string   `json:"price_aud"`
	FrameColors []string `json:"frame_colors"`
}

type GalleryResponse struct {
	Gallery      string           `json:"gallery"`
	Website      string           `json:"website"`
	TotalResults int              `json:"total_results"`
	Artworks     []GalleryArtwork `json:"artworks"`
	PrintOptions []PrintOption    `json:"print_options"`
	FreeDownload bool             `json:"free_download"`
}

type TrackRequest struct {
	ArtworkID string `json:"artwork_id"`
	Action    string `json:"action"`
}

func toGalleryArtwork(siteURL string, artwork *models.Artwork) GalleryArtwork {
	var style *string
	if artwork.Style != nil {
		style = &artwork.Style.Name
	}

	var published any
	if !artwork.PublishedAt.IsZero() {
		published = artwork.PublishedAt.Time
	}

	return GalleryArtwork{
		ID:          artwork.ID.String(),
		Title:       artwork.Title,
		Slug:        artwork.Slug,
		Description: artwork.Description,
		Style:       style,
		Tags:        artwork.Tags,
		Colors:      artwork.Colors,
		Orientation: artwork.Orientation,
		URLs: GalleryURLs{
			Page:       fmt.Sprintf("%s/artwork/%s", strings.TrimRight(siteURL, "/"), artwork.Slug),
			Image:      artwork.ImageURL,
			Download4K: artwork.Image4KURL,
			Thumbnail:  artwork.ThumbnailURL,
		},
		Stats: GalleryStats{
			Views:     artwork.ViewCount,
			Downloads: artwork.DownloadCount,
			Orders:    artwork.OrderCount,
		},
		Published: published,
	}
}

// Gallery is the public listing of published artworks with the active print
// options.
func Gallery(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()

	limit := queryInt(c, "limit", defaultGalleryLimit)
	if limit <= 0 {
		limit = defaultGalleryLimit
	}
	limit = min(limit, maxGalleryLimit)

	query := repository.GalleryQuery{
		StyleSlug: c.Query("style"),
		Tag:       c.Query("tag"),
		Featured:  c.Query("featured") == "true",
		Limit:     limit,
		Offset:    max(queryInt(c, "offset", 0), 0),
		Sort:      repository.GallerySort(c.DefaultQuery("sort", string(repository.GallerySortNewest))),
	}

	artworks, err := app.ArtworkRepository.ListPublished(ctx, query)
	if err != nil {
		internalError(c, err, "failed to load gallery")
		return
	}

	products, err := app.PrintProductRepository.ListActive(ctx)
	if err != nil {
		internalError(c, err, "failed to load print products")
		return
	}

	siteURL := app.Config().PublicURL
	response := GalleryResponse{
		Gallery:      "Blart - AI Generated Art",
		Website:      siteURL,
		TotalResults: len(artworks),
		Artworks:     make([]GalleryArtwork, 0, len(artworks)),
		PrintOptions: make([]PrintOption, 0, len(products)),
		FreeDownload: true,
	}
	for i := range artworks {
		response.Artworks = append(response.Artworks, toGalleryArtwork(siteURL, &artworks[i]))
	}
	for _, p := range products {
		response.PrintOptions = append(response.PrintOptions, PrintOption{
			Size:        p.SizeLabel,
			PriceAUD:    fmt.Sprintf("%.2f", float64(p.RetailPriceAUD)/100),
			FrameColors: p.FrameColors,
		})
	}

	c.Header("Cache-Control", "public, s-maxage=300, stale-while-revalidate=600")
	c.JSON(http.StatusOK, response)
}

func GetArtwork(c *gin.Context) {
	app := getApp(c)

	artwork, err := app.ArtworkRepository.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		lookupFailed(c, err, "artwork")
		return
	}

	c.JSON(http.StatusOK, gin.H{"artwork": toGalleryArtwork(app.Config().PublicURL, artwork)})
}

func Track(c *gin.Context) {
	app := getApp(c)

	var data TrackRequest
	if !bindJSON(c, &data) {
		return
	}

	switch data.Action {
	case "view", "download", "order":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid params"})
		return
	}
	if !validID(c, data.ArtworkID, "artwork") {
		return
	}

	if err := app.ArtworkRepository.IncrementStat(c.Request.Context(), data.ArtworkID, data.Action); err != nil {
		internalError(c, err, "Failed to track")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Download hands out the free 4K URL of a published artwork. Each client IP
// gets a fixed number of downloads per UTC day.
func Download(c *gin.Context) {
	app := getApp(c)
	ctx := c.Request.Context()
	slug := c.Param("slug")

	ipHash := hashutil.Blake3Hash([]byte(c.ClientIP()))

	limiter := app.RateLimiter()
	allowed, err := limiter.Allow(ctx, ipHash)
	if err != nil {
		app.Logger.Warn("download limiter unavailable, allowing request", zap.Error(err))
	} else if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"message": (&ratelimit.LimitExceededError{Limit: limiter.Limit()}).Error()})
		return
	}

	artwork, err := app.ArtworkRepository.GetPublishedBySlug(ctx, slug)
	if err != nil {
		lookupFailed(c, err, "artwork")
		return
	}

	download := models.NewFreeDownload(artwork.ID, ipHash, c.Request.UserAgent())
	if _, err := app.DownloadRepository.Create(ctx, download); err != nil {
		app.Logger.Warn("failed to log download", zap.String("artwork_id", artwork.ID.String()), zap.Error(err))
	}
	if err := app.ArtworkRepository.IncrementStat(ctx, artwork.ID.String(), "download"); err != nil {
		app.Logger.Warn("failed to count download", zap.String("artwork_id", artwork.ID.String()), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"download_url": artwork.Image4KURL,
		"filename":     fmt.Sprintf("%s-4k.%s", slug, fileExtension(artwork.Image4KURL)),
		"title":        artwork.Title,
	})
}

func fileExtension(url string) string {
	if i := strings.LastIndex(url, "."); i >= 0 && i > strings.LastIndex(url, "/") {
		return url[i+1:]
	}
	return "png"
}
