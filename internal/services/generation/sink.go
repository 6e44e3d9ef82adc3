package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"
	"github.com/blart-ai/blart-server/internal/services/filestorage"
	"github.com/blart-ai/blart-server/internal/utils/imageutil"
	"github.com/blart-ai/blart-server/internal/utils/slugutil"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const maxCollisionSuffix = 3

type BlobStore interface {
	Upload(ctx context.Context, file filestorage.FileInfo) (string, error)
}

type ArtworkStore interface {
	Create(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error)
}

type PersistRequest struct {
	Style       *models.Style
	Image       *Image
	Metadata    Metadata
	Orientation models.Orientation
	Prompt      string
	Model       string
	AutoPublish bool
}

// Sink uploads generated bytes and records the artwork row. Upload and
// insert are not transactional: a failed insert leaves the blob behind.
type Sink struct {
	blobs    BlobStore
	artworks ArtworkStore
	now      func() time.Time
}

func NewSink(blobs BlobStore, artworks ArtworkStore, now func() time.Time) *Sink {
	return &Sink{blobs: blobs, artworks: artworks, now: now}
}

func (s *Sink) Persist(ctx context.Context, req PersistRequest) (*models.Artwork, error) {
	now := s.now().UTC()
	millis := now.UnixMilli()

	imageURL, err := s.upload(ctx, req.Style.Slug, millis, req.Image)
	if err != nil {
		return nil, err
	}

	width, height := req.Orientation.Dimensions()
	artwork := &models.Artwork{
		ID:               uuid.Must(uuid.NewRandom()),
		Title:            req.Metadata.Title,
		Slug:             slugutil.WithTimestamp(req.Metadata.Title, millis),
		Description:      req.Metadata.Description,
		ImageURL:         imageURL,
		Image4KURL:       imageURL,
		ThumbnailURL:     imageURL,
		StyleID:          req.Style.ID,
		Tags:             req.Metadata.Tags,
		Colors:           req.Metadata.Colors,
		Orientation:      req.Orientation,
		WidthPx:          width,
		HeightPx:         height,
		Status:           models.ArtworkStatusReview,
		GenerationPrompt: req.Prompt,
		GenerationModel:  req.Model,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.AutoPublish {
		artwork.Status = models.ArtworkStatusPublished
		artwork.PublishedAt = bun.NullTime{Time: now}
	}

	created, err := s.artworks.Create(ctx, artwork)
	if err != nil {
		return nil, &DatabaseInsertError{Err: err}
	}

	return created, nil
}

// upload writes to {slug}/{millis}.{ext}. When that key is taken it retries
// with {millis}-1 through {millis}-3 before giving up.
func (s *Sink) upload(ctx context.Context, styleSlug string, millis int64, image *Image) (string, error) {
	ext := imageutil.ExtensionForMIME(image.MIMEType)

	var path string
	for n := 0; n <= maxCollisionSuffix; n++ {
		path = UploadPath(styleSlug, millis, n, ext)

		url, err := s.blobs.Upload(ctx, filestorage.NewFileInfo(path, image.Data, image.MIMEType))
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, filestorage.ErrFileExists) {
			return "", &UploadError{Path: path, Err: err}
		}
	}

	return "", &StorageConflictError{Path: path}
}

func UploadPath(styleSlug string, millis int64, collision int, ext string) string {
	if collision == 0 {
		return fmt.Sprintf("%s/%d.%s", styleSlug, millis, ext)
	}
	return fmt.Sprintf("%s/%d-%d.%s", styleSlug, millis, collision, ext)
}
