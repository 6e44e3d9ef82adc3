package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

type GallerySort string

const (
	GallerySortNewest         GallerySort = "newest"
	GallerySortPopular        GallerySort = "popular"
	GallerySortMostDownloaded GallerySort = "most_downloaded"
)

// GalleryQuery filters the public listing. Only published artworks match.
type GalleryQuery struct {
	StyleSlug string
	Tag       string
	Featured  bool
	Limit     int
	Offset    int
	Sort      GallerySort
}

type IArtworkRepository interface {
	Repository[models.Artwork]
	WithTx(tx *bun.Tx) IArtworkRepository
	WithDB(db *bun.DB) IArtworkRepository
	GetBySlug(ctx context.Context, slug string) (*models.Artwork, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Artwork, error)
	ListByStatus(ctx context.Context, status models.ArtworkStatus, limit int) ([]models.Artwork, error)
	ListPublished(ctx context.Context, query GalleryQuery) ([]models.Artwork, error)
	UpdateColumns(ctx context.Context, artwork *models.Artwork, columns ...string) error
	IncrementStat(ctx context.Context, id string, stat string) error
	CountByStyle(ctx context.Context, styleID string) (int, error)
}

var statColumns = map[string]string{
	"view":     "view_count",
	"download": "download_count",
	"order":    "order_count",
}

type ArtworkRepository struct {
	db bun.IDB
}

func NewArtworkRepository(db *bun.DB) IArtworkRepository {
	return &ArtworkRepository{db: db}
}

func (r *ArtworkRepository) Create(ctx context.Context, artwork *models.Artwork) (*models.Artwork, error) {
	if artwork == nil {
		return nil, fmt.Errorf("artwork model is nil")
	}
	if artwork.Tags == nil {
		artwork.Tags = []string{}
	}
	if artwork.Colors == nil {
		artwork.Colors = []string{}
	}

	if _, err := r.db.NewInsert().Model(artwork).Exec(ctx); err != nil {
		return nil, err
	}

	return artwork, nil
}

func (r *ArtworkRepository) GetByID(ctx context.Context, id string) (*models.Artwork, error) {
	var artwork models.Artwork
	if err := r.db.NewSelect().Model(&artwork).Relation("Style").Where("a.id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}

	return &artwork, nil
}

func (r *ArtworkRepository) UpdateByID(ctx context.Context, id string, artwork *models.Artwork) (*models.Artwork, error) {
	if artwork == nil {
		return nil, fmt.Errorf("artwork model is nil")
	}

	artwork.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NewUpdate().Model(artwork).ExcludeColumn("id", "created_at").Where("id = ?", id).Exec(ctx); err != nil {
		return nil, err
	}

	return artwork, nil
}

func (r *ArtworkRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().Model(&models.Artwork{}).Where("id = ?", id).Exec(ctx)
	return err
}

func (r *ArtworkRepository) GetBySlug(ctx context.Context, slug string) (*models.Artwork, error) {
	var artwork models.Artwork
	if err := r.db.NewSelect().Model(&artwork).Relation("Style").Where("a.slug = ?", slug).Scan(ctx); err != nil {
		return nil, err
	}

	return &artwork, nil
}

func (r *ArtworkRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Artwork, error) {
	var artwork models.Artwork
	err := r.db.NewSelect().
		Model(&artwork).
		Relation("Style").
		Where("a.slug = ?", slug).
		Where("a.status = ?", models.ArtworkStatusPublished).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return &artwork, nil
}

func (r *ArtworkRepository) ListByStatus(ctx context.Context, status models.ArtworkStatus, limit int) ([]models.Artwork, error) {
	artworks := []models.Artwork{}
	err := r.db.NewSelect().
		Model(&artworks).
		Relation("Style").
		Where("a.status = ?", status).
		Order("a.created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return artworks, nil
}

func (r *ArtworkRepository) ListPublished(ctx context.Context, query GalleryQuery) ([]models.Artwork, error) {
	artworks := []models.Artwork{}
	q := r.db.NewSelect().
		Model(&artworks).
		Relation("Style").
		Where("a.status = ?", models.ArtworkStatusPublished)

	if query.Featured {
		q = q.Where("a.is_featured = ?", true)
	}
	if query.StyleSlug != "" {
		q = q.Where("style.slug = ?", query.StyleSlug)
	}
	if query.Tag != "" {
		if r.db.Dialect().Name() == dialect.PG {
			tag, err := json.Marshal([]string{query.Tag})
			if err != nil {
				return nil, err
			}
			q = q.Where("a.tags @> ?::jsonb", string(tag))
		} else {
			q = q.Where("EXISTS (SELECT 1 FROM json_each(a.tags) WHERE json_each.value = ?)", query.Tag)
		}
	}

	switch query.Sort {
	case GallerySortPopular:
		q = q.Order("a.order_count DESC")
	case GallerySortMostDownloaded:
		q = q.Order("a.download_count DESC")
	default:
		q = q.Order("a.published_at DESC")
	}

	if err := q.Limit(query.Limit).Offset(query.Offset).Scan(ctx); err != nil {
		return nil, err
	}

	return artworks, nil
}

func (r *ArtworkRepository) UpdateColumns(ctx context.Context, artwork *models.Artwork, columns ...string) error {
	artwork.UpdatedAt = time.Now().UTC()
	columns = append(columns, "updated_at")

	_, err := r.db.NewUpdate().Model(artwork).Column(columns...).WherePK().Exec(ctx)
	return err
}

// IncrementStat bumps one of the view, download or order counters.
func (r *ArtworkRepository) IncrementStat(ctx context.Context, id string, stat string) error {
	column, ok := statColumns[stat]
	if !ok {
		return fmt.Errorf("unknown artwork stat: %s", stat)
	}

	_, err := r.db.NewUpdate().
		Model((*models.Artwork)(nil)).
		Set("? = ? + 1", bun.Ident(column), bun.Ident(column)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *ArtworkRepository) CountByStyle(ctx context.Context, styleID string) (int, error) {
	return r.db.NewSelect().Model((*models.Artwork)(nil)).Where("style_id = ?", styleID).Count(ctx)
}

func (r *ArtworkRepository) WithTx(tx *bun.Tx) IArtworkRepository {
	return &ArtworkRepository{db: tx}
}

func (r *ArtworkRepository) WithDB(db *bun.DB) IArtworkRepository {
	return &ArtworkRepository{db: db}
}
