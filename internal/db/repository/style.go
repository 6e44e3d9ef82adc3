package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

type IStyleRepository interface {
	Repository[models.Style]
	WithTx(tx *bun.Tx) IStyleRepository
	WithDB(db *bun.DB) IStyleRepository
	List(ctx context.Context) ([]models.Style, error)
	ListActive(ctx context.Context) ([]models.Style, error)
	GetBySlug(ctx context.Context, slug string) (*models.Style, error)
	NextSortOrder(ctx context.Context) (int, error)
	UpdateColumns(ctx context.Context, style *models.Style, columns ...string) error
	AppendReferenceImage(ctx context.Context, id string, url string) (*models.Style, error)
	RemoveReferenceImage(ctx context.Context, id string, url string) (*models.Style, error)
}

type StyleRepository struct {
	db bun.IDB
}

func NewStyleRepository(db *bun.DB) IStyleRepository {
	return &StyleRepository{db: db}
}

func (r *StyleRepository) Create(ctx context.Context, style *models.Style) (*models.Style, error) {
	if style == nil {
		return nil, fmt.Errorf("style model is nil")
	}
	if style.ReferenceImages == nil {
		style.ReferenceImages = []string{}
	}

	if _, err := r.db.NewInsert().Model(style).Exec(ctx); err != nil {
		return nil, err
	}

	return style, nil
}

func (r *StyleRepository) GetByID(ctx context.Context, id string) (*models.Style, error) {
	var style models.Style
	if err := r.db.NewSelect().Model(&style).Where("s.id = ?", id).Scan(ctx); err != nil {
		return nil, err
	}

	return &style, nil
}

func (r *StyleRepository) UpdateByID(ctx context.Context, id string, style *models.Style) (*models.Style, error) {
	if style == nil {
		return nil, fmt.Errorf("style model is nil")
	}

	style.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NewUpdate().Model(style).ExcludeColumn("id", "slug", "created_at").Where("id = ?", id).Exec(ctx); err != nil {
		return nil, err
	}

	return style, nil
}

func (r *StyleRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().Model(&models.Style{}).Where("id = ?", id).Exec(ctx)
	return err
}

func (r *StyleRepository) List(ctx context.Context) ([]models.Style, error) {
	styles := []models.Style{}
	if err := r.db.NewSelect().Model(&styles).Order("s.sort_order ASC").Scan(ctx); err != nil {
		return nil, err
	}

	return styles, nil
}

func (r *StyleRepository) ListActive(ctx context.Context) ([]models.Style, error) {
	styles := []models.Style{}
	err := r.db.NewSelect().
		Model(&styles).
		Where("s.is_active = ?", true).
		Order("s.sort_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return styles, nil
}

func (r *StyleRepository) GetBySlug(ctx context.Context, slug string) (*models.Style, error) {
	var style models.Style
	if err := r.db.NewSelect().Model(&style).Where("s.slug = ?", slug).Scan(ctx); err != nil {
		return nil, err
	}

	return &style, nil
}

// NextSortOrder returns one past the highest sort_order in use, or 0 when
// there are no styles yet.
func (r *StyleRepository) NextSortOrder(ctx context.Context) (int, error) {
	var style models.Style
	err := r.db.NewSelect().Model(&style).Column("sort_order").Order("sort_order DESC").Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return style.SortOrder + 1, nil
}

func (r *StyleRepository) UpdateColumns(ctx context.Context, style *models.Style, columns ...string) error {
	style.UpdatedAt = time.Now().UTC()
	columns = append(columns, "updated_at")

	_, err := r.db.NewUpdate().Model(style).Column(columns...).WherePK().Exec(ctx)
	return err
}

func (r *StyleRepository) AppendReferenceImage(ctx context.Context, id string, url string) (*models.Style, error) {
	return r.editReferenceImages(ctx, id, func(images []string) []string {
		return append(images, url)
	})
}

func (r *StyleRepository) RemoveReferenceImage(ctx context.Context, id string, url string) (*models.Style, error) {
	return r.editReferenceImages(ctx, id, func(images []string) []string {
		kept := make([]string, 0, len(images))
		for _, image := range images {
			if image != url {
				kept = append(kept, image)
			}
		}
		return kept
	})
}

// editReferenceImages reads and rewrites the list inside one transaction.
// On Postgres the row is locked so concurrent edits serialize.
func (r *StyleRepository) editReferenceImages(ctx context.Context, id string, edit func([]string) []string) (*models.Style, error) {
	style := new(models.Style)
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(style).Where("s.id = ?", id)
		if tx.Dialect().Name() == dialect.PG {
			q = q.For("UPDATE")
		}
		if err := q.Scan(ctx); err != nil {
			return err
		}

		style.ReferenceImages = edit(style.ReferenceImages)
		style.UpdatedAt = time.Now().UTC()
		_, err := tx.NewUpdate().Model(style).Column("reference_images", "updated_at").WherePK().Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return style, nil
}

func (r *StyleRepository) WithTx(tx *bun.Tx) IStyleRepository {
	return &StyleRepository{db: tx}
}

func (r *StyleRepository) WithDB(db *bun.DB) IStyleRepository {
	return &StyleRepository{db: db}
}
