package repository

import (
	"context"
	"fmt"

	"github.com/blart-ai/blart-server/internal/db/models"

	"github.com/uptrace/bun"
)

type IDownloadRepository interface {
	Create(ctx context.Context, download *models.Download) (*models.Download, error)
	CountByArtwork(ctx context.Context, artworkID string) (int, error)
}

type DownloadRepository struct {
	db bun.IDB
}

func NewDownloadRepository(db *bun.DB) IDownloadRepository {
	return &DownloadRepository{db: db}
}

func (r *DownloadRepository) Create(ctx context.Context, download *models.Download) (*models.Download, error) {
	if download == nil {
		return nil, fmt.Errorf("download model is nil")
	}

	if _, err := r.db.NewInsert().Model(download).Exec(ctx); err != nil {
		return nil, err
	}

	return download, nil
}

func (r *DownloadRepository) CountByArtwork(ctx context.Context, artworkID string) (int, error) {
	return r.db.NewSelect().Model((*models.Download)(nil)).Where("artwork_id = ?", artworkID).Count(ctx)
}
