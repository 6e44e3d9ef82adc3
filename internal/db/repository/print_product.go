package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type IPrintProductRepository interface {
	Create(ctx context.Context, product *models.PrintProduct) (*models.PrintProduct, error)
	List(ctx context.Context) ([]models.PrintProduct, error)
	ListActive(ctx context.Context) ([]models.PrintProduct, error)
}

type PrintProductRepository struct {
	db bun.IDB
}

func NewPrintProductRepository(db *bun.DB) IPrintProductRepository {
	return &PrintProductRepository{db: db}
}

func (r *PrintProductRepository) Create(ctx context.Context, product *models.PrintProduct) (*models.PrintProduct, error) {
	if product == nil {
		return nil, fmt.Errorf("print product model is nil")
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.Must(uuid.NewRandom())
	}
	if product.FrameColors == nil {
		product.FrameColors = []string{}
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NewInsert().Model(product).Exec(ctx); err != nil {
		return nil, err
	}

	return product, nil
}

func (r *PrintProductRepository) List(ctx context.Context) ([]models.PrintProduct, error) {
	products := []models.PrintProduct{}
	if err := r.db.NewSelect().Model(&products).Order("sort_order ASC").Scan(ctx); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *PrintProductRepository) ListActive(ctx context.Context) ([]models.PrintProduct, error) {
	products := []models.PrintProduct{}
	err := r.db.NewSelect().Model(&products).Where("is_active = ?", true).Order("sort_order ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	return products, nil
}
