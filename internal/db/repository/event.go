package repository

import (
	"context"
	"fmt"

	"github.com/blart-ai/blart-server/internal/db/models"

	"github.com/uptrace/bun"
)

type IEventRepository interface {
	WithTx(tx *bun.Tx) IEventRepository
	WithDB(db *bun.DB) IEventRepository
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	ListRecent(ctx context.Context, limit int) ([]models.Event, error)
}

type EventRepository struct {
	db bun.IDB
}

func NewEventRepository(db *bun.DB) IEventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event == nil {
		return nil, fmt.Errorf("event model is nil")
	}

	if _, err := r.db.NewInsert().Model(event).Exec(ctx); err != nil {
		return nil, err
	}

	return event, nil
}

func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]models.Event, error) {
	events := []models.Event{}
	if err := r.db.NewSelect().Model(&events).Order("e.created_at DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepository) WithTx(tx *bun.Tx) IEventRepository {
	return &EventRepository{db: tx}
}

func (r *EventRepository) WithDB(db *bun.DB) IEventRepository {
	return &EventRepository{db: db}
}
