package repository

import (
	"context"
	"time"

	"github.com/blart-ai/blart-server/internal/db/models"

	"github.com/uptrace/bun"
)

type ISettingRepository interface {
	WithTx(tx *bun.Tx) ISettingRepository
	WithDB(db *bun.DB) ISettingRepository
	Get(ctx context.Context, key string) (*models.Setting, error)
	GetValue(ctx context.Context, key string) (string, bool, error)
	Upsert(ctx context.Context, key, value string) (*models.Setting, error)
	List(ctx context.Context) ([]models.Setting, error)
}

type SettingRepository struct {
	db bun.IDB
}

func NewSettingRepository(db *bun.DB) ISettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.NewSelect().Model(&setting).Where(`"key" = ?`, key).Scan(ctx); err != nil {
		return nil, err
	}

	return &setting, nil
}

// GetValue returns the stored value and whether a row exists for key.
func (r *SettingRepository) GetValue(ctx context.Context, key string) (string, bool, error) {
	setting, err := r.Get(ctx, key)
	if IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return setting.Value, true, nil
}

func (r *SettingRepository) Upsert(ctx context.Context, key, value string) (*models.Setting, error) {
	setting := &models.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := r.db.NewInsert().
		Model(setting).
		On(`CONFLICT ("key") DO UPDATE`).
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return setting, nil
}

func (r *SettingRepository) List(ctx context.Context) ([]models.Setting, error) {
	settings := []models.Setting{}
	if err := r.db.NewSelect().Model(&settings).Order(`"key" ASC`).Scan(ctx); err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *SettingRepository) WithTx(tx *bun.Tx) ISettingRepository {
	return &SettingRepository{db: tx}
}

func (r *SettingRepository) WithDB(db *bun.DB) ISettingRepository {
	return &SettingRepository{db: db}
}
