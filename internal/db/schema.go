package db

import (
	"context"

	"github.com/blart-ai/blart-server/internal/db/models"

	"github.com/uptrace/bun"
)

var tables = []any{
	(*models.Style)(nil),
	(*models.Artwork)(nil),
	(*models.Setting)(nil),
	(*models.PrintProduct)(nil),
	(*models.Download)(nil),
	(*models.Event)(nil),
	(*models.APIKey)(nil),
}

// CreateTables creates every table the server uses, skipping existing ones.
func CreateTables(ctx context.Context, db bun.IDB) error {
	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	indexes := []struct {
		model   any
		name    string
		columns []string
	}{
		{(*models.Artwork)(nil), "artworks_status_idx", []string{"status"}},
		{(*models.Artwork)(nil), "artworks_style_id_idx", []string{"style_id"}},
		{(*models.Download)(nil), "downloads_artwork_id_idx", []string{"artwork_id"}},
		{(*models.Event)(nil), "events_created_at_idx", []string{"created_at"}},
	}
	for _, idx := range indexes {
		_, err := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.columns...).IfNotExists().Exec(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

// DropTables drops every table in reverse creation order.
func DropTables(ctx context.Context, db bun.IDB) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(tables[i]).IfExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
