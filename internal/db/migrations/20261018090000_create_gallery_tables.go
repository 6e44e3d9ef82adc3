package migrations

import (
	"context"

	"github.com/blart-ai/blart-server/internal/db"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, conn *bun.DB) error {
		return db.CreateTables(ctx, conn)
	}, func(ctx context.Context, conn *bun.DB) error {
		return db.DropTables(ctx, conn)
	})
}
