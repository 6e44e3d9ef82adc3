package db

import (
	"context"
	"fmt"

	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/db/drivers"

	"github.com/uptrace/bun/extra/bundebug"
)

func NewConnection(ctx context.Context, cfg *config.Config) (drivers.Driver, error) {
	var (
		driver drivers.Driver
		err    error
	)

	switch cfg.DB.Driver {
	case config.DBDriverSQLite:
		driver, err = drivers.NewSQLiteDriver(ctx, drivers.SQLiteDriverName, cfg.DB.DSN)
	case config.DBDriverLibSQL:
		driver, err = drivers.NewSQLiteDriver(ctx, drivers.LibSQLDriverName, cfg.DB.DSN)
	case config.DBDriverPostgres:
		driver, err = drivers.NewPGDriver(ctx, cfg.DB.DSN)
	default:
		return nil, fmt.Errorf("invalid database driver: %s", cfg.DB.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DB.Driver, err)
	}

	driver.GetDB().AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),
		bundebug.FromEnv(),
	))
	return driver, nil
}
