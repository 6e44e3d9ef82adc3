package migrations

import (
	"github.com/blart-ai/blart-server/internal/config"

	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// InitMigrations lets `migration create-go` place new files next to this one.
// Production binaries carry no source tree to discover.
func InitMigrations() error {
	cfg := config.GetConfig()

	if cfg != nil && cfg.Environment != "production" && cfg.Environment != "prod" {
		if err := Migrations.DiscoverCaller(); err != nil {
			return err
		}
	}

	return nil
}
