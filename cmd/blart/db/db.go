package cmd

import (
	"fmt"

	"github.com/blart-ai/blart-server/internal/config"
	"github.com/blart-ai/blart-server/internal/db"
	"github.com/blart-ai/blart-server/internal/db/migrations"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"
)

var Cmd = &cobra.Command{
	Use:   "db",
	Short: "Utility for database management",
}

func init() {
	setupMigrationCmd(Cmd)
}

// migratorFrom opens the configured database lazily, after the root command
// has loaded config.
func migratorFrom(cmd *cobra.Command) (*migrate.Migrator, func(), error) {
	if err := migrations.InitMigrations(); err != nil {
		return nil, nil, err
	}

	driver, err := db.NewConnection(cmd.Context(), config.MustGetConfig())
	if err != nil {
		return nil, nil, err
	}

	return migrate.NewMigrator(driver.GetDB(), migrations.Migrations), func() { driver.Close() }, nil
}

func withMigrator(fn func(cmd *cobra.Command, args []string, migrator *migrate.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		migrator, closeDB, err := migratorFrom(cmd)
		if err != nil {
			return err
		}
		defer closeDB()

		return fn(cmd, args, migrator)
	}
}

func setupMigrationCmd(cmd *cobra.Command) {
	migrationCmd := &cobra.Command{
		Use:   "migration",
		Short: "Utility for handling database migrations",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "create migration tables",
		RunE: withMigrator(func(cmd *cobra.Command, args []string, migrator *migrate.Migrator) error {
			return migrator.Init(cmd.Context())
		}),
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "migrate database",
		RunE: withMigrator(func(cmd *cobra.Command, args []string, migrator *migrate.Migrator) error {
			if err := migrator.Init(cmd.Context()); err != nil {
				return err
			}
			if err := migrator.Lock(cmd.Context()); err != nil {
				return err
			}
			defer migrator.Unlock(cmd.Context()) //nolint:errcheck

			group, err := migrator.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			if group.IsZero() {
				fmt.Printf("there are no new migrations to run (database is up to date)\n")
				return nil
			}
			fmt.Printf("migrated to %s\n", group)
			return nil
		}),
	}

	rollbackCmd := &cobra.Command{
		Use:   "rollback",
		Short: "rollback the last migration group",
		RunE: withMigrator(func(cmd *cobra.Command, args []string, migrator *migrate.Migrator) error {
			if err := migrator.Lock(cmd.Context()); err != nil {
				return err
			}
			defer migrator.Unlock(cmd.Context()) //nolint:errcheck

			group, err := migrator.Rollback(cmd.Context())
			if err != nil {
				return err
			}
			if group.IsZero() {
				fmt.Printf("there are no groups to roll back\n")
				return nil
			}
			fmt.Printf("rolled back %s\n", group)
			return nil
		}),
	}

	lockCmd := &cobra.Command{
		Use:   "lock",
		Short: "Lock the database",
		RunE: withMigrator(func(cmd *cobra.Command, args []string, migrator *migrate.Migrator) error {
			if err := migrator.Lock(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("locked\n")
			return nil
		}),
	}

	unlockCmd := &cobra.Command{
		Use:   "unlock",
		Short: "Unlock the database",
		RunE: withMigrator(func(cmd *cobra.Command, args []string, migrator *migrate.Migrator) error {
			if err := migrator.Unlock(cmd.Context()); err != nil {
				return err
			}
			fmt.Printf("unlocked\n")
			return nil
		}),
	}

	createGoCmd := &cobra.Command{
		Use:   "create-go [name]",
		Short: "Create a Go migration file",
		Args:  cobra.ExactArgs(1),
		RunE: withMigrator(func(cmd *cobra.Command, args []string, migrator *migrate.Migrator) error {
			file, err := migrator.CreateGoMigration(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("created migration file %s in %s\n", file.Name, file.Path)
			return nil
		}),
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the status of the migrations",
		RunE: withMigrator(func(cmd *cobra.Command, args []string, migrator *migrate.Migrator) error {
			status, err := migrator.MigrationsWithStatus(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("migrations: %s\n", status)
			fmt.Printf("unapplied migrations: %s\n", status.Unapplied())
			fmt.Printf("last migration group: %s\n", status.LastGroup())
			return nil
		}),
	}

	markAppliedCmd := &cobra.Command{
		Use:   "mark-applied",
		Short: "Mark all migrations as applied without actually running them",
		RunE: withMigrator(func(cmd *cobra.Command, args []string, migrator *migrate.Migrator) error {
			group, err := migrator.Migrate(cmd.Context(), migrate.WithNopMigration())
			if err != nil {
				return err
			}
			if group.IsZero() {
				fmt.Printf("there are no new migrations to mark as applied\n")
				return nil
			}
			fmt.Printf("marked as applied %s\n", group)
			return nil
		}),
	}

	migrationCmd.AddCommand(
		initCmd,
		migrateCmd,
		rollbackCmd,
		lockCmd,
		unlockCmd,
		createGoCmd,
		statusCmd,
		markAppliedCmd,
	)

	cmd.AddCommand(migrationCmd)
}
