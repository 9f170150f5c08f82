package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/VeraBsp/filmorate/config"
	"github.com/VeraBsp/filmorate/internal/infrastructure/persistence/postgres"
	"github.com/VeraBsp/filmorate/pkg/logger"
)

var errNoDatabase = errors.New("DATABASE_URL is not set")

// MigrateCmd groups schema commands.
type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" default:"1" help:"Apply pending migrations."`
	Down   MigrateDownCmd   `cmd:"" help:"Roll back the last applied migration."`
	Status MigrateStatusCmd `cmd:"" help:"List migrations and whether they are applied."`
}

// MigrateUpCmd applies pending migrations.
type MigrateUpCmd struct{}

// Run applies pending migrations.
func (c *MigrateUpCmd) Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	return withMigrator(ctx, cfg, log, func(m *postgres.Migrator) error {
		applied, err := m.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed", logger.Int("applied", applied))
		return nil
	})
}

// MigrateDownCmd rolls back one migration.
type MigrateDownCmd struct{}

// Run rolls back the last applied migration.
func (c *MigrateDownCmd) Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	return withMigrator(ctx, cfg, log, func(m *postgres.Migrator) error {
		version, err := m.Rollback(ctx)
		if err != nil {
			return fmt.Errorf("failed to roll back: %w", err)
		}
		if version == 0 {
			log.Info("nothing to roll back")
			return nil
		}
		log.Info("migration rolled back", logger.Int("version", version))
		return nil
	})
}

// MigrateStatusCmd prints the migration table.
type MigrateStatusCmd struct{}

// Run prints every known migration with its state.
func (c *MigrateStatusCmd) Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	return withMigrator(ctx, cfg, log, func(m *postgres.Migrator) error {
		status, err := m.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED AT")
		for _, mig := range status {
			applied := "pending"
			if mig.IsApplied {
				applied = mig.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
			fmt.Fprintf(w, "%03d\t%s\t%s\n", mig.Version, mig.Name, applied)
		}
		return w.Flush()
	})
}

func withMigrator(ctx context.Context, cfg *config.Config, log *logger.Logger, fn func(*postgres.Migrator) error) error {
	if !cfg.Database.Enabled() {
		return errNoDatabase
	}
	conn, err := connectPostgres(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(postgres.NewMigrator(conn))
}
