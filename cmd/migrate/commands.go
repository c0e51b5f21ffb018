package main

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Jstali/employee-onboarding-sub000/internal/app"
	"github.com/Jstali/employee-onboarding-sub000/internal/config"
	"github.com/Jstali/employee-onboarding-sub000/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate up failed: %w", err)
			}
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back the given number of migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer")
			}
			steps = n
		}
		return withMigrator(func(m *migrate.Migrate) error {
			if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return fmt.Errorf("migrate down failed: %w", err)
			}
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				cmd.Println("no migrations applied")
				return nil
			}
			if err != nil {
				return err
			}
			cmd.Printf("version %d (dirty: %t)\n", version, dirty)
			return nil
		})
	},
}

var seedHRCmd = &cobra.Command{
	Use:   "seed-hr",
	Short: "Create the default HR account and its roster record",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return app.SeedDefaultHR(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, seedHRCmd)
}

func withMigrator(fn func(*migrate.Migrate) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	migrator, err := migrate.NewWithSourceInstance("iofs", source, buildPostgresURL(cfg.Database))
	if err != nil {
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := fn(migrator); err != nil {
		return err
	}
	zap.L().Info("migration command finished")
	return nil
}

func buildPostgresURL(db config.DatabaseConfig) string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   db.Host + ":" + db.Port,
		User:   url.UserPassword(db.User, db.Password),
		Path:   db.Name,
	}
	q := u.Query()
	q.Set("sslmode", db.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
