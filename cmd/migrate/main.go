package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/database"
	"github.com/thetaf313/gestion-salaires-multi-entreprise-sub002/internal/config"
)

func main() {
	steps := flag.Int("steps", 0, "number of migrations to roll back with down (0 = all)")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if err := runMigration(action, cfg.DatabaseURL(), *steps); err != nil {
		slog.Error("Migration failed", "action", action, "error", err)
		os.Exit(1)
	}
	slog.Info("Migration completed", "action", action)
}

func runMigration(action, dsn string, steps int) error {
	m, err := database.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			slog.Info("No migration applied")
			return nil
		}
		if err != nil {
			return err
		}
		slog.Info("Migration version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
