package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	ports "yatube/internal/domain/ports/output"
	"yatube/internal/infrastructure/config"
	"yatube/internal/infrastructure/logger"
	prometheus_metrics "yatube/internal/infrastructure/outbound/metrics/prometheus"
	"yatube/internal/infrastructure/outbound/repository"
	"yatube/internal/infrastructure/outbound/repository/postgres"
)

const usage = `usage: manage <command> [flags]

commands:
  migrate       [-down]
  create-user   -username NAME -password PASS [-email EMAIL] [-first-name NAME] [-last-name NAME]
  create-group  -title TITLE [-slug SLUG] [-description TEXT]
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.MustLoad()
	log := logger.New(cfg.Env).With(slog.String("command", os.Args[1]))
	ctx := context.Background()

	command, args := os.Args[1], os.Args[2:]

	if command == "migrate" {
		if err := migrate(cfg.Database, args, log); err != nil {
			log.Error("Migration failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	// Schema changes go through the migrate command only.
	cfg.Database.AutoMigrate = false
	metrics := prometheus_metrics.NewPrometheusMetricsProvider()
	storage, err := repository.Open(ctx, cfg.Storage, cfg.Database, log, metrics)
	if err != nil {
		log.Error("Failed to open storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer storage.Close()

	cmds := newCommands(storage, cfg.Auth.BcryptCost, log, metrics, os.Stdout)

	switch command {
	case "create-user":
		err = cmds.createUser(ctx, args)
	case "create-group":
		err = cmds.createGroup(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error("Command failed", slog.String("command", command), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func migrate(cfg config.Database, args []string, log ports.Logger) error {
	fs := newFlagSet("migrate")
	down := fs.Bool("down", false, "revert all migrations")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return err
	}
	return postgres.Migrate(dsn, cfg.MigrationsPath, *down, log)
}
