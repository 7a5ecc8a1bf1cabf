// Command irontrack-restore imports a backup file into the configured
// store from the command line, for recovery without a running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/irontrack/internal/backup"
	"github.com/claude/irontrack/internal/config"
	"github.com/claude/irontrack/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	filePath := flag.String("file", "", "path to backup JSON file (required)")
	mode := flag.String("mode", "merge", "restore mode: merge or overwrite")
	dryRun := flag.Bool("dry-run", false, "report counts without writing to the store")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "Usage: irontrack-restore -config config.yaml -file backup.json [-mode merge|overwrite] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	restoreMode := backup.Mode(*mode)
	if restoreMode != backup.Merge && restoreMode != backup.Overwrite {
		log.Error("invalid mode", "mode", *mode)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Error("failed to read backup file", "path", *filePath, "error", err)
		os.Exit(1)
	}
	snap, err := backup.Parse(data)
	if err != nil {
		log.Error("failed to parse backup", "error", err)
		os.Exit(1)
	}

	log.Info("backup loaded",
		"version", snap.Version,
		"routines", len(snap.Routines),
		"exercises", len(snap.Exercises),
		"stats", len(snap.Stats),
		"logs", len(snap.Logs),
	)

	if *dryRun {
		log.Info("DRY RUN mode — nothing written to the store")
		return
	}

	ctx := context.Background()

	var store storage.Store
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		dsn := cfg.Storage.Postgres.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		store, err = storage.OpenPostgres(ctx, dsn)
	default:
		store, err = storage.OpenSQLite(cfg.Storage.DataDir)
	}
	if err != nil {
		log.Error("failed to open store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := backup.Restore(ctx, store, snap, restoreMode); err != nil {
		log.Error("restore failed", "error", err)
		os.Exit(1)
	}
	log.Info("restore complete", "mode", restoreMode)
}
