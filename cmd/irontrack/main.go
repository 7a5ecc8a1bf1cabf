package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"tailscale.com/tsnet"

	"github.com/claude/irontrack/internal/audio"
	"github.com/claude/irontrack/internal/config"
	"github.com/claude/irontrack/internal/mcp"
	"github.com/claude/irontrack/internal/server"
	"github.com/claude/irontrack/internal/session"
	"github.com/claude/irontrack/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("IronTrack starting", "version", Version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
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
		log.Info("migrations applied")
		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}
		store, err = storage.OpenPostgres(ctx, dsn)
	default:
		if *migrateOnly {
			log.Info("migrate-only: sqlite migrates on open, exiting")
			return
		}
		store, err = storage.OpenSQLite(cfg.Storage.DataDir)
	}
	if err != nil {
		log.Error("failed to open store", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	log.Info("store opened", "backend", cfg.Storage.Backend)

	if err := storage.SeedExercises(ctx, store); err != nil {
		log.Warn("exercise catalog seed failed", "error", err)
	}

	drafts, err := session.OpenDraftDB(cfg.Storage.DataDir)
	if err != nil {
		log.Error("failed to open draft db", "error", err)
		os.Exit(1)
	}
	defer drafts.Close()

	player := audio.NewPlayer(cfg.Audio.Enabled, log)

	machine := session.NewMachine(session.Config{
		Store:     store,
		Drafts:    drafts,
		Logger:    log,
		RestAlert: player.RestDone,
		SubAlert:  player.SubInterval,
	})

	srv := server.New(store, machine, cfg.Auth.APIKey, log)

	mcpSrv := mcp.New(store, Version, log)
	srv.Mount("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	// An in-flight session draft must hit disk before exit.
	machine.Flush()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
