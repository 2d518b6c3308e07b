package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/liftlog/internal/archive"
	"github.com/claude/liftlog/internal/catalog"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/core"
	"github.com/claude/liftlog/internal/gamify"
	liftlogmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/recommend"
	"github.com/claude/liftlog/internal/records"
	"github.com/claude/liftlog/internal/schedule"
	"github.com/claude/liftlog/internal/server"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
	"github.com/claude/liftlog/internal/timer"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"gopkg.in/natefinch/lumberjack.v2"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)
	log.Info("LiftLog starting", "version", Version)

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database and restore the mirrored state
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	state, err := db.LoadState(ctx)
	if err != nil {
		log.Error("failed to restore state", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.Catalog.Dir)
	if err != nil {
		log.Error("failed to load catalog", "dir", cfg.Catalog.Dir, "error", err)
		os.Exit(1)
	}
	for _, w := range state.CustomWorkouts {
		cat.AddWorkout(w)
	}
	log.Info("catalog loaded",
		"exercises", len(cat.Exercises()),
		"workouts", len(cat.Workouts()),
		"restored_logs", len(state.Logs),
	)

	persister := storage.NewPersister(db, log)

	arch := archive.New(persister.SaveLog)
	arch.Restore(state.Logs)

	var collab gamify.Collaborator = gamify.Noop{}
	if cfg.Gamify.StateDir != "" {
		store, err := gamify.Open(cfg.Gamify.StateDir)
		if err != nil {
			log.Warn("gamification store unavailable, continuing without", "error", err)
		} else {
			defer store.Close()
			collab = store
		}
	}

	rec := records.New(arch, collab, log, persister.SaveRecord)
	rec.Restore(state.Records)

	settings := models.DefaultTimerSettings()
	settings.DefaultRestSec = cfg.Trainer.DefaultRestSec
	settings.DefaultSetCount = cfg.Trainer.DefaultSetCount
	settings.AutoStartRest = cfg.Trainer.AutoStartRest
	if state.Settings != nil {
		settings = *state.Settings
	}

	rt := timer.New(nil)
	sess := session.New(cat, arch, rec, collab, rt, log, settings, persister.SaveSettings, nil)

	recEngine := recommend.New(cat, arch, nil, cfg.Trainer.RecommendationsEnabled, nil)

	sched := schedule.New(cat, arch,
		persister.SaveScheduled, persister.RemoveScheduled, persister.SaveCustomWorkout)
	sched.Restore(state.Scheduled)

	profile := models.UserProfile{}
	if state.Profile != nil {
		profile = *state.Profile
	}

	app := core.New(cat, arch, rec, sess, recEngine, sched, rt, profile, persister.SaveProfile)
	srv := server.New(app, cfg.Auth.APIKey, log)

	// MCP over streamable HTTP at /mcp, REST everywhere else
	mcpSrv := liftlogmcp.New(liftlogmcp.LocalSource{App: app}, Version, log)
	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(mcpSrv))
	mux.Handle("/", srv)

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

	httpSrv := &http.Server{Handler: mux}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var w io.Writer = os.Stdout
	if cfg.File != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.Level)}))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
