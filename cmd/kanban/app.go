package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/rpggio/kanban/internal/config"
	"github.com/rpggio/kanban/internal/domain/activity"
	"github.com/rpggio/kanban/internal/domain/board"
	"github.com/rpggio/kanban/internal/domain/tag"
	"github.com/rpggio/kanban/internal/redisstore"
	"github.com/rpggio/kanban/internal/repository"
	"github.com/rpggio/kanban/internal/sqlite"
)

// app holds the wired services shared by every command.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	boards   *board.Store
	tags     *tag.Service
	activity *activity.Service
	closers  []func() error
}

// activityStore is what both backends provide for the activity log.
type activityStore interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
	List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// appMode decides where logs go when no log file is configured.
type appMode int

const (
	modeServe appMode = iota
	modeTUI
	modeCLI
)

// openApp loads configuration, sets up logging and opens the configured store.
// override, when set, adjusts the loaded configuration before it is used.
func openApp(ctx context.Context, mode appMode, override func(*config.Config)) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if override != nil {
		override(&cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	a := &app{cfg: cfg}

	var logWriter io.Writer
	switch {
	case mode == modeTUI:
		// The alternate screen owns the terminal.
		logWriter = io.Discard
	case mode == modeCLI, cfg.Server.Transport == "stdio":
		// Keep stdout clean for output and JSON-RPC.
		logWriter = os.Stderr
	default:
		logWriter = os.Stdout
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, file.Close)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	kv, activities, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.boards = board.NewStore(kv, activities, a.logger)
	a.tags = tag.NewService(kv, activities, a.logger)
	a.activity = activity.NewService(activities, a.logger)
	return a, nil
}

func (a *app) openStore(ctx context.Context) (repository.KV, activityStore, error) {
	switch a.cfg.Store.Driver {
	case "redis":
		rdb, err := redisstore.Connect(ctx, a.cfg.Store.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		a.logger.Info("using redis store", "addr", redisAddr(rdb), "prefix", a.cfg.Store.RedisPrefix)
		return redisstore.NewKV(rdb, a.cfg.Store.RedisPrefix),
			redisstore.NewActivityRepository(rdb, a.cfg.Store.RedisPrefix), nil
	default:
		if err := ensureDBDir(a.cfg.Store.Path); err != nil {
			return nil, nil, fmt.Errorf("failed to prepare database path: %w", err)
		}
		db, err := sqlite.New(a.cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.RunMigrations(); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		a.logger.Debug("using sqlite store", "path", a.cfg.Store.Path)
		return sqlite.NewKV(db), sqlite.NewActivityRepository(db), nil
	}
}

// Close releases the store and the log file, newest first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

func redisAddr(rdb *redis.Client) string {
	return rdb.Options().Addr
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
