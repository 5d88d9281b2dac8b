package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/Durun/ytsnap/internal/config"
	"github.com/Durun/ytsnap/internal/impl/file"
	"github.com/Durun/ytsnap/internal/impl/sqlite"
	"github.com/Durun/ytsnap/internal/pipeline"
)

func loadConfig(c *cli.Context) (config.Config, error) {
	if err := config.LoadDotenv(c.String("env-file")); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

// buildPipeline validates cfg and wires the snapshot writer and, when
// ARCHIVE_DB is set, the SQLite archive. The returned func closes the archive.
func buildPipeline(ctx context.Context, cfg config.Config) (*pipeline.Pipeline, *file.SnapshotWriter, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	writer := file.NewSnapshotWriter(cfg.DataDir, cfg.SnapshotPrefix, cfg.Location)
	if cfg.ArchiveDB == "" {
		return pipeline.New(cfg, writer, nil), writer, func() error { return nil }, nil
	}

	db, err := sqlite.NewSQLiteDB(cfg.ArchiveDB)
	if err != nil {
		return nil, nil, nil, errors.WithStack(err)
	}
	store := sqlite.NewSnapshotStore(db)
	if err := store.Prepare(ctx); err != nil {
		db.Close()
		return nil, nil, nil, errors.WithStack(err)
	}

	return pipeline.New(cfg, writer, store), writer, db.Close, nil
}

// withRunTimeout bounds a whole run. Zero means no bound.
func withRunTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func logResult(result pipeline.Result) {
	slog.Info("snapshot written",
		slog.String("run", result.RunID),
		slog.String("playlist", result.PlaylistID),
		slog.Int("videoIds", result.VideoIDs),
		slog.Int("records", result.Records),
		slog.String("path", result.Path),
	)
}
