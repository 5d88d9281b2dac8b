package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Durun/ytsnap/internal/config"
	"github.com/Durun/ytsnap/internal/entity"
	"github.com/Durun/ytsnap/internal/impl/yt"
	"github.com/Durun/ytsnap/internal/interface/snapshot"
)

// Pipeline runs resolve, list, extract and write strictly in that order.
// Every stage receives the complete output of the previous one.
type Pipeline struct {
	Client  *yt.Client
	Handle  string
	List    yt.ListOptions
	Extract yt.ExtractOptions
	Writer  snapshot.Writer
	// Archive is optional.
	Archive snapshot.Archive

	Now      func() time.Time
	NewRunID func() string
}

type Result struct {
	RunID      string `json:"runId"`
	PlaylistID string `json:"playlistId"`
	VideoIDs   int    `json:"videoIds"`
	Records    int    `json:"records"`
	Path       string `json:"path"`
}

func New(cfg config.Config, writer snapshot.Writer, archive snapshot.Archive) *Pipeline {
	return &Pipeline{
		Client: yt.NewClient(cfg.APIBaseURL, cfg.APIKey,
			yt.WithRequestTimeout(cfg.RequestTimeout),
		),
		Handle: cfg.ChannelHandle,
		List: yt.ListOptions{
			PageSize: cfg.PageSize,
			MaxPages: cfg.MaxPages,
		},
		Extract: yt.ExtractOptions{
			BatchSize: cfg.BatchSize,
			Mode:      cfg.ExtractMode,
		},
		Writer:   writer,
		Archive:  archive,
		Now:      time.Now,
		NewRunID: uuid.NewString,
	}
}

// Run executes one pipeline run. The first failing stage ends the run; its
// error is returned wrapped with the stage name and nothing is retried.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	result := Result{RunID: p.NewRunID()}
	logger := slog.With(slog.String("run", result.RunID))
	start := p.Now()

	logger.Info("resolving uploads playlist", slog.String("handle", p.Handle))
	playlistID, err := yt.ResolveUploadsPlaylist(ctx, p.Client, p.Handle)
	if err != nil {
		return result, errors.Wrap(err, "resolve")
	}
	result.PlaylistID = playlistID

	videoIDs, err := yt.ListVideoIDs(ctx, p.Client, playlistID, p.List)
	if err != nil {
		return result, errors.Wrap(err, "list")
	}
	result.VideoIDs = len(videoIDs)
	logger.Info("listed playlist", slog.String("playlist", playlistID), slog.Int("videos", len(videoIDs)))

	records, err := yt.ExtractVideos(ctx, p.Client, videoIDs, p.Extract)
	if err != nil {
		return result, errors.Wrap(err, "extract")
	}
	result.Records = len(records)
	logger.Info("extracted videos", slog.Int("records", len(records)), slog.String("mode", p.Extract.Mode.String()))

	date := p.Writer.Date()
	path, err := p.Writer.WriteSnapshot(ctx, records)
	if err != nil {
		return result, errors.Wrap(err, "write")
	}
	result.Path = path
	logger.Info("wrote snapshot", slog.String("path", path))

	if p.Archive != nil {
		run := entity.Run{
			ID:            result.RunID,
			Date:          date,
			ChannelHandle: p.Handle,
			PlaylistID:    playlistID,
			SnapshotPath:  path,
			VideoCount:    len(records),
			CreatedAt:     start,
		}
		if err := p.Archive.WriteRun(ctx, run, records); err != nil {
			return result, errors.Wrap(err, "archive")
		}
		logger.Info("archived run")
	}

	logger.Info("run finished", slog.Duration("elapsed", p.Now().Sub(start)))
	return result, nil
}
