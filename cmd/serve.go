package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/Durun/ytsnap/internal/entity"
	"github.com/Durun/ytsnap/internal/impl/file"
	"github.com/Durun/ytsnap/internal/pipeline"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "serve GET /_task/export and GET /snapshots/:date on PORT",
	Action: serveAction,
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, writer, closeArchive, err := buildPipeline(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeArchive()

	e := echo.New()
	e.HideBanner = true
	newExportServer(p, writer, cfg.RunTimeout).routes(e)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("port", cfg.Port))
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return errors.WithStack(err)
	case <-c.Context.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return errors.WithStack(err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.WithStack(err)
	}
	return nil
}

type runner interface {
	Run(ctx context.Context) (pipeline.Result, error)
}

type snapshotPather interface {
	Path(date string) string
}

type exportServer struct {
	runner  runner
	pather  snapshotPather
	timeout time.Duration

	// running is held for the duration of an export.
	running sync.Mutex
}

func newExportServer(r runner, pather snapshotPather, timeout time.Duration) *exportServer {
	return &exportServer{
		runner:  r,
		pather:  pather,
		timeout: timeout,
	}
}

func (s *exportServer) routes(e *echo.Echo) {
	e.GET("/_task/export", s.export)
	e.GET("/snapshots/:date", s.snapshot)
}

func (s *exportServer) export(c echo.Context) error {
	if !s.running.TryLock() {
		return c.String(http.StatusConflict, "export already running")
	}
	defer s.running.Unlock()

	// The run outlives a dropped trigger connection; only the timeout stops it.
	ctx, cancel := withRunTimeout(context.WithoutCancel(c.Request().Context()), s.timeout)
	defer cancel()

	slog.Info("export task start")
	result, err := s.runner.Run(ctx)
	if err != nil {
		slog.Error("export failed", slog.String("run", result.RunID), slog.String("error", fmt.Sprintf("%+v", err)))
		return c.String(http.StatusInternalServerError, "export failed")
	}
	logResult(result)
	return c.JSON(http.StatusOK, result)
}

func (s *exportServer) snapshot(c echo.Context) error {
	date := c.Param("date")
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return c.String(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	records, err := file.ReadSnapshot(s.pather.Path(date))
	if errors.Is(err, fs.ErrNotExist) {
		return c.String(http.StatusNotFound, "no snapshot for "+date)
	}
	if err != nil {
		slog.Error("read snapshot failed", slog.String("date", date), slog.String("error", fmt.Sprintf("%+v", err)))
		return c.String(http.StatusInternalServerError, "error")
	}
	if records == nil {
		records = []entity.VideoRecord{}
	}
	return c.JSON(http.StatusOK, records)
}
