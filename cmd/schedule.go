package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"github.com/Durun/ytsnap/internal/pipeline"
)

var scheduleCommand = &cli.Command{
	Name:  "schedule",
	Usage: "run the pipeline on SCHEDULE in SCHEDULE_TZ until interrupted",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "now",
			Usage: "also run once immediately",
		},
	},
	Action: scheduleAction,
}

func scheduleAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, _, closeArchive, err := buildPipeline(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeArchive()

	logger := cron.PrintfLogger(slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo))
	scheduler := cron.New(
		cron.WithLocation(cfg.ScheduleLocation),
		cron.WithLogger(logger),
		cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		),
	)

	job := scheduledRun(c.Context, p, cfg.RunTimeout)
	if _, err := scheduler.AddFunc(cfg.Schedule, job); err != nil {
		return errors.Wrapf(err, "SCHEDULE %q", cfg.Schedule)
	}

	slog.Info("scheduler started",
		slog.String("schedule", cfg.Schedule),
		slog.String("tz", cfg.ScheduleLocation.String()),
	)
	scheduler.Start()
	if c.Bool("now") {
		scheduler.Entries()[0].WrappedJob.Run()
	}

	<-c.Context.Done()
	slog.Info("stopping scheduler")
	<-scheduler.Stop().Done()
	return nil
}

// scheduledRun logs failures instead of returning them: the next tick is the
// only retry.
func scheduledRun(ctx context.Context, p *pipeline.Pipeline, timeout time.Duration) func() {
	return func() {
		runCtx, cancel := withRunTimeout(ctx, timeout)
		defer cancel()

		result, err := p.Run(runCtx)
		if err != nil {
			slog.Error("scheduled run failed", slog.String("run", result.RunID), slog.String("error", fmt.Sprintf("%+v", err)))
			return
		}
		logResult(result)
	}
}
