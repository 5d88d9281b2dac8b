package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ytsnap",
		Usage: "snapshot the metadata of every video a YouTube channel has uploaded",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading the environment; ignored when missing",
			},
		},
		Action: runAction,
		Commands: []*cli.Command{
			runCommand,
			scheduleCommand,
			serveCommand,
			dumpSnapshotCommand,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.RunContext(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s error: %+v\n", app.Name, err)
		os.Exit(1)
	}
}
