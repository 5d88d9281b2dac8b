package main

import (
	"github.com/urfave/cli/v2"
)

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "run the pipeline once and write today's snapshot",
	Action: runAction,
}

func runAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	p, _, closeArchive, err := buildPipeline(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeArchive()

	ctx, cancel := withRunTimeout(c.Context, cfg.RunTimeout)
	defer cancel()

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}
	logResult(result)
	return nil
}
