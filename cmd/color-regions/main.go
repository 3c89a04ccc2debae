// Package main is the color-regions command line tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/color-regions/internal/config"
	"github.com/ironsheep/color-regions/internal/logger"
	"github.com/ironsheep/color-regions/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	flagSource   = "src"
	flagDest     = "dst"
	flagConfig   = "config"
	flagWorkers  = "workers"
	flagLogLevel = "log-level"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		stop()
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "%s %s\n", c.App.Name, Version)
		fmt.Fprintf(c.App.Writer, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(c.App.Writer, "  Git commit: %s\n", GitCommit)
	}

	return &cli.App{
		Name:      "color-regions",
		Usage:     "draw labelled boxes around colored regions in a directory of images",
		UsageText: "color-regions --src DIR --dst DIR [--config FILE] [--workers N] [--log-level LEVEL]",
		Version:   Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagSource,
				Usage:    "read images from `DIR` (not recursive)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     flagDest,
				Usage:    "write annotated images to `DIR`, created if missing",
				Required: true,
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load settings from YAML `FILE` over the defaults",
			},
			&cli.IntFlag{
				Name:  flagWorkers,
				Usage: "process `N` images at once (overrides the config file)",
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Usage:   "log `LEVEL`: debug, info, warn or error",
				Value:   "info",
				EnvVars: []string{"COLOR_REGIONS_LOG_LEVEL"},
			},
		},
		Action: run,
	}
}

// run annotates one directory. Per-file failures are logged by the runner
// and do not change the exit status.
func run(c *cli.Context) error {
	level, err := logger.ParseLevel(c.String(flagLogLevel))
	if err != nil {
		return err
	}
	lg := logger.NewConsoleLogger(level)

	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		if cfg, err = config.Load(path); err != nil {
			return err
		}
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	lg.Debug("main", "starting", logger.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	})

	_, err = pipeline.NewRunner(cfg, lg).Run(c.Context, c.String(flagSource), c.String(flagDest))
	return err
}
