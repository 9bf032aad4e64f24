// Package app implements the histkit command-line interface.
package app

import (
	"github.com/urfave/cli/v2"

	"github.com/j-veylop/histkit/internal/config"
	"github.com/j-veylop/histkit/internal/logger"
	"github.com/j-veylop/histkit/internal/version"
)

// Flag names shared between commands.
const (
	flagDB          = "db"
	flagLogLevel    = "log-level"
	flagDefinitions = "definitions"
	flagForce       = "force"
	flagWorkers     = "workers"
	flagFollow      = "follow"
	flagAll         = "all"
	flagScale       = "scale"
)

// runner carries the configuration into command actions.
type runner struct {
	cfg *config.Config
}

// New builds the histkit CLI application.
func New(cfg *config.Config) *cli.App {
	r := &runner{cfg: cfg}

	return &cli.App{
		Name:    "histkit",
		Usage:   "Create, fill and inspect binned histograms stored in SQLite.",
		Version: version.Info(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  flagDB,
				Usage: "path of the histogram database",
				Value: cfg.DatabasePath,
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "log level (debug, info, warn, error)",
				Value: cfg.LogLevel,
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String(flagLogLevel))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:        "create",
				Usage:       "Creates histograms from a YAML definitions file.",
				Description: "Each definition is built, registered and stored. Existing histograms are kept unless --force is given.",
				Action:      r.create,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     flagDefinitions,
						Aliases:  []string{"d"},
						Usage:    "YAML file listing the histograms to create",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  flagForce,
						Usage: "overwrite histograms that already exist",
					},
				},
			},
			{
				Name:      "fill",
				Usage:     "Fills a stored histogram from a samples file.",
				ArgsUsage: "<key> <samples|->",
				Action:    r.fill,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    flagWorkers,
						Aliases: []string{"w"},
						Usage:   "number of parallel producers",
						Value:   cfg.Workers,
					},
					&cli.BoolFlag{
						Name:    flagFollow,
						Aliases: []string{"f"},
						Usage:   "keep filling as lines are appended, saving periodically",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Prints a stored histogram.",
				ArgsUsage: "<key>",
				Action:    r.show,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagAll,
						Usage: "include empty bins",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "Lists stored histograms.",
				Action: r.list,
			},
			{
				Name:      "add",
				Usage:     "Adds scale times the source histogram to the destination.",
				ArgsUsage: "<dst> <src>",
				Action:    r.add,
				Flags: []cli.Flag{
					&cli.Uint64Flag{
						Name:  flagScale,
						Usage: "integer multiplier applied to the source",
						Value: 1,
					},
				},
			},
			{
				Name:      "reset",
				Usage:     "Clears all bins and the entry count of a stored histogram.",
				ArgsUsage: "<key>",
				Action:    r.reset,
			},
			{
				Name:      "delete",
				Usage:     "Removes a stored histogram.",
				ArgsUsage: "<key>",
				Action:    r.delete,
			},
		},
	}
}
