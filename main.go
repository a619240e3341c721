package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/commands"
	"github.com/colonyops/weekplan/internal/core/config"
	"github.com/colonyops/weekplan/internal/core/logging"
	"github.com/colonyops/weekplan/internal/core/styles"
	"github.com/colonyops/weekplan/internal/printer"
	"github.com/colonyops/weekplan/internal/weekplan"
	"github.com/colonyops/weekplan/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		planApp   = &weekplan.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "weekplan",
		Usage:     "Plan a week of tasks from the terminal",
		UsageText: "weekplan [global options] command [command options]",
		Description: `Weekplan keeps a pool of tasks and a weekly grid of days and time slots.
Add items, place them on the grid, and tick them off as the week goes by.

Data is cached locally and, after "weekplan login", kept in sync with the
configured remote store.

Run 'weekplan' with no arguments to show this week's grid.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("WEEKPLAN_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/weekplan.log)",
				Sources:     cli.EnvVars("WEEKPLAN_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("WEEKPLAN_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("WEEKPLAN_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Always log to a file; use explicit path or default to <datadir>/weekplan.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = cfg.LogFile()
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logging.WithHooks(logger)
			logCloser = closer

			// Validation ensures the theme name is known
			palette, _ := styles.GetPalette(cfg.Display.Theme)
			styles.SetTheme(palette)

			ctx = printer.WithPrinter(ctx, printer.New(c.Root().Writer, c.Root().ErrWriter))
			ctx = logging.WithCommand(ctx, c.Args().First())

			opened, err := weekplan.Open(ctx, cfg, log.Logger)
			if err != nil {
				return ctx, err
			}

			if userID, ok := opened.Sessions.Current(ctx); ok {
				ctx = logging.WithUserID(ctx, userID)
			}

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*planApp = *opened
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			log.Debug().Ctx(ctx).Msg("command finished")

			if planApp.DB != nil {
				if err := planApp.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close app")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	weekCmd := commands.NewWeekCmd(flags, planApp)

	app = commands.NewItemCmd(flags, planApp).Register(app)
	app = commands.NewSubCmd(flags, planApp).Register(app)
	app = commands.NewScheduleCmd(flags, planApp).Register(app)
	app = weekCmd.Register(app)
	app = commands.NewExportCmd(flags, planApp).Register(app)
	app = commands.NewImportCmd(flags, planApp).Register(app)
	app = commands.NewClearCmd(flags, planApp).Register(app)
	app = commands.NewAuthCmd(flags, planApp).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)
	app = commands.NewDBCmd(flags, planApp).Register(app)
	app = commands.NewDoctorCmd(flags, planApp).Register(app)

	// Show the week when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'weekplan --help' for usage", c.Args().First())
		}
		return weekCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
