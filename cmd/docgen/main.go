// Command docgen generates CLI reference documentation from the weekplan
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/commands"
	"github.com/colonyops/weekplan/internal/weekplan"
)

func main() {
	flags := &commands.Flags{}
	app := &weekplan.App{}

	root := &cli.Command{
		Name:      "weekplan",
		Usage:     "Plan a week of tasks from the terminal",
		UsageText: "weekplan [global options] command [command options]",
		Description: `Weekplan keeps a pool of tasks and a weekly grid of days and time slots.
Add items, place them on the grid, and tick them off as the week goes by.

Data is cached locally and, after "weekplan login", kept in sync with the
configured remote store.

Run 'weekplan' with no arguments to show this week's grid.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("WEEKPLAN_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/weekplan.log)",
				Sources: cli.EnvVars("WEEKPLAN_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("WEEKPLAN_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("WEEKPLAN_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
		},
	}

	root = commands.NewItemCmd(flags, app).Register(root)
	root = commands.NewSubCmd(flags, app).Register(root)
	root = commands.NewScheduleCmd(flags, app).Register(root)
	root = commands.NewWeekCmd(flags, app).Register(root)
	root = commands.NewExportCmd(flags, app).Register(root)
	root = commands.NewImportCmd(flags, app).Register(root)
	root = commands.NewClearCmd(flags, app).Register(root)
	root = commands.NewAuthCmd(flags, app).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)
	root = commands.NewDBCmd(flags, app).Register(root)
	root = commands.NewDoctorCmd(flags, app).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
