package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/core/transfer"
	"github.com/colonyops/weekplan/internal/printer"
	"github.com/colonyops/weekplan/internal/weekplan"
	"github.com/colonyops/weekplan/pkg/iojson"
)

// ExportCmd implements the weekplan export command.
type ExportCmd struct {
	flags *Flags
	app   *weekplan.App

	format string
	scope  string
	output string
}

// NewExportCmd creates a new export command.
func NewExportCmd(flags *Flags, app *weekplan.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application.
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Write planner data to a file",
		UsageText: "weekplan export [--format json|csv] [--scope all|items|schedule] [-o file]",
		Description: `JSON exports are complete snapshots that "weekplan import" restores
exactly. CSV exports are meant for spreadsheets; --scope picks which
sections are written.

Without -o the export is written to a dated file in the current directory.
Use "-o -" to write to stdout.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (json, csv)",
				Value:       "json",
				Destination: &cmd.format,
			},
			&cli.StringFlag{
				Name:        "scope",
				Usage:       "CSV sections to write (all, items, schedule)",
				Value:       "all",
				Destination: &cmd.scope,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output path, \"-\" for stdout",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	scope, err := transfer.ParseScope(cmd.scope)
	if err != nil {
		return err
	}

	format := strings.ToLower(cmd.format)
	if cmd.output == "-" {
		return cmd.app.Planner.Export(c.Root().Writer, format, scope)
	}

	path := cmd.output
	if path == "" {
		path = exportFileName(format, cmd.scope, time.Now())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := cmd.app.Planner.Export(f, format, scope); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	printer.Ctx(ctx).Successf("Exported to %s", path)
	return nil
}

// exportFileName names an export after its content and date, e.g.
// weekly-planner-2026-03-02.json or weekly-planner-items-2026-03-02.csv.
func exportFileName(format, scope string, now time.Time) string {
	name := "weekly-planner"
	if format == "csv" && scope != "" && scope != "all" {
		name += "-" + strings.ToLower(scope)
	}
	return fmt.Sprintf("%s-%s.%s", name, now.Format(time.DateOnly), format)
}

// ImportCmd implements the weekplan import command.
type ImportCmd struct {
	flags *Flags
	app   *weekplan.App
	fr    *iojson.FileReader[any]

	format     string
	jsonOutput bool
}

// NewImportCmd creates a new import command.
func NewImportCmd(flags *Flags, app *weekplan.App) *ImportCmd {
	return &ImportCmd{flags: flags, app: app, fr: &iojson.FileReader[any]{}}
}

// Register adds the import command to the application.
func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "import",
		Usage:     "Replace planner data with the contents of a file",
		UsageText: "weekplan import <file.json|file.csv|-> [--format json|csv]",
		Description: `Loads a JSON snapshot or a CSV export and replaces all items, the
schedule and completion marks in one step. When the file cannot be parsed
nothing is changed.

The format is taken from the file extension. Reading from stdin ("-")
needs --format.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "input format when reading stdin (json, csv)",
				Destination: &cmd.format,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the import summary as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 1, "weekplan import <file>"); err != nil {
		return err
	}

	cmd.fr.SetPath(c.Args().First())
	name, err := importName(cmd.fr.Path(), cmd.format)
	if err != nil {
		return err
	}

	r, err := cmd.fr.Open()
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	summary, err := cmd.app.Planner.Import(name, r)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.Write(c.Root().Writer, c.Root().ErrWriter, summary)
	}

	printer.Ctx(ctx).Successf("Imported %d items, %d repeated items, %d placements",
		summary.Items, summary.RepeatedItems, summary.Placements)
	return nil
}

// importName returns the name the importer dispatches on. An explicit
// format overrides the file's extension.
func importName(path, format string) (string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	switch {
	case format != "" && format != "json" && format != "csv":
		return "", fmt.Errorf("unsupported import format %q, want json or csv", format)
	case format != "" && path == "":
		return "stdin." + format, nil
	case format != "":
		return strings.TrimSuffix(path, filepath.Ext(path)) + "." + format, nil
	case path == "":
		return "", fmt.Errorf("--format is required when reading stdin")
	default:
		return path, nil
	}
}
