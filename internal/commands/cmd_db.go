package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/data/db"
	"github.com/colonyops/weekplan/internal/weekplan"
	"github.com/colonyops/weekplan/pkg/iojson"
)

// DBCmd implements the weekplan db command group.
type DBCmd struct {
	flags *Flags
	app   *weekplan.App

	jsonOutput bool
}

// NewDBCmd creates a new db command.
func NewDBCmd(flags *Flags, app *weekplan.App) *DBCmd {
	return &DBCmd{flags: flags, app: app}
}

// Register adds the db command to the application.
func (cmd *DBCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "db",
		Usage: "Inspect the local database",
		Commands: []*cli.Command{
			{
				Name:      "status",
				Usage:     "List schema migrations and when they were applied",
				UsageText: "weekplan db status [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runStatus,
			},
		},
	})

	return app
}

// migrationInfo is the JSON output shape of one migration.
type migrationInfo struct {
	Version   int       `json:"version"`
	Name      string    `json:"name"`
	Applied   bool      `json:"applied"`
	AppliedAt time.Time `json:"applied_at,omitzero"`
}

func (cmd *DBCmd) runStatus(ctx context.Context, c *cli.Command) error {
	statuses, err := cmd.app.DB.Status(ctx)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, s := range statuses {
			if err := iojson.WriteLine(out, newMigrationInfo(s)); err != nil {
				return fmt.Errorf("encode migration: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
	for _, s := range statuses {
		applied := "pending"
		if !s.Pending() {
			applied = s.AppliedAt.Local().Format(time.DateTime)
		}
		_, _ = fmt.Fprintf(w, "%04d\t%s\t%s\n", s.Version, s.Name, applied)
	}
	_, _ = fmt.Fprintf(w, "\nDatabase: %s\n", cmd.app.DB.Path())
	return w.Flush()
}

func newMigrationInfo(s db.MigrationStatus) migrationInfo {
	return migrationInfo{
		Version:   s.Version,
		Name:      s.Name,
		Applied:   !s.Pending(),
		AppliedAt: s.AppliedAt,
	}
}
