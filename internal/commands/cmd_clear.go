package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/printer"
	"github.com/colonyops/weekplan/internal/weekplan"
)

// ClearCmd implements the weekplan clear command.
type ClearCmd struct {
	flags *Flags
	app   *weekplan.App

	yes bool
}

// NewClearCmd creates a new clear command.
func NewClearCmd(flags *Flags, app *weekplan.App) *ClearCmd {
	return &ClearCmd{flags: flags, app: app}
}

// Register adds the clear command to the application.
func (cmd *ClearCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "clear",
		Usage:     "Delete all items, placements and completion marks",
		UsageText: "weekplan clear --yes",
		Description: `Resets the planner to an empty state. When signed in the empty state is
also written to the remote store. Use "weekplan schedule clear" to keep the
items and only empty the grid.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "confirm deleting everything",
				Destination: &cmd.yes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ClearCmd) run(ctx context.Context, _ *cli.Command) error {
	if !cmd.yes {
		return fmt.Errorf("refusing to delete all planner data without --yes")
	}

	cmd.app.Planner.ClearAll()
	printer.Ctx(ctx).Successf("Cleared all planner data")
	return nil
}
