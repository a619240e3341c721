package commands

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/printer"
	"github.com/colonyops/weekplan/internal/weekplan"
)

// SubCmd implements the weekplan sub command group.
type SubCmd struct {
	flags *Flags
	app   *weekplan.App

	name     string
	duration time.Duration
}

// NewSubCmd creates a new sub command.
func NewSubCmd(flags *Flags, app *weekplan.App) *SubCmd {
	return &SubCmd{flags: flags, app: app}
}

// Register adds the sub command to the application.
func (cmd *SubCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "sub",
		Usage: "Manage the sub-items of an item",
		Description: `Sub-items split an item into separately timed parts. Once an item has
sub-items its duration is their sum.

Examples:
  weekplan sub add <item-id> "mop floor" --duration 15m
  weekplan sub update <item-id> <sub-id> --name "mop kitchen floor"
  weekplan sub rm <item-id> <sub-id>`,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a sub-item",
				UsageText: "weekplan sub add <item-id> <name> [--duration 15m]",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "duration",
						Aliases:     []string{"d"},
						Usage:       "estimated time, e.g. 15m",
						Destination: &cmd.duration,
					},
				},
				ShellComplete: ItemIDCompleter(cmd.app),
				Action:        cmd.runAdd,
			},
			{
				Name:      "update",
				Usage:     "Rename a sub-item or change its duration",
				UsageText: "weekplan sub update <item-id> <sub-id> [--name <name>] [--duration 15m]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "name",
						Aliases:     []string{"n"},
						Usage:       "new name",
						Destination: &cmd.name,
					},
					&cli.DurationFlag{
						Name:        "duration",
						Aliases:     []string{"d"},
						Usage:       "estimated time, e.g. 15m",
						Destination: &cmd.duration,
					},
				},
				ShellComplete: ItemIDCompleter(cmd.app),
				Action:        cmd.runUpdate,
			},
			{
				Name:          "rm",
				Usage:         "Remove a sub-item",
				UsageText:     "weekplan sub rm <item-id> <sub-id>",
				ShellComplete: ItemIDCompleter(cmd.app),
				Action:        cmd.runRemove,
			},
		},
	})

	return app
}

func (cmd *SubCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 2, "weekplan sub add <item-id> <name>"); err != nil {
		return err
	}

	sub, err := cmd.app.Planner.AddSubItem(c.Args().Get(0), c.Args().Get(1), minutes(cmd.duration))
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Added %s (%s)", sub.Name, sub.ID)
	return nil
}

func (cmd *SubCmd) runUpdate(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 2, "weekplan sub update <item-id> <sub-id>"); err != nil {
		return err
	}

	var (
		name     *string
		duration *int
	)
	if c.IsSet("name") {
		name = &cmd.name
	}
	if c.IsSet("duration") {
		m := minutes(cmd.duration)
		duration = &m
	}

	sub, err := cmd.app.Planner.UpdateSubItem(c.Args().Get(0), c.Args().Get(1), name, duration)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Updated %s (%s)", sub.Name, sub.FormattedDuration())
	return nil
}

func (cmd *SubCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 2, "weekplan sub rm <item-id> <sub-id>"); err != nil {
		return err
	}

	if err := cmd.app.Planner.RemoveSubItem(c.Args().Get(0), c.Args().Get(1)); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Removed %s", c.Args().Get(1))
	return nil
}
