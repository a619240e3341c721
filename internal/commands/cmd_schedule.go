package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/printer"
	"github.com/colonyops/weekplan/internal/weekplan"
)

// ScheduleCmd implements the weekplan schedule command group.
type ScheduleCmd struct {
	flags *Flags
	app   *weekplan.App

	subItemID string
}

// NewScheduleCmd creates a new schedule command.
func NewScheduleCmd(flags *Flags, app *weekplan.App) *ScheduleCmd {
	return &ScheduleCmd{flags: flags, app: app}
}

// Register adds the schedule command to the application.
func (cmd *ScheduleCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:    "schedule",
		Aliases: []string{"s"},
		Usage:   "Place items on the weekly grid",
		Description: `Cells are addressed by day and time slot (morning, afternoon, evening,
night). Placements within a cell are numbered from 0 in the order they were
added; "weekplan week" shows the numbers.

Examples:
  weekplan schedule add monday morning <item-id>
  weekplan schedule add mon evening <item-id> --sub <sub-id>
  weekplan schedule toggle monday morning 0
  weekplan schedule rm monday morning 0
  weekplan schedule clear`,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Place an item or sub-item at the end of a cell",
				UsageText: "weekplan schedule add <day> <slot> <item-id> [--sub <sub-id>]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "sub",
						Usage:       "place one sub-item of the item",
						Destination: &cmd.subItemID,
					},
				},
				ShellComplete: DayCompleter,
				Action:        cmd.runAdd,
			},
			{
				Name:          "rm",
				Usage:         "Remove a placement",
				UsageText:     "weekplan schedule rm <day> <slot> <position>",
				ShellComplete: DayCompleter,
				Action:        cmd.runRemove,
			},
			{
				Name:          "toggle",
				Usage:         "Mark a placement done or not done",
				UsageText:     "weekplan schedule toggle <day> <slot> <position>",
				ShellComplete: DayCompleter,
				Action:        cmd.runToggle,
			},
			{
				Name:      "clear",
				Usage:     "Remove every placement and completion mark",
				UsageText: "weekplan schedule clear",
				Action:    cmd.runClear,
			},
		},
	})

	return app
}

func (cmd *ScheduleCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 3, "weekplan schedule add <day> <slot> <item-id>"); err != nil {
		return err
	}

	day, slot, err := parseCell(c)
	if err != nil {
		return err
	}

	pos, err := cmd.app.Planner.Schedule(day, slot, c.Args().Get(2), cmd.subItemID)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Scheduled on %s %s at #%d", day, slot, pos)
	return nil
}

func (cmd *ScheduleCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 3, "weekplan schedule rm <day> <slot> <position>"); err != nil {
		return err
	}

	day, slot, err := parseCell(c)
	if err != nil {
		return err
	}
	pos, err := parsePosition(c.Args().Get(2))
	if err != nil {
		return err
	}

	if err := cmd.app.Planner.Unschedule(day, slot, pos); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Removed %s %s #%d", day, slot, pos)
	return nil
}

func (cmd *ScheduleCmd) runToggle(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 3, "weekplan schedule toggle <day> <slot> <position>"); err != nil {
		return err
	}

	day, slot, err := parseCell(c)
	if err != nil {
		return err
	}
	pos, err := parsePosition(c.Args().Get(2))
	if err != nil {
		return err
	}

	done, err := cmd.app.Planner.ToggleCompletion(day, slot, pos)
	if err != nil {
		return err
	}

	p := printer.Ctx(ctx)
	if done {
		p.Successf("Marked %s %s #%d done", day, slot, pos)
	} else {
		p.Infof("Marked %s %s #%d not done", day, slot, pos)
	}
	return nil
}

func (cmd *ScheduleCmd) runClear(ctx context.Context, _ *cli.Command) error {
	cmd.app.Planner.ClearSchedule()
	printer.Ctx(ctx).Successf("Cleared the weekly schedule")
	return nil
}
