package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/store/jsonfile"
	"github.com/colonyops/weekplan/internal/weekplan"
	"github.com/colonyops/weekplan/internal/weekplan/sweep"
	"github.com/colonyops/weekplan/pkg/iojson"
)

const clearScreen = "\033[H\033[2J"

// WeekCmd implements the weekplan week command.
type WeekCmd struct {
	flags *Flags
	app   *weekplan.App

	watch         bool
	jsonOutput    bool
	sweepInterval time.Duration
}

// NewWeekCmd creates a new week command.
func NewWeekCmd(flags *Flags, app *weekplan.App) *WeekCmd {
	return &WeekCmd{flags: flags, app: app}
}

// Register adds the week command to the application.
func (cmd *WeekCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "week",
		Aliases:   []string{"w"},
		Usage:     "Show the weekly schedule",
		UsageText: "weekplan week [--watch] [--json]",
		Description: `Draws the week as a grid of days and time slots. Completed entries are
struck through and repeated items are marked with ` + "↻" + `.

With --watch the grid is redrawn whenever another weekplan command changes
the local cache. Press Ctrl+C to stop.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "watch",
				Usage:       "redraw when the planner data changes",
				Destination: &cmd.watch,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the visible placements as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.DurationFlag{
				Name:        "sweep-interval",
				Usage:       "how often expired sessions are purged while watching",
				Value:       5 * time.Minute,
				Destination: &cmd.sweepInterval,
			},
		},
		Action: cmd.run,
	})

	return app
}

// weekCell is the JSON shape of one visible placement.
type weekCell struct {
	Day       planner.Day      `json:"day"`
	TimeSlot  planner.TimeSlot `json:"time_slot"`
	Position  int              `json:"position"`
	ItemID    string           `json:"item_id"`
	SubItemID string           `json:"sub_item_id,omitempty"`
	Name      string           `json:"name"`
	Duration  int              `json:"duration"`
	Completed bool             `json:"completed"`
}

// Run executes the week command. Exported for use as default command.
func (cmd *WeekCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *WeekCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.Write(out, c.Root().ErrWriter, weekCells(cmd.app.Planner.State()))
	}

	if !cmd.watch {
		return cmd.draw(out, false)
	}

	return cmd.runWatch(ctx, out)
}

func (cmd *WeekCmd) runWatch(ctx context.Context, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	watcher, err := jsonfile.Watch(cmd.app.Cache, log.Logger)
	if err != nil {
		return fmt.Errorf("watch planner data: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// The database closes after the command returns, so the sweep loop must
	// stop first.
	stopSweep := sweep.Go(ctx, cmd.app.KV, cmd.sweepInterval, log.Logger)
	defer stopSweep()

	if err := cmd.draw(out, true); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watcher.Changes():
			if !cmd.app.Sync.ReloadLocal(ctx) {
				continue
			}
			if err := cmd.draw(out, true); err != nil {
				return err
			}
		}
	}
}

func (cmd *WeekCmd) draw(out io.Writer, clear bool) error {
	grid, sum := renderWeek(cmd.app.Planner.State())

	if clear {
		if _, err := io.WriteString(out, clearScreen); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "%s\n%s\n", grid, sum)
	return err
}

func weekCells(s *planner.State) []weekCell {
	cells := make([]weekCell, 0)
	for _, day := range planner.Days {
		for _, slot := range planner.TimeSlots {
			for _, e := range s.Cell(day, slot) {
				cells = append(cells, weekCell{
					Day:       day,
					TimeSlot:  slot,
					Position:  e.Position,
					ItemID:    e.Placement.ItemID,
					SubItemID: e.Placement.SubItemID,
					Name:      e.Name(),
					Duration:  e.Duration(),
					Completed: e.Completed,
				})
			}
		}
	}
	return cells
}
