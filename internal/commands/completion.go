package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/weekplan"
)

// ItemIDCompleter returns a ShellCompleteFunc that suggests item ids, with
// the item name as the description, as positional completions.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func ItemIDCompleter(app *weekplan.App) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		if app.Planner == nil {
			return
		}

		w := cmd.Root().Writer
		for _, kind := range []planner.Kind{planner.KindNormal, planner.KindRepeated} {
			for _, it := range app.Planner.Items(kind) {
				_, _ = fmt.Fprintf(w, "%s:%s\n", it.ID, it.Name)
			}
		}
	}
}

// DayCompleter suggests weekday names.
func DayCompleter(ctx context.Context, cmd *cli.Command) {
	w := cmd.Root().Writer
	for _, d := range planner.Days {
		_, _ = fmt.Fprintln(w, d)
	}
}
