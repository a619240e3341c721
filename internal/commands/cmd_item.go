package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/printer"
	"github.com/colonyops/weekplan/internal/weekplan"
	"github.com/colonyops/weekplan/pkg/iojson"
)

// BatchItem is one entry of `weekplan item batch` input.
type BatchItem struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	Subtype         string `json:"subtype"`
	Frequency       string `json:"frequency"`
	CustomFrequency int    `json:"custom_frequency"`
	Quantity        int    `json:"quantity"`
	Duration        int    `json:"duration"` // minutes
}

// BatchInput is the JSON document read by `weekplan item batch`.
type BatchInput struct {
	Items []BatchItem `json:"items"`
}

func (b BatchItem) input() planner.ItemInput {
	return planner.ItemInput{
		Name:            b.Name,
		Kind:            planner.ParseKind(b.Kind),
		Subtype:         planner.Subtype(strings.ToLower(b.Subtype)),
		Frequency:       planner.Frequency(strings.ToLower(b.Frequency)),
		CustomFrequency: b.CustomFrequency,
		Quantity:        b.Quantity,
		Duration:        b.Duration,
	}
}

// itemView is the JSON output shape for items.
type itemView struct {
	planner.Item
	TotalDuration int `json:"total_duration"`
}

func newItemView(it planner.Item) itemView {
	return itemView{Item: it, TotalDuration: it.TotalDuration()}
}

// ItemCmd implements the weekplan item command group.
type ItemCmd struct {
	flags *Flags
	app   *weekplan.App
	fr    *iojson.FileReader[BatchInput]

	// shared add/update flags
	repeated  bool
	subtype   string
	frequency string
	every     int
	quantity  int
	duration  time.Duration
	name      string

	// list flags
	kind       string
	jsonOutput bool
}

// NewItemCmd creates a new item command.
func NewItemCmd(flags *Flags, app *weekplan.App) *ItemCmd {
	return &ItemCmd{
		flags: flags,
		app:   app,
		fr:    &iojson.FileReader[BatchInput]{},
	}
}

// Register adds the item command to the application.
func (cmd *ItemCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "item",
		Usage: "Manage plannable items",
		Description: `Items live in one of two pools: available items, which are planned once,
and repeated items, which recur on a frequency.

Examples:
  weekplan item add "Laundry" --duration 45m
  weekplan item add "Gym" --repeated --frequency weekly
  weekplan item ls --kind repeated
  weekplan item update <id> --quantity 2
  weekplan item rm <id>`,
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.batchCmd(),
			cmd.listCmd(),
			cmd.updateCmd(),
			cmd.removeCmd(),
		},
	})

	return app
}

func (cmd *ItemCmd) attributeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "subtype",
			Usage:       "classification for available items (decide, delete, defer, plan, do)",
			Destination: &cmd.subtype,
		},
		&cli.StringFlag{
			Name:        "frequency",
			Usage:       "recurrence for repeated items (daily, weekly, biweekly, monthly, custom)",
			Destination: &cmd.frequency,
		},
		&cli.IntFlag{
			Name:        "every",
			Usage:       "custom recurrence in days (implies --frequency custom)",
			Destination: &cmd.every,
		},
		&cli.IntFlag{
			Name:        "quantity",
			Aliases:     []string{"q"},
			Usage:       "how many times the item should be done",
			Destination: &cmd.quantity,
		},
		&cli.DurationFlag{
			Name:        "duration",
			Aliases:     []string{"d"},
			Usage:       "estimated time, e.g. 45m or 1h30m",
			Destination: &cmd.duration,
		},
	}
}

func (cmd *ItemCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add an item",
		UsageText: "weekplan item add <name> [--repeated] [options]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:        "repeated",
				Aliases:     []string{"r"},
				Usage:       "add to the repeated pool",
				Destination: &cmd.repeated,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "print the created item as JSON",
				Destination: &cmd.jsonOutput,
			},
		}, cmd.attributeFlags()...),
		Action: cmd.runAdd,
	}
}

func (cmd *ItemCmd) batchCmd() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Add several items from JSON input",
		UsageText: `weekplan item batch [-f file]

Read from stdin:
  echo '{"items":[{"name":"Laundry","duration":45}]}' | weekplan item batch`,
		Description: `Adds every item in the input. All entries are validated first; one bad
entry rejects the whole batch.

Input JSON schema:
  {
    "items": [
      {
        "name": "Laundry",
        "kind": "normal | repeated",
        "subtype": "optional",
        "frequency": "optional",
        "custom_frequency": 0,
        "quantity": 1,
        "duration": 45
      }
    ]
  }

Output is one JSON line per created item.`,
		Flags:  []cli.Flag{cmd.fr.Flag()},
		Action: cmd.runBatch,
	}
}

func (cmd *ItemCmd) listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List items",
		UsageText: "weekplan item ls [--kind normal|repeated] [--json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "kind",
				Aliases:     []string{"k"},
				Usage:       "only list one pool (normal, repeated)",
				Destination: &cmd.kind,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.runList,
	}
}

func (cmd *ItemCmd) updateCmd() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change an item's fields",
		UsageText: "weekplan item update <id> [--name <name>] [options]",
		Description: `Only the given flags are changed. The duration of an item with sub-items
is the sum of its sub-items and cannot be edited directly.`,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Aliases:     []string{"n"},
				Usage:       "new name",
				Destination: &cmd.name,
			},
		}, cmd.attributeFlags()...),
		ShellComplete: ItemIDCompleter(cmd.app),
		Action:        cmd.runUpdate,
	}
}

func (cmd *ItemCmd) removeCmd() *cli.Command {
	return &cli.Command{
		Name:          "rm",
		Usage:         "Remove an item",
		UsageText:     "weekplan item rm <id>",
		Description:   "Placements of a removed item stay in the grid but are no longer shown.",
		ShellComplete: ItemIDCompleter(cmd.app),
		Action:        cmd.runRemove,
	}
}

func (cmd *ItemCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 1, "weekplan item add <name>"); err != nil {
		return err
	}

	in := planner.ItemInput{
		Name:     c.Args().First(),
		Kind:     planner.KindNormal,
		Subtype:  planner.Subtype(strings.ToLower(cmd.subtype)),
		Quantity: cmd.quantity,
		Duration: minutes(cmd.duration),
	}
	if cmd.repeated {
		in.Kind = planner.KindRepeated
		in.Frequency, in.CustomFrequency = cmd.recurrence()
	}

	it, err := cmd.app.Planner.AddItem(in)
	if err != nil {
		return err
	}

	if cmd.jsonOutput {
		return iojson.Write(c.Root().Writer, c.Root().ErrWriter, newItemView(it))
	}

	printer.Ctx(ctx).Successf("Added %s (%s)", it.Name, it.ID)
	return nil
}

// recurrence resolves --frequency and --every. A repeated item without
// either recurs weekly.
func (cmd *ItemCmd) recurrence() (planner.Frequency, int) {
	if cmd.every > 0 {
		return planner.FrequencyCustom, cmd.every
	}
	if cmd.frequency == "" {
		return planner.FrequencyWeekly, 0
	}
	return planner.Frequency(strings.ToLower(cmd.frequency)), 0
}

func (cmd *ItemCmd) runBatch(ctx context.Context, c *cli.Command) error {
	input, err := cmd.fr.Read()
	if err != nil {
		_ = iojson.WriteError(c.Root().ErrWriter, fmt.Sprintf("read input: %s", err), nil)
		return fmt.Errorf("read input: %w", err)
	}

	inputs := make([]planner.ItemInput, len(input.Items))
	for i, b := range input.Items {
		inputs[i] = b.input()
	}

	items, err := cmd.app.Planner.AddItems(inputs)
	if err != nil {
		_ = iojson.WriteError(c.Root().ErrWriter, err.Error(), map[string]any{"items": len(inputs)})
		return fmt.Errorf("add items: %w", err)
	}

	for _, it := range items {
		if err := iojson.WriteLine(c.Root().Writer, newItemView(it)); err != nil {
			return fmt.Errorf("encode item: %w", err)
		}
	}
	return nil
}

func (cmd *ItemCmd) runList(ctx context.Context, c *cli.Command) error {
	kinds := []planner.Kind{planner.KindNormal, planner.KindRepeated}
	switch strings.ToLower(cmd.kind) {
	case "":
	case string(planner.KindNormal), "available":
		kinds = kinds[:1]
	case string(planner.KindRepeated):
		kinds = kinds[1:]
	default:
		return fmt.Errorf("invalid kind %q: must be normal or repeated", cmd.kind)
	}

	var items []planner.Item
	for _, k := range kinds {
		items = append(items, cmd.app.Planner.Items(k)...)
	}

	out := c.Root().Writer
	if cmd.jsonOutput {
		for _, it := range items {
			if err := iojson.WriteLine(out, newItemView(it)); err != nil {
				return fmt.Errorf("encode item: %w", err)
			}
		}
		return nil
	}

	if len(items) == 0 {
		printer.Ctx(ctx).Infof("No items found")
		return nil
	}

	return writeItemTable(out, items)
}

func writeItemTable(out io.Writer, items []planner.Item) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tKIND\tDETAIL\tQTY\tDURATION")
	for _, it := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			it.ID, it.Name, it.Kind, itemDetail(it), it.Quantity, it.FormattedDuration())
		for _, sub := range it.SubItems {
			_, _ = fmt.Fprintf(w, "  %s\t  %s\t\t\t\t%s\n", sub.ID, sub.Name, sub.FormattedDuration())
		}
	}
	return w.Flush()
}

// itemDetail is the subtype of an available item or the recurrence of a
// repeated one.
func itemDetail(it planner.Item) string {
	if it.Kind == planner.KindRepeated {
		if it.Frequency == planner.FrequencyCustom {
			return fmt.Sprintf("every %d days", it.CustomFrequency)
		}
		return string(it.Frequency)
	}
	return string(it.Subtype)
}

func (cmd *ItemCmd) runUpdate(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 1, "weekplan item update <id>"); err != nil {
		return err
	}

	var upd weekplan.ItemUpdate
	if c.IsSet("name") {
		upd.Name = &cmd.name
	}
	if c.IsSet("subtype") {
		st := planner.Subtype(strings.ToLower(cmd.subtype))
		upd.Subtype = &st
	}
	if c.IsSet("frequency") || c.IsSet("every") {
		freq, days := cmd.recurrence()
		upd.Frequency = &freq
		upd.CustomFrequency = &days
	}
	if c.IsSet("quantity") {
		upd.Quantity = &cmd.quantity
	}
	if c.IsSet("duration") {
		m := minutes(cmd.duration)
		upd.Duration = &m
	}

	it, err := cmd.app.Planner.UpdateItem(c.Args().First(), upd)
	if err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Updated %s", it.Name)
	return nil
}

func (cmd *ItemCmd) runRemove(ctx context.Context, c *cli.Command) error {
	if err := requireArgs(c, 1, "weekplan item rm <id>"); err != nil {
		return err
	}

	if err := cmd.app.Planner.RemoveItem(c.Args().First()); err != nil {
		return err
	}

	printer.Ctx(ctx).Successf("Removed %s", c.Args().First())
	return nil
}
