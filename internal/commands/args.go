package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/weekplan/internal/core/planner"
)

// requireArgs fails unless c has exactly n positional arguments.
func requireArgs(c *cli.Command, n int, usage string) error {
	if c.Args().Len() != n {
		return fmt.Errorf("expected %d argument(s), usage: %s", n, usage)
	}
	return nil
}

// parseCell reads a day and a time slot from the first two arguments.
func parseCell(c *cli.Command) (planner.Day, planner.TimeSlot, error) {
	day, err := planner.ParseDay(c.Args().Get(0))
	if err != nil {
		return "", "", err
	}
	slot, err := planner.ParseTimeSlot(c.Args().Get(1))
	if err != nil {
		return "", "", err
	}
	return day, slot, nil
}

// parsePosition reads a zero-based cell position.
func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("position must be a non-negative integer, got %q", s)
	}
	return n, nil
}

// minutes converts a flag duration to whole minutes.
func minutes(d time.Duration) int {
	return int(d / time.Minute)
}
