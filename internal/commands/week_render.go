package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/core/styles"
)

// weekSummary totals the visible placements of a week.
type weekSummary struct {
	Placements int `json:"placements"`
	Completed  int `json:"completed"`
	Minutes    int `json:"minutes"`
	Done       int `json:"done_minutes"`
}

// renderWeek draws the schedule as a day by time-slot table. Each entry
// shows its cell position so it can be addressed by the schedule commands.
func renderWeek(s *planner.State) (string, weekSummary) {
	var sum weekSummary

	headers := make([]string, 0, len(planner.TimeSlots)+1)
	headers = append(headers, "Day")
	for _, slot := range planner.TimeSlots {
		headers = append(headers, string(slot))
	}

	rows := make([][]string, 0, len(planner.Days))
	for _, day := range planner.Days {
		row := make([]string, 0, len(headers))
		row = append(row, string(day))
		for _, slot := range planner.TimeSlots {
			entries := s.Cell(day, slot)
			lines := make([]string, 0, len(entries))
			for _, e := range entries {
				lines = append(lines, entryLine(e))

				sum.Placements++
				sum.Minutes += e.Duration()
				if e.Completed {
					sum.Completed++
					sum.Done += e.Duration()
				}
			}
			if len(lines) == 0 {
				lines = append(lines, styles.MutedStyle.Render("·"))
			}
			row = append(row, strings.Join(lines, "\n"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.BorderStyle).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.HeaderStyle
			case col == 0:
				return styles.DayStyle
			default:
				return styles.CellStyle
			}
		})

	return t.String(), sum
}

func entryLine(e planner.CellEntry) string {
	name := e.Name()
	if e.Item.Kind == planner.KindRepeated {
		name = styles.MarkRepeated + " " + name
	}
	if d := e.Duration(); d > 0 {
		name += " " + styles.MutedStyle.Render(planner.FormatDuration(d))
	}

	line := fmt.Sprintf("%d %s", e.Position, name)
	if e.Completed {
		return styles.DoneStyle.Render(line) + " " + styles.SuccessStyle.Render(styles.MarkDone)
	}
	return line
}

func (s weekSummary) String() string {
	return fmt.Sprintf("%d/%d done, %s of %s",
		s.Completed, s.Placements, totalText(s.Done), totalText(s.Minutes))
}

func totalText(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	return planner.FormatDuration(minutes)
}
