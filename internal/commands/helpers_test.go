package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/weekplan/internal/core/config"
	"github.com/colonyops/weekplan/internal/core/planner"
)

func TestImportName(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		format  string
		want    string
		wantErr bool
	}{
		{name: "extension", path: "backup.json", want: "backup.json"},
		{name: "format overrides", path: "export.txt", format: "CSV", want: "export.csv"},
		{name: "stdin with format", format: ".json", want: "stdin.json"},
		{name: "stdin without format", wantErr: true},
		{name: "unknown format", path: "a.json", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := importName(tt.path, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "weekly-planner-2026-03-02.json", exportFileName("json", "all", now))
	assert.Equal(t, "weekly-planner-2026-03-02.json", exportFileName("json", "items", now))
	assert.Equal(t, "weekly-planner-items-2026-03-02.csv", exportFileName("csv", "Items", now))
	assert.Equal(t, "weekly-planner-2026-03-02.csv", exportFileName("csv", "all", now))
}

func TestItemDetail(t *testing.T) {
	assert.Equal(t, "plan", itemDetail(planner.Item{Kind: planner.KindNormal, Subtype: planner.SubtypePlan}))
	assert.Equal(t, "daily", itemDetail(planner.Item{Kind: planner.KindRepeated, Frequency: planner.FrequencyDaily}))
	assert.Equal(t, "every 10 days", itemDetail(planner.Item{
		Kind:            planner.KindRepeated,
		Frequency:       planner.FrequencyCustom,
		CustomFrequency: 10,
	}))
}

func TestBatchItemInput(t *testing.T) {
	in := BatchItem{Name: "Gym", Kind: "Repeated", Frequency: "WEEKLY", Duration: 60}.input()
	assert.Equal(t, planner.KindRepeated, in.Kind)
	assert.Equal(t, planner.FrequencyWeekly, in.Frequency)
	assert.Equal(t, 60, in.Duration)

	in = BatchItem{Name: "Laundry", Kind: "whatever"}.input()
	assert.Equal(t, planner.KindNormal, in.Kind)
}

func TestValidateConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	result := validateConfig(&cfg, "")
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)

	cfg.Database.MaxOpenConns = 0
	cfg.Remote.Driver = config.DriverMemory
	result = validateConfig(&cfg, "")
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "database.max_open_conns", result.Errors[0].Field)
	assert.NotEmpty(t, result.Warnings)

	cfg = config.DefaultConfig()
	result = validateConfig(&cfg, "")
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0].Message, "data directory")
}

func TestRenderWeek(t *testing.T) {
	s := planner.NewState()
	it := planner.Item{ID: "a", Name: "Laundry", Kind: planner.KindNormal, Quantity: 1, Duration: 90}
	gym := planner.Item{ID: "b", Name: "Gym", Kind: planner.KindRepeated, Quantity: 1, Frequency: planner.FrequencyDaily}
	s = planner.Reduce(s, planner.AddItem{Item: it})
	s = planner.Reduce(s, planner.AddItem{Item: gym})
	s = planner.Reduce(s, planner.Schedule{Day: planner.Tuesday, TimeSlot: planner.Night, ItemID: "a"})
	s = planner.Reduce(s, planner.Schedule{Day: planner.Sunday, TimeSlot: planner.Morning, ItemID: "b"})
	s = planner.Reduce(s, planner.Schedule{Day: planner.Sunday, TimeSlot: planner.Morning, ItemID: "gone"})
	s = planner.Reduce(s, planner.ToggleCompletion{Day: planner.Tuesday, TimeSlot: planner.Night, Index: 0})

	grid, sum := renderWeek(s)

	assert.Contains(t, grid, "Laundry")
	assert.Contains(t, grid, "1h 30m")
	assert.Contains(t, grid, "Gym")
	assert.Contains(t, grid, "Wednesday")
	assert.Equal(t, weekSummary{Placements: 2, Completed: 1, Minutes: 90, Done: 90}, sum)
	assert.Equal(t, "1/2 done, 1h 30m of 1h 30m", sum.String())

	cells := weekCells(s)
	require.Len(t, cells, 2, "orphaned placements are hidden")
	assert.Equal(t, planner.Tuesday, cells[0].Day)
	assert.True(t, cells[0].Completed)
}
