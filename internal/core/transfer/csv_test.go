package transfer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/core/transfer"
)

func itemByName(t *testing.T, pool map[string]planner.Item, name string) planner.Item {
	t.Helper()
	for _, it := range pool {
		if it.Name == name {
			return it
		}
	}
	t.Fatalf("item %q not found", name)
	return planner.Item{}
}

func subNames(it planner.Item) []string {
	var names []string
	for _, s := range it.SubItems {
		names = append(names, s.Name)
	}
	return names
}

func TestImportCSV_SubItemsMergeIntoParent(t *testing.T) {
	input := strings.Join([]string{
		"=== AVAILABLE ITEMS ===",
		"Item,Quantity",
		`"Clean kitchen → wipe counters","1"`,
		`"Clean kitchen → mop floor","1"`,
	}, "\n")

	load, err := transfer.ImportCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, load.Items, 1)
	kitchen := itemByName(t, load.Items, "Clean kitchen")
	assert.Equal(t, planner.KindNormal, kitchen.Kind)
	assert.Equal(t, planner.SubtypeDo, kitchen.Subtype)
	assert.Equal(t, 2, kitchen.Quantity)
	assert.Equal(t, []string{"wipe counters", "mop floor"}, subNames(kitchen))
	for _, s := range kitchen.SubItems {
		assert.Equal(t, kitchen.ID, s.ParentID)
	}
}

func TestImportCSV_Sections(t *testing.T) {
	input := strings.Join([]string{
		"=== WEEKLY SCHEDULE ===",
		"Day,Morning,Afternoon,Evening,Night",
		`Monday,"Laundry","","",""`,
		"",
		"=== AVAILABLE ITEMS ===",
		"Item,Quantity",
		`"Laundry","2"`,
		`"Laundry","3"`,
		`Groceries,abc`,
		"",
		"=== REPEATED ITEMS ===",
		"Item,Frequency",
		`"Gym","14 days"`,
		`"Gym","daily"`,
		`"Plants","45 days"`,
		`"Stretch → hamstrings","bi-weekly"`,
		`"Stretch → shoulders","monthly"`,
		"",
		"=== EXPORT INFO ===",
		"Export Date,Version",
		`"2026-01-01","2.0"`,
	}, "\r\n")

	load, err := transfer.ImportCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Len(t, load.Items, 2)
	assert.Equal(t, 5, itemByName(t, load.Items, "Laundry").Quantity)
	assert.Equal(t, 1, itemByName(t, load.Items, "Groceries").Quantity)

	require.Len(t, load.RepeatedItems, 3)
	gym := itemByName(t, load.RepeatedItems, "Gym")
	assert.Equal(t, planner.FrequencyBiweekly, gym.Frequency, "first mention wins")
	assert.Empty(t, gym.Subtype)

	plants := itemByName(t, load.RepeatedItems, "Plants")
	assert.Equal(t, planner.FrequencyCustom, plants.Frequency)
	assert.Equal(t, 45, plants.CustomFrequency)

	stretch := itemByName(t, load.RepeatedItems, "Stretch")
	assert.Equal(t, planner.FrequencyBiweekly, stretch.Frequency)
	assert.Equal(t, []string{"hamstrings", "shoulders"}, subNames(stretch))

	assert.NotNil(t, load.Schedule)
	assert.Empty(t, load.Schedule)
	assert.NotNil(t, load.CompletedItems)
}

func TestImportCSV_NoItems(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "grid only", input: "=== WEEKLY SCHEDULE ===\nDay,Morning\nMonday,\"x\""},
		{name: "headers only", input: "=== AVAILABLE ITEMS ===\nItem,Quantity\n\n=== REPEATED ITEMS ===\nItem,Frequency\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transfer.ImportCSV(strings.NewReader(tt.input))
			var ferr *transfer.ImportFormatError
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, "csv", ferr.Format)
		})
	}
}

func TestExportCSV_All(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	laundry := planner.Item{ID: "a", Name: "Laundry", Kind: planner.KindNormal, Quantity: 1, CreatedAt: base}
	kitchen := planner.Item{
		ID: "b", Name: "Clean kitchen", Kind: planner.KindNormal, Quantity: 2, CreatedAt: base.Add(time.Minute),
		SubItems: []planner.SubItem{
			{ID: "s1", Name: "wipe counters", ParentID: "b"},
			{ID: "s2", Name: "mop floor", ParentID: "b"},
		},
	}
	gym := planner.Item{ID: "c", Name: "Gym", Kind: planner.KindRepeated, Quantity: 1, CreatedAt: base}
	plants := planner.Item{
		ID: "d", Name: "Plants", Kind: planner.KindRepeated, Quantity: 1, CreatedAt: base.Add(time.Minute),
		Frequency: planner.FrequencyCustom, CustomFrequency: 3,
	}

	s := planner.NewState()
	for _, it := range []planner.Item{laundry, kitchen, gym, plants} {
		s = planner.Reduce(s, planner.AddItem{Item: it})
	}
	s = planner.Reduce(s, planner.Schedule{Day: planner.Monday, TimeSlot: planner.Morning, ItemID: "a"})
	s = planner.Reduce(s, planner.Schedule{Day: planner.Monday, TimeSlot: planner.Morning, ItemID: "b", SubItemID: "s2"})
	s = planner.Reduce(s, planner.Schedule{Day: planner.Monday, TimeSlot: planner.Morning, ItemID: "deleted"})

	var buf bytes.Buffer
	require.NoError(t, transfer.ExportCSV(&buf, s, transfer.ScopeAll, now))

	want := strings.Join([]string{
		"=== WEEKLY SCHEDULE ===",
		"Day,Morning,Afternoon,Evening,Night",
		`Monday,"Laundry; mop floor","","",""`,
		`Tuesday,"","","",""`,
		`Wednesday,"","","",""`,
		`Thursday,"","","",""`,
		`Friday,"","","",""`,
		`Saturday,"","","",""`,
		`Sunday,"","","",""`,
		"",
		"=== AVAILABLE ITEMS ===",
		"Item,Quantity",
		`"Laundry","1"`,
		`"Clean kitchen → wipe counters","2"`,
		`"Clean kitchen → mop floor","0"`,
		"",
		"=== REPEATED ITEMS ===",
		"Item,Frequency",
		`"Gym","daily"`,
		`"Plants","custom (3 days)"`,
		"",
		"=== EXPORT INFO ===",
		"Export Date,Version",
		`"2026-10-18","2.0"`,
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())

	// the export reads back through the importer
	load, err := transfer.ImportCSV(&buf)
	require.NoError(t, err)
	assert.Len(t, load.Items, 2)
	assert.Equal(t, []string{"wipe counters", "mop floor"}, subNames(itemByName(t, load.Items, "Clean kitchen")))
	assert.Equal(t, 2, itemByName(t, load.Items, "Clean kitchen").Quantity)
	assert.Equal(t, 3, itemByName(t, load.RepeatedItems, "Plants").CustomFrequency)
	assert.Equal(t, planner.FrequencyDaily, itemByName(t, load.RepeatedItems, "Gym").Frequency)
}

func TestExportCSV_RoundTrip(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	items := []planner.Item{
		{ID: "a", Name: `Say "hi" to Bob`, Kind: planner.KindNormal, Quantity: 3, CreatedAt: base},
		{
			ID: "b", Name: "Garage", Kind: planner.KindNormal, Quantity: 1, CreatedAt: base.Add(time.Minute),
			SubItems: []planner.SubItem{
				{ID: "s1", Name: "sweep", ParentID: "b"},
				{ID: "s2", Name: "shelves → top", ParentID: "b"},
				{ID: "s3", Name: `label "misc" box`, ParentID: "b"},
			},
		},
		{ID: "c", Name: `Call "Mom"`, Kind: planner.KindRepeated, Quantity: 1, CreatedAt: base, Frequency: planner.FrequencyWeekly},
	}

	s := planner.NewState()
	for _, it := range items {
		s = planner.Reduce(s, planner.AddItem{Item: it})
	}

	var buf bytes.Buffer
	require.NoError(t, transfer.ExportCSV(&buf, s, transfer.ScopeItems, time.Now()))
	assert.Contains(t, buf.String(), `"Say ""hi"" to Bob","3"`)

	load, err := transfer.ImportCSV(&buf)
	require.NoError(t, err)
	require.Len(t, load.Items, 2)
	require.Len(t, load.RepeatedItems, 1)

	hi := itemByName(t, load.Items, `Say "hi" to Bob`)
	assert.Equal(t, 3, hi.Quantity)

	garage := itemByName(t, load.Items, "Garage")
	assert.Equal(t, 1, garage.Quantity, "sub-item rows do not inflate the quantity")
	assert.Equal(t, []string{"sweep", "shelves → top", `label "misc" box`}, subNames(garage))

	mom := itemByName(t, load.RepeatedItems, `Call "Mom"`)
	assert.Equal(t, planner.FrequencyWeekly, mom.Frequency)
}

func TestExportCSV_Scopes(t *testing.T) {
	s := planner.NewState()

	var items bytes.Buffer
	require.NoError(t, transfer.ExportCSV(&items, s, transfer.ScopeItems, time.Now()))
	assert.Equal(t, "=== AVAILABLE ITEMS ===\nItem,Quantity\n\n=== REPEATED ITEMS ===\nItem,Frequency\n", items.String())

	var grid bytes.Buffer
	require.NoError(t, transfer.ExportCSV(&grid, s, transfer.ScopeSchedule, time.Now()))
	assert.True(t, strings.HasPrefix(grid.String(), "=== WEEKLY SCHEDULE ===\n"))
	assert.NotContains(t, grid.String(), "AVAILABLE")
	assert.NotContains(t, grid.String(), "EXPORT INFO")
}

func TestParseScope(t *testing.T) {
	for name, want := range map[string]transfer.Section{
		"":         transfer.ScopeAll,
		"all":      transfer.ScopeAll,
		"Items":    transfer.ScopeItems,
		"schedule": transfer.ScopeSchedule,
	} {
		got, err := transfer.ParseScope(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, "scope %q", name)
	}

	_, err := transfer.ParseScope("everything")
	require.Error(t, err)
}
