package planner_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/weekplan/internal/core/planner"
)

func sampleState(t *testing.T) *planner.State {
	t.Helper()

	kitchen := mustItem(t, planner.ItemInput{Name: "Clean kitchen", Subtype: planner.SubtypePlan, Quantity: 2})
	wipe := mustSub(t, "wipe counters", kitchen.ID, 10)
	gym := mustItem(t, planner.ItemInput{
		Name:            "Gym",
		Kind:            planner.KindRepeated,
		Frequency:       planner.FrequencyCustom,
		CustomFrequency: 3,
		Duration:        60,
	})

	s := planner.NewState()
	s = planner.Reduce(s, planner.AddItem{Item: kitchen})
	s = planner.Reduce(s, planner.AddSubItem{ParentID: kitchen.ID, SubItem: wipe})
	s = planner.Reduce(s, planner.AddItem{Item: gym})
	s = planner.Reduce(s, planner.Schedule{
		Day: planner.Monday, TimeSlot: planner.Morning, ItemID: kitchen.ID, SubItemID: wipe.ID,
		At: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	})
	s = planner.Reduce(s, planner.Schedule{Day: planner.Monday, TimeSlot: planner.Morning, ItemID: gym.ID})
	s = planner.Reduce(s, planner.ToggleCompletion{Day: planner.Monday, TimeSlot: planner.Morning, Index: 1})
	return s
}

func TestDocument_RoundTrip(t *testing.T) {
	s := sampleState(t)

	doc := planner.ToDocument(s, planner.DocumentVersion)
	assert.Equal(t, "2.0", doc.Version)
	assert.True(t, doc.Populated())

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var decoded planner.Document
	require.NoError(t, json.Unmarshal(data, &decoded))

	load, err := planner.FromDocument(decoded)
	require.NoError(t, err)

	restored := planner.Reduce(planner.NewState(), load)
	assert.Equal(t, s.Items, restored.Items)
	assert.Equal(t, s.RepeatedItems, restored.RepeatedItems)
	assert.Equal(t, s.Schedule, restored.Schedule)
	assert.Equal(t, s.CompletedItems, restored.CompletedItems)
}

func TestDocument_WireNames(t *testing.T) {
	s := sampleState(t)
	data, err := json.Marshal(planner.ToDocument(s, planner.DocumentVersion))
	require.NoError(t, err)

	var raw map[string]map[string]any
	require.NoError(t, json.Unmarshal(data, &struct {
		Items *map[string]map[string]any `json:"items"`
	}{Items: &raw}))

	require.Len(t, raw, 1)
	for _, rec := range raw {
		assert.Equal(t, "normal", rec["itemType"])
		assert.Equal(t, "plan", rec["subtype"])
		assert.Nil(t, rec["frequency"])
		assert.Contains(t, rec, "subItems")
		assert.Contains(t, rec, "createdAt")
	}
}

func TestFromDocument_Reconstructs(t *testing.T) {
	doc := planner.Document{
		Items: map[string]planner.ItemRecord{
			"legacy-key": {
				Name:     "Laundry",
				Duration: 45,
				SubItems: []planner.SubItemRecord{{Name: "fold", ParentID: "stale", Duration: 5}},
			},
		},
		RepeatedItems: map[string]planner.ItemRecord{
			"r1": {ID: "r1", Name: "Walk dog", ItemType: "normal"},
		},
	}

	load, err := planner.FromDocument(doc)
	require.NoError(t, err)

	require.Len(t, load.Items, 2, "itemType decides the pool")
	assert.Empty(t, load.RepeatedItems)
	assert.NotNil(t, load.Schedule)
	assert.NotNil(t, load.CompletedItems)

	var laundry planner.Item
	for id, it := range load.Items {
		assert.Equal(t, id, it.ID, "maps are keyed by item id")
		if it.Name == "Laundry" {
			laundry = it
		}
	}
	require.NotEmpty(t, laundry.ID, "missing ids are generated")
	assert.Equal(t, 1, laundry.Quantity)
	require.Len(t, laundry.SubItems, 1)
	assert.Equal(t, laundry.ID, laundry.SubItems[0].ParentID)
	assert.NotEmpty(t, laundry.SubItems[0].ID)
	assert.Equal(t, 5, laundry.TotalDuration())

	assert.Equal(t, "r1", load.Items["r1"].ID)
}

func TestFromDocument_MissingItemTypeFollowsCollection(t *testing.T) {
	load, err := planner.FromDocument(planner.Document{
		RepeatedItems: map[string]planner.ItemRecord{
			"r1": {ID: "r1", Name: "Water plants", Frequency: ptr("weekly")},
		},
	})
	require.NoError(t, err)
	require.Contains(t, load.RepeatedItems, "r1")
	assert.Equal(t, planner.FrequencyWeekly, load.RepeatedItems["r1"].Frequency)
}

func TestFromDocument_InvalidRecord(t *testing.T) {
	_, err := planner.FromDocument(planner.Document{
		Items: map[string]planner.ItemRecord{"a": {ID: "a", Name: "  "}},
	})

	var verr *planner.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDocument_Populated(t *testing.T) {
	assert.False(t, planner.Document{}.Populated())
	assert.False(t, planner.Document{CompletedItems: map[string]bool{"k": true}}.Populated())
	assert.True(t, planner.Document{Schedule: map[string][]planner.ScheduleRecord{"Monday-Morning": {{ItemID: "x"}}}}.Populated())
}
