package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/weekplan/internal/core/planner"
)

func TestRemoteStore_FetchMissing(t *testing.T) {
	s := NewRemoteStore()

	_, found, err := s.Fetch(context.Background(), "ada")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoteStore_MergeKeepsAbsentFields(t *testing.T) {
	ctx := context.Background()
	s := NewRemoteStore()

	require.NoError(t, s.Merge(ctx, "ada", planner.Document{
		Items:          map[string]planner.ItemRecord{"i1": {ID: "i1", Name: "Laundry"}},
		CompletedItems: map[string]bool{"Monday-Morning-0": true},
		Version:        planner.DocumentVersion,
	}))
	require.NoError(t, s.Merge(ctx, "ada", planner.Document{
		Schedule: map[string][]planner.ScheduleRecord{"Monday-Morning": {{ItemID: "i1"}}},
	}))

	doc, found, err := s.Fetch(ctx, "ada")
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, doc.Items, "i1")
	assert.Len(t, doc.Schedule["Monday-Morning"], 1)
	assert.True(t, doc.CompletedItems["Monday-Morning-0"])
	assert.Equal(t, planner.DocumentVersion, doc.Version)
	assert.Nil(t, doc.RepeatedItems)
}

func TestRemoteStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewRemoteStore()

	require.NoError(t, s.Merge(ctx, "ada", planner.Document{Version: "2.0"}))
	require.NoError(t, s.Merge(ctx, "grace", planner.Document{Version: "2.0"}))
	assert.ElementsMatch(t, []string{"ada", "grace"}, s.Users())

	require.NoError(t, s.Delete(ctx, "ada"))
	_, found, _ := s.Fetch(ctx, "ada")
	assert.False(t, found)
	assert.Equal(t, []string{"grace"}, s.Users())
}

func TestRemoteStore_ConcurrentMerges(t *testing.T) {
	ctx := context.Background()
	s := NewRemoteStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := planner.Document{CompletedItems: map[string]bool{}}
			if i%2 == 0 {
				doc = planner.Document{Items: map[string]planner.ItemRecord{}}
			}
			_ = s.Merge(ctx, "ada", doc)
		}()
	}
	wg.Wait()

	doc, found, err := s.Fetch(ctx, "ada")
	require.NoError(t, err)
	require.True(t, found)
	assert.NotNil(t, doc.Items)
	assert.NotNil(t, doc.CompletedItems)
}
