package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/weekplan/internal/core/planner"
)

func TestCache_LoadMissing(t *testing.T) {
	c := NewCache(t.TempDir(), DefaultSlot)

	doc, found, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, planner.Document{}, doc)
}

func TestCache_SaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	c := NewCache(dir, DefaultSlot)
	assert.Equal(t, filepath.Join(dir, "plannerData.json"), c.Path())

	want := planner.Document{
		Items: map[string]planner.ItemRecord{
			"i1": {ID: "i1", Name: "Laundry", ItemType: "normal", Quantity: 1, SubItems: []planner.SubItemRecord{}},
		},
		RepeatedItems:  map[string]planner.ItemRecord{},
		Schedule:       map[string][]planner.ScheduleRecord{},
		CompletedItems: map[string]bool{},
		Version:        planner.DocumentVersion,
	}
	require.NoError(t, c.Save(ctx, want))

	got, found, err := c.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, got)

	assert.NoFileExists(t, c.Path()+".tmp")
}

func TestCache_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	c := NewCache(t.TempDir(), DefaultSlot)

	require.NoError(t, c.Save(ctx, planner.Document{Version: "1.0"}))
	require.NoError(t, c.Save(ctx, planner.Document{Version: "2.0"}))

	got, _, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2.0", got.Version)
}

func TestCache_EmptyAndCorruptFiles(t *testing.T) {
	ctx := context.Background()
	c := NewCache(t.TempDir(), DefaultSlot)

	require.NoError(t, os.WriteFile(c.Path(), nil, 0o644))
	_, found, err := c.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, os.WriteFile(c.Path(), []byte("{not json"), 0o644))
	_, found, err = c.Load(ctx)
	require.Error(t, err)
	assert.False(t, found)
}

func TestCache_Remove(t *testing.T) {
	ctx := context.Background()
	c := NewCache(t.TempDir(), DefaultSlot)

	require.NoError(t, c.Remove())
	require.NoError(t, c.Save(ctx, planner.Document{Version: "2.0"}))
	require.NoError(t, c.Remove())
	assert.NoFileExists(t, c.Path())
}
