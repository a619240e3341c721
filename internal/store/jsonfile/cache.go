// Package jsonfile keeps the planner's local cache as a JSON file in the
// data directory.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonyops/weekplan/internal/core/persist"
	"github.com/colonyops/weekplan/internal/core/planner"
)

// DefaultSlot is the cache slot the planner reads and writes.
const DefaultSlot = "plannerData"

// Cache implements persist.Cache as a single JSON file named after its
// slot. Writes go through a temp file and a rename so a crash never leaves
// a half-written cache behind.
type Cache struct {
	path string
	mu   sync.RWMutex
}

var _ persist.Cache = (*Cache)(nil)

// NewCache returns the cache for slot inside dir.
func NewCache(dir, slot string) *Cache {
	return &Cache{path: filepath.Join(dir, slot+".json")}
}

// Path is the file backing the cache.
func (c *Cache) Path() string {
	return c.path
}

// Load reads the cached document. found is false when the file does not
// exist or is empty.
func (c *Cache) Load(ctx context.Context) (planner.Document, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return planner.Document{}, false, nil
		}
		return planner.Document{}, false, err
	}

	if len(data) == 0 {
		return planner.Document{}, false, nil
	}

	var doc planner.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return planner.Document{}, false, fmt.Errorf("decode %s: %w", filepath.Base(c.path), err)
	}

	return doc, true, nil
}

// Save replaces the cached document.
func (c *Cache) Save(ctx context.Context, doc planner.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, c.path)
}

// Remove deletes the cache file. A missing file is not an error.
func (c *Cache) Remove() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
