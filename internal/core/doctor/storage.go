package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/data/db"
)

// CacheFile is the local planner cache as seen by the storage check.
type CacheFile interface {
	Path() string
	Load(ctx context.Context) (planner.Document, bool, error)
	Remove() error
}

// MigrationSource reports the database schema state.
type MigrationSource interface {
	Path() string
	Status(ctx context.Context) ([]db.MigrationStatus, error)
}

// StorageCheck verifies the data directory, the local cache and the
// database schema. With autofix an unreadable cache file is removed so the
// next start falls back to the remote copy or an empty planner.
type StorageCheck struct {
	dataDir string
	cache   CacheFile
	db      MigrationSource
	autofix bool
}

// NewStorageCheck creates a new storage check.
func NewStorageCheck(dataDir string, cache CacheFile, db MigrationSource, autofix bool) *StorageCheck {
	return &StorageCheck{dataDir: dataDir, cache: cache, db: db, autofix: autofix}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if err := checkWritable(c.dataDir); err != nil {
		result.add("data_dir", StatusFail, err.Error())
	} else {
		result.add("data_dir", StatusPass, c.dataDir)
	}

	result.Items = append(result.Items, c.checkCache(ctx))
	result.Items = append(result.Items, c.checkSchema(ctx))
	return result
}

func (c *StorageCheck) checkCache(ctx context.Context) CheckItem {
	item := CheckItem{Label: "local cache"}

	doc, found, err := c.cache.Load(ctx)
	switch {
	case err != nil && c.autofix:
		if rmErr := c.cache.Remove(); rmErr != nil {
			item.Status = StatusFail
			item.Detail = fmt.Sprintf("unreadable and could not be removed: %v", rmErr)
			return item
		}
		item.Status = StatusPass
		item.Detail = "unreadable file removed"
	case err != nil:
		item.Status = StatusFail
		item.Detail = fmt.Sprintf("unreadable: %v", err)
		item.Fixable = true
	case !found:
		item.Status = StatusPass
		item.Detail = "no data saved yet"
	default:
		if _, err := planner.FromDocument(doc); err != nil {
			item.Status = StatusFail
			item.Detail = fmt.Sprintf("invalid content: %v", err)
			return item
		}
		item.Status = StatusPass
		item.Detail = fmt.Sprintf("%d items, %d repeated items", len(doc.Items), len(doc.RepeatedItems))
	}
	return item
}

func (c *StorageCheck) checkSchema(ctx context.Context) CheckItem {
	item := CheckItem{Label: "database"}

	statuses, err := c.db.Status(ctx)
	if err != nil {
		item.Status = StatusFail
		item.Detail = err.Error()
		return item
	}

	pending := 0
	for _, s := range statuses {
		if s.Pending() {
			pending++
		}
	}
	if pending > 0 {
		item.Status = StatusFail
		item.Detail = fmt.Sprintf("%d pending migration(s)", pending)
		return item
	}

	item.Status = StatusPass
	item.Detail = c.db.Path()
	if n := len(statuses); n > 0 {
		item.Detail = fmt.Sprintf("%s, schema version %d", c.db.Path(), statuses[n-1].Version)
	}
	return item
}

// checkWritable creates and removes a probe file in dir.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
