package persist

import "fmt"

// PersistenceError wraps a local cache read or write failure. The manager
// logs it and falls back; it is never returned past the manager.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("local cache %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SyncError wraps a remote store fetch or merge failure.
type SyncError struct {
	Op     string // "fetch" or "merge"
	UserID string
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("remote %s for %s: %v", e.Op, e.UserID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
