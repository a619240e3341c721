// Package memory provides an in-process remote document store. Documents
// live only as long as the process, which suits tests and the "memory"
// remote driver.
package memory

import (
	"context"

	"github.com/colonyops/weekplan/internal/core/persist"
	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/pkg/kv"
)

// RemoteStore implements persist.Remote with one document per user.
type RemoteStore struct {
	docs *kv.Store[string, planner.Document]
}

var _ persist.Remote = (*RemoteStore)(nil)

// NewRemoteStore creates an empty store.
func NewRemoteStore() *RemoteStore {
	return &RemoteStore{docs: kv.New[string, planner.Document]()}
}

// Fetch returns the user's document.
func (s *RemoteStore) Fetch(_ context.Context, userID string) (planner.Document, bool, error) {
	doc, ok := s.docs.Get(userID)
	return doc, ok, nil
}

// Merge overwrites the non-nil fields of doc, leaving the rest as stored.
func (s *RemoteStore) Merge(_ context.Context, userID string, doc planner.Document) error {
	s.docs.Update(userID, func(current planner.Document, _ bool) planner.Document {
		if doc.Items != nil {
			current.Items = doc.Items
		}
		if doc.RepeatedItems != nil {
			current.RepeatedItems = doc.RepeatedItems
		}
		if doc.Schedule != nil {
			current.Schedule = doc.Schedule
		}
		if doc.CompletedItems != nil {
			current.CompletedItems = doc.CompletedItems
		}
		if doc.Version != "" {
			current.Version = doc.Version
		}
		return current
	})
	return nil
}

// Delete drops the user's document.
func (s *RemoteStore) Delete(_ context.Context, userID string) error {
	s.docs.Delete(userID)
	return nil
}

// Users lists the users that have a document.
func (s *RemoteStore) Users() []string {
	return s.docs.Keys()
}
