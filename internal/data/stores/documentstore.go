package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/weekplan/internal/core/persist"
	"github.com/colonyops/weekplan/internal/core/planner"
	"github.com/colonyops/weekplan/internal/data/db"
)

// Document field names as stored in the documents table.
const (
	fieldItems          = "items"
	fieldRepeatedItems  = "repeatedItems"
	fieldSchedule       = "schedule"
	fieldCompletedItems = "completedItems"
	fieldVersion        = "version"
)

const busyRetries = 3

// DocumentStore keeps one planner document per user, one row per top-level
// field, so a merge write only touches the fields it carries.
type DocumentStore struct {
	db  *db.DB
	log zerolog.Logger
}

var _ persist.Remote = (*DocumentStore)(nil)

// NewDocumentStore creates a SQLite-backed remote document store.
func NewDocumentStore(db *db.DB, log zerolog.Logger) *DocumentStore {
	return &DocumentStore{
		db:  db,
		log: log.With().Str("component", "documents").Logger(),
	}
}

// Fetch assembles the user's document from its field rows. found is false
// when the user has no rows at all.
func (s *DocumentStore) Fetch(ctx context.Context, userID string) (planner.Document, bool, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		"SELECT field, value FROM documents WHERE user_id = ?", userID)
	if err != nil {
		return planner.Document{}, false, fmt.Errorf("fetch document: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		doc   planner.Document
		found bool
	)
	for rows.Next() {
		var field, value string
		if err := rows.Scan(&field, &value); err != nil {
			return planner.Document{}, false, fmt.Errorf("fetch document scan: %w", err)
		}
		found = true

		if err := decodeField(&doc, field, []byte(value)); err != nil {
			return planner.Document{}, false, fmt.Errorf("fetch document field %q: %w", field, err)
		}
	}
	if err := rows.Err(); err != nil {
		return planner.Document{}, false, fmt.Errorf("fetch document: %w", err)
	}

	return doc, found, nil
}

// Merge upserts every non-nil field of doc in one transaction. Absent
// fields keep whatever the store already holds. A busy database is retried
// a few times before giving up.
func (s *DocumentStore) Merge(ctx context.Context, userID string, doc planner.Document) error {
	fields, err := encodeFields(doc)
	if err != nil {
		return fmt.Errorf("merge document: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}

	wait := 50 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err = s.merge(ctx, userID, fields)
		if err == nil || !IsBusyError(err) || attempt == busyRetries {
			break
		}

		s.log.Debug().Err(err).Int("attempt", attempt).Msg("database busy, retrying merge")
		select {
		case <-ctx.Done():
			return fmt.Errorf("merge document: %w", ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}
	if err != nil {
		return fmt.Errorf("merge document: %w", err)
	}

	return nil
}

// Delete removes every field stored for the user.
func (s *DocumentStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.Conn().ExecContext(ctx, "DELETE FROM documents WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *DocumentStore) merge(ctx context.Context, userID string, fields map[string][]byte) error {
	now := time.Now().UnixNano()
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		for field, value := range fields {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO documents (user_id, field, value, updated_at)
				VALUES (?, ?, ?, ?)
				ON CONFLICT (user_id, field) DO UPDATE SET
					value = excluded.value,
					updated_at = excluded.updated_at`,
				userID, field, string(value), now,
			)
			if err != nil {
				return fmt.Errorf("upsert %s: %w", field, err)
			}
		}
		return nil
	})
}

func encodeFields(doc planner.Document) (map[string][]byte, error) {
	fields := make(map[string][]byte, 5)

	put := func(name string, v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		fields[name] = data
		return nil
	}

	if doc.Items != nil {
		if err := put(fieldItems, doc.Items); err != nil {
			return nil, err
		}
	}
	if doc.RepeatedItems != nil {
		if err := put(fieldRepeatedItems, doc.RepeatedItems); err != nil {
			return nil, err
		}
	}
	if doc.Schedule != nil {
		if err := put(fieldSchedule, doc.Schedule); err != nil {
			return nil, err
		}
	}
	if doc.CompletedItems != nil {
		if err := put(fieldCompletedItems, doc.CompletedItems); err != nil {
			return nil, err
		}
	}
	if doc.Version != "" {
		if err := put(fieldVersion, doc.Version); err != nil {
			return nil, err
		}
	}

	return fields, nil
}

// decodeField ignores unknown field names so older binaries can read rows
// written by newer ones.
func decodeField(doc *planner.Document, field string, value []byte) error {
	switch field {
	case fieldItems:
		return json.Unmarshal(value, &doc.Items)
	case fieldRepeatedItems:
		return json.Unmarshal(value, &doc.RepeatedItems)
	case fieldSchedule:
		return json.Unmarshal(value, &doc.Schedule)
	case fieldCompletedItems:
		return json.Unmarshal(value, &doc.CompletedItems)
	case fieldVersion:
		return json.Unmarshal(value, &doc.Version)
	default:
		return nil
	}
}
