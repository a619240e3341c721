package transfer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/colonyops/weekplan/internal/core/planner"
)

//go:embed schema/snapshot.json
var snapshotSchemaJSON []byte

const snapshotSchemaURL = "https://weekplan.local/schema/snapshot.json"

var snapshotSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(snapshotSchemaURL, bytes.NewReader(snapshotSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add snapshot schema: %w", err)
	}
	schema, err := compiler.Compile(snapshotSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	return schema, nil
})

// Snapshot is the structured export file: the persisted document plus the
// time it was written.
type Snapshot struct {
	planner.Document
	ExportedAt time.Time `json:"exportedAt"`
}

// ExportJSON writes s as an indented snapshot.
func ExportJSON(w io.Writer, s *planner.State, version string, now time.Time) error {
	snap := Snapshot{
		Document:   planner.ToDocument(s, version),
		ExportedAt: now.UTC(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ImportJSON reads a snapshot and returns the LoadData that replaces the
// state with it. The payload must match the snapshot schema and carry at
// least one of items, repeatedItems or schedule.
func ImportJSON(r io.Reader) (planner.LoadData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return planner.LoadData{}, fmt.Errorf("read snapshot: %w", err)
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return planner.LoadData{}, &ImportFormatError{Format: "json", Reason: "malformed JSON", Err: err}
	}

	schema, err := snapshotSchema()
	if err != nil {
		return planner.LoadData{}, err
	}
	if err := schema.Validate(raw); err != nil {
		return planner.LoadData{}, &ImportFormatError{Format: "json", Reason: "unexpected shape", Err: schemaError(err)}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return planner.LoadData{}, &ImportFormatError{Format: "json", Reason: "unexpected shape", Err: err}
	}

	if snap.Items == nil && snap.RepeatedItems == nil && snap.Schedule == nil {
		return planner.LoadData{}, &ImportFormatError{Format: "json", Reason: "no valid data"}
	}

	load, err := planner.FromDocument(snap.Document)
	if err != nil {
		return planner.LoadData{}, fmt.Errorf("import json: %w", err)
	}
	return load, nil
}

// schemaError reduces a schema validation failure to its first leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Errorf("%s: %s", loc, ve.Message)
}
