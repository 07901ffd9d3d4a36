// Package sidestats loads the secondary per-item statistics dataset that is
// joined into every normalized record.
package sidestats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"steamdata/internal/logger"
	"steamdata/internal/normalizer"
)

// ErrLoad wraps every failure to read or decode the dataset. It is fatal to
// a run.
var ErrLoad = errors.New("failed to load side stats")

// Table is an id to numeric-fields lookup. Rows are fixed after Parse;
// only the miss counter changes.
type Table struct {
	rows     map[string]map[string]float64
	rejected int
	invalid  int
	misses   int
}

// Load reads the whole dataset from path. The file is one JSON object keyed
// by item id; each value is a flat object of numeric fields. Diagnostics go
// to log, which may be nil.
func Load(path string, log *logger.Logger) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	return Parse(data, log)
}

// Parse decodes a dataset already in memory. Only a document that is not a
// JSON object fails. A row that is not an object is dropped with a warning
// and its id becomes a gap; a field that is not numeric reads as 0 and is
// reported by the coercer.
func Parse(data []byte, log *logger.Logger) (*Table, error) {
	if log == nil {
		log = logger.Discard()
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	if raw == nil {
		return nil, fmt.Errorf("%w: document is null", ErrLoad)
	}

	c := normalizer.NewCoercer(log)
	t := &Table{rows: make(map[string]map[string]float64, len(raw))}

	for id, v := range raw {
		fields, ok := v.(map[string]any)
		if !ok {
			t.rejected++
			log.Warn("side stats row is not an object, skipping", "id", id, "value", v)

			continue
		}

		row := make(map[string]float64, len(fields))
		for name, fv := range fields {
			row[name] = c.ToFloat(fv, 0)
		}

		t.rows[id] = row
	}

	t.invalid = c.Failures()

	return t, nil
}

// Len returns the number of items in the table.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rejected returns how many rows were dropped for not being objects.
func (t *Table) Rejected() int {
	return t.rejected
}

// InvalidFields returns how many field values were not numeric.
func (t *Table) InvalidFields() int {
	return t.invalid
}

// Misses returns how many lookups found no row for their id.
func (t *Table) Misses() int {
	return t.misses
}

// Lookup returns the requested fields for id in order. An unknown id or
// field yields 0; a missing row is a data gap, not an error.
func (t *Table) Lookup(id string, fields ...string) []float64 {
	out := make([]float64, len(fields))

	row, ok := t.rows[id]
	if !ok {
		t.misses++
		return out
	}

	for i, f := range fields {
		out[i] = row[f]
	}

	return out
}
