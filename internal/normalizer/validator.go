package normalizer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"steamdata/internal/models"
)

// Schema errors. Both are fatal to a run.
var (
	ErrSchemaMismatch  = errors.New("normalized keys do not match column schema")
	ErrDuplicateColumn = errors.New("duplicate column in schema")
)

// SchemaError describes key-set drift between the schema and a record.
type SchemaError struct {
	SchemaOnly []string
	RecordOnly []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: schema only [%s], record only [%s]",
		ErrSchemaMismatch, strings.Join(e.SchemaOnly, ", "), strings.Join(e.RecordOnly, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}

// CheckKeys compares rec's key set against schema. Duplicate schema names
// yield ErrDuplicateColumn; any difference yields a *SchemaError.
func CheckKeys(schema []string, rec Record) error {
	want := make(map[string]struct{}, len(schema))

	for _, c := range schema {
		if _, dup := want[c]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, c)
		}

		want[c] = struct{}{}
	}

	var schemaOnly, recordOnly []string

	for c := range want {
		if _, ok := rec[c]; !ok {
			schemaOnly = append(schemaOnly, c)
		}
	}

	for c := range rec {
		if _, ok := want[c]; !ok {
			recordOnly = append(recordOnly, c)
		}
	}

	if len(schemaOnly) == 0 && len(recordOnly) == 0 {
		return nil
	}

	slices.Sort(schemaOnly)
	slices.Sort(recordOnly)

	return &SchemaError{SchemaOnly: schemaOnly, RecordOnly: recordOnly}
}

// ValidateSchema normalizes a maximally empty record and checks its keys
// against the normalizer's columns. Call it once before writing any rows.
func ValidateSchema(n *Normalizer) error {
	return CheckKeys(n.Columns(), n.Normalize(&models.RawRecord{}))
}
