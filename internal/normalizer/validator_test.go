package normalizer

import (
	"errors"
	"slices"
	"testing"
)

func TestValidateSchema(t *testing.T) {
	if err := ValidateSchema(NewNormalizer(Options{})); err != nil {
		t.Fatalf("ValidateSchema() = %v, want nil", err)
	}
}

func TestCheckKeys_Mismatch(t *testing.T) {
	schema := []string{"A", "B", "C"}
	rec := Record{"A": 1, "C": 2, "D": 3}

	err := CheckKeys(schema, rec)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("CheckKeys() = %v, want ErrSchemaMismatch", err)
	}

	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error %T is not *SchemaError", err)
	}

	if !slices.Equal(se.SchemaOnly, []string{"B"}) {
		t.Errorf("SchemaOnly = %v, want [B]", se.SchemaOnly)
	}

	if !slices.Equal(se.RecordOnly, []string{"D"}) {
		t.Errorf("RecordOnly = %v, want [D]", se.RecordOnly)
	}
}

func TestCheckKeys_Duplicate(t *testing.T) {
	err := CheckKeys([]string{"A", "B", "A"}, Record{"A": 1, "B": 2})
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("CheckKeys() = %v, want ErrDuplicateColumn", err)
	}
}

func TestCheckKeys_Match(t *testing.T) {
	if err := CheckKeys([]string{"A", "B"}, Record{"B": 1, "A": 2}); err != nil {
		t.Errorf("CheckKeys() = %v, want nil", err)
	}
}

func TestColumnSchemaHasNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range ColumnSchema() {
		if seen[c] {
			t.Errorf("duplicate column %s", c)
		}

		seen[c] = true
	}
}
