package normalizer

import (
	"testing"

	"steamdata/internal/models"
)

func TestUniqueCount(t *testing.T) {
	tests := []struct {
		name  string
		items []any
		want  int
	}{
		{"mixed case and blanks", []any{"A", "a", " ", "", "B"}, 2},
		{"empty", nil, 0},
		{"trimmed duplicates", []any{"Valve ", " valve", "VALVE"}, 1},
		{"nil entries", []any{nil, "x"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UniqueCount(tt.items); got != tt.want {
				t.Errorf("UniqueCount(%v) = %d, want %d", tt.items, got, tt.want)
			}
		})
	}
}

func TestTagMembership(t *testing.T) {
	set := TagMembership([]models.Tag{
		{ID: 1, Description: "Single-player"},
		{ID: 2, Description: "  Online Co-op "},
		{ID: 3, Description: ""},
		{ID: 4},
	})

	if len(set) != 2 {
		t.Fatalf("len(set) = %d, want 2 (%v)", len(set), set)
	}

	if !set.Has("single-player") || !set.Has("online co-op") {
		t.Errorf("unexpected set %v", set)
	}

	if !set.HasAny(VocabCoop...) {
		t.Error("HasAny(VocabCoop) = false, want true")
	}

	if set.HasAny(VocabMMO...) {
		t.Error("HasAny(VocabMMO) = true, want false")
	}
}

func TestGenreRemap(t *testing.T) {
	remap := NewGenreRemap([]string{"Utilities", "Design & Illustration", " "})

	got := remap.Apply(TagMembership([]models.Tag{
		{Description: "Utilities"},
		{Description: "design & illustration"},
		{Description: "Indie"},
	}))

	if !got.Has(NonGameTag) || !got.Has("indie") {
		t.Errorf("Apply() = %v, want nongame and indie", got)
	}

	if got.Has("utilities") {
		t.Error("remapped label survived Apply")
	}

	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}
