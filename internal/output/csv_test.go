package output

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"steamdata/internal/models"
	"steamdata/internal/normalizer"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{true, "True"},
		{false, "False"},
		{int64(-42), "-42"},
		{7, "7"},
		{19.99, "19.99"},
		{0.0, "0.0"},
		{100.0, "100.0"},
		{math.NaN(), "NaN"},
		{" ", " "},
		{"Half-Life", "Half-Life"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.csv")
	n := normalizer.NewNormalizer(normalizer.Options{})

	w, err := NewCSVWriter(path, n.Columns())
	if err != nil {
		t.Fatalf("NewCSVWriter() error = %v", err)
	}

	raw, err := models.ParseRawRecord([]byte(`{"success": true, "query_id": "70", "query_name": "Half-Life",
		"data": {"type": "game", "platforms": {"windows": true}, "price_overview": {"currency": "USD", "initial": 999, "final": 999}}}`))
	if err != nil {
		t.Fatalf("ParseRawRecord() error = %v", err)
	}

	if err := w.Write(n.Normalize(raw)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := w.Write(n.Normalize(nil)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if w.Rows() != 2 {
		t.Errorf("Rows() = %d, want 2", w.Rows())
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}

	header := rows[0]
	if len(header) != len(n.Columns()) || header[0] != normalizer.ColQueryID {
		t.Errorf("header = %v", header)
	}

	got := make(map[string]string, len(header))
	for i, h := range header {
		got[h] = rows[1][i]
	}

	want := map[string]string{
		normalizer.ColQueryID:         "70",
		normalizer.ColQueryName:       "Half-Life",
		normalizer.ColPlatformWindows: "True",
		normalizer.ColPlatformMac:     "False",
		normalizer.ColPriceFinal:      "9.99",
		normalizer.ColPriceCurrency:   "USD",
	}

	for col, v := range want {
		if got[col] != v {
			t.Errorf("%s = %q, want %q", col, got[col], v)
		}
	}
}
