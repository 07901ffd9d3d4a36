package sidestats

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"steamdata/internal/logger"
)

const sample = `{
  "10": {"appid": 10, "owners": 1000, "owners_variance": 50, "players_forever": "800", "players_forever_variance": null},
  "20": {"owners": 7}
}`

func writeSample(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "steamspy.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	return path
}

func TestLoad(t *testing.T) {
	table, err := Load(writeSample(t, sample), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}

	got := table.Lookup("10", "owners", "owners_variance", "players_forever", "players_forever_variance")
	want := []float64{1000, 50, 800, 0}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lookup()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLookup_Gaps(t *testing.T) {
	table, err := Parse([]byte(sample), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := table.Lookup("20", "owners", "players_forever"); got[0] != 7 || got[1] != 0 {
		t.Errorf("Lookup(20) = %v, want [7 0]", got)
	}

	if got := table.Lookup("999", "owners"); got[0] != 0 {
		t.Errorf("Lookup(999) = %v, want [0]", got)
	}

	if table.Misses() != 1 {
		t.Errorf("Misses() = %d, want 1", table.Misses())
	}
}

func TestLoad_Fatal(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }},
		{"not json", func(t *testing.T) string { return writeSample(t, "owners,players\n1,2\n") }},
		{"wrong shape", func(t *testing.T) string { return writeSample(t, `[1, 2, 3]`) }},
		{"null document", func(t *testing.T) string { return writeSample(t, `null`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path(t), nil); !errors.Is(err, ErrLoad) {
				t.Errorf("Load() error = %v, want ErrLoad", err)
			}
		})
	}
}

func TestParse_BadRowsAreGaps(t *testing.T) {
	var buf bytes.Buffer

	log := logger.NewLoggerWithWriter("warn", &buf)
	data := `{"10": {"owners": 5}, "20": "n/a", "30": [1, 2], "40": {"owners": "1,000 .. 2,000", "players_forever": 12}}`

	table, err := Parse([]byte(data), log)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if table.Len() != 2 || table.Rejected() != 2 {
		t.Errorf("Len() = %d, Rejected() = %d, want 2 and 2", table.Len(), table.Rejected())
	}

	if got := table.Lookup("20", "owners"); got[0] != 0 {
		t.Errorf("Lookup(20) = %v, want [0]", got)
	}

	if got := table.Lookup("40", "owners", "players_forever"); got[0] != 0 || got[1] != 12 {
		t.Errorf("Lookup(40) = %v, want [0 12]", got)
	}

	if table.InvalidFields() != 1 {
		t.Errorf("InvalidFields() = %d, want 1", table.InvalidFields())
	}

	out := buf.String()
	for _, want := range []string{"side stats row is not an object", "numeric coercion failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
}
