package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSummary_Markdown(t *testing.T) {
	s := &Summary{
		RunID:            "run-42",
		Source:           "games.json",
		Output:           "games-features.csv",
		Started:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Elapsed:          1500 * time.Millisecond,
		Lines:            10,
		BadLines:         1,
		Eligible:         6,
		Written:          6,
		Skipped:          map[string]int{"wrong_type": 2, "not_success": 1},
		CoercionFailures: 3,
		SideStatsRows:    100,
		SideStatsGaps:    2,
		Columns:          78,
	}

	md := s.Markdown()

	for _, want := range []string{
		"# Feature extraction report",
		"- Output: `games-features.csv` (78 columns)",
		"- Started: 2026-01-02T03:04:05Z",
		"| Eligible ",
		"| Skipped           | 3     |",
		"| not_success | 1     |",
		"| Numeric coercion diagnostics  | 3     |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	if strings.Index(md, "not_success") > strings.Index(md, "wrong_type") {
		t.Error("skip reasons not sorted")
	}

	if strings.Contains(md, "Sink table") {
		t.Error("sink table line rendered without a sink")
	}
}

func TestSummary_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	s := &Summary{RunID: "run-7", Source: "games.json"}

	if err := s.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	p, err := Verify(string(data))
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if p.RunID != "run-7" {
		t.Errorf("RunID = %q, want run-7", p.RunID)
	}
}

func TestSummary_MarkdownGroupsThousands(t *testing.T) {
	s := &Summary{Lines: 1234567, SinkTable: "features", SinkRows: 1200}
	md := s.Markdown()

	for _, want := range []string{"1,234,567", "1,200", "- Sink table: `features`"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}
