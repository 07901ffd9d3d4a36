// Package report renders the markdown run summary written next to the
// feature table.
package report

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Summary is what one features run did.
type Summary struct {
	RunID             string
	Source            string
	Output            string
	SinkTable         string
	Started           time.Time
	Elapsed           time.Duration
	Lines             int
	BlankLines        int
	BadLines          int
	Eligible          int
	Written           int
	SinkRows          int
	Skipped           map[string]int
	CoercionFailures  int
	SideStatsRows     int
	SideStatsRejected int
	SideStatsInvalid  int
	SideStatsGaps     int
	Columns           int
}

// SkippedTotal sums the skip counters.
func (s *Summary) SkippedTotal() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}

	return total
}

// Markdown renders the summary.
func (s *Summary) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Feature extraction report\n\n")
	fmt.Fprintf(&sb, "- Source: `%s`\n", s.Source)
	fmt.Fprintf(&sb, "- Output: `%s` (%d columns)\n", s.Output, s.Columns)

	if s.SinkTable != "" {
		fmt.Fprintf(&sb, "- Sink table: `%s`\n", s.SinkTable)
	}

	fmt.Fprintf(&sb, "- Started: %s\n", s.Started.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Elapsed: %s\n\n", s.Elapsed.Round(time.Millisecond))

	sb.WriteString("## Records\n\n")
	sb.WriteString(Table([]string{"Metric", "Count"}, [][]string{
		{"Lines read", count(s.Lines)},
		{"Blank lines", count(s.BlankLines)},
		{"Undecodable lines", count(s.BadLines)},
		{"Eligible", count(s.Eligible)},
		{"Skipped", count(s.SkippedTotal())},
		{"Rows written", count(s.Written)},
		{"Sink rows", count(s.SinkRows)},
	}))

	if len(s.Skipped) > 0 {
		sb.WriteString("\n## Skipped by reason\n\n")

		rows := make([][]string, 0, len(s.Skipped))
		for _, reason := range slices.Sorted(maps.Keys(s.Skipped)) {
			rows = append(rows, []string{reason, count(s.Skipped[reason])})
		}

		sb.WriteString(Table([]string{"Reason", "Count"}, rows))
	}

	sb.WriteString("\n## Data quality\n\n")
	sb.WriteString(Table([]string{"Signal", "Count"}, [][]string{
		{"Numeric coercion diagnostics", count(s.CoercionFailures)},
		{"Side stats rows loaded", count(s.SideStatsRows)},
		{"Side stats rows rejected", count(s.SideStatsRejected)},
		{"Side stats non-numeric fields", count(s.SideStatsInvalid)},
		{"Records without side stats", count(s.SideStatsGaps)},
	}))

	return sb.String()
}

// WriteFile renders, signs and writes the summary to path.
func (s *Summary) WriteFile(path string) error {
	content := Sign(s.Markdown(), s.RunID, time.Now())

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

func count(n int) string {
	return humanize.Comma(int64(n))
}
