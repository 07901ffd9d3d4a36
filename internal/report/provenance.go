package report

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// TagStart opens the provenance block appended to reports.
	TagStart = "<!-- PROVENANCE_START"
	// TagEnd closes it.
	TagEnd = "PROVENANCE_END -->"
)

// Provenance verification errors.
var (
	ErrNoProvenance = errors.New("no provenance block found")
	ErrNoHashFound  = errors.New("no hash found in provenance block")
	ErrHashMismatch = errors.New("hash mismatch")
)

// Provenance identifies the run that produced a report.
type Provenance struct {
	RunID     string
	Generated time.Time
	Hash      string
}

var provenanceRegex = regexp.MustCompile(`(?s)<!--\s*PROVENANCE_START\s*\n(.*?)\n\s*PROVENANCE_END\s*-->`)

// ExtractProvenance splits the provenance block off content. The returned
// body, with trailing newlines trimmed, is what the hash covers.
func ExtractProvenance(content string) (*Provenance, string) {
	match := provenanceRegex.FindStringSubmatch(content)
	body := strings.TrimRight(provenanceRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, body
	}

	p := &Provenance{}

	for line := range strings.SplitSeq(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		val = strings.TrimSpace(val)

		switch strings.TrimSpace(key) {
		case "RUN_ID":
			p.RunID = val
		case "GENERATED":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				p.Generated = t
			}
		case "HASH":
			p.Hash = val
		}
	}

	return p, body
}

func hashBody(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Sign replaces any provenance block on content with a fresh one.
func Sign(content, runID string, now time.Time) string {
	_, body := ExtractProvenance(content)

	return fmt.Sprintf("%s\n\n%s\nRUN_ID: %s\nGENERATED: %s\nHASH: %s\n%s\n",
		body, TagStart, runID, now.UTC().Format(time.RFC3339), hashBody(body), TagEnd)
}

// Verify checks that content still matches the hash in its provenance
// block.
func Verify(content string) (*Provenance, error) {
	p, body := ExtractProvenance(content)
	if p == nil {
		return nil, ErrNoProvenance
	}

	if p.Hash == "" {
		return p, ErrNoHashFound
	}

	if got := hashBody(body); got != p.Hash {
		return p, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, p.Hash, got)
	}

	return p, nil
}
