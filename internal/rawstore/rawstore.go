// Package rawstore reads and appends the line-delimited JSON raw store.
//
// The store is append-only. Harvest state is never persisted separately:
// the set of harvested ids is recovered by scanning the store.
package rawstore

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"steamdata/internal/models"
	"steamdata/internal/normalizer"
)

// MaxLineBytes bounds a single store line. Detail payloads with long
// descriptions run to a few hundred KiB.
const MaxLineBytes = 20 << 20

// Store errors.
var (
	ErrOpen   = errors.New("failed to open raw store")
	ErrAppend = errors.New("failed to append to raw store")
	ErrScan   = errors.New("failed to scan raw store")
)

// Writer appends records to a store file.
type Writer struct {
	f       *os.File
	w       *bufio.Writer
	written int
}

// Open opens path for appending, creating it if needed.
func Open(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}

	return &Writer{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes v as one JSON line.
func (w *Writer) Append(v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}

	line = append(line, '\n')
	if _, err := w.w.Write(line); err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}

	w.written++

	return nil
}

// Written returns the number of lines appended through this writer.
func (w *Writer) Written() int {
	return w.written
}

// Flush pushes buffered lines to the file and syncs it.
func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}

	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrAppend, err)
	}

	return nil
}

// Close flushes and closes the file.
func (w *Writer) Close() error {
	flushErr := w.Flush()
	closeErr := w.f.Close()

	return errors.Join(flushErr, closeErr)
}

// ScanStats counts the lines seen by a scan.
type ScanStats struct {
	Lines int
	Blank int
	Bad   int
}

// ScanFunc receives each decoded record with its 1-based line number.
// Returning an error stops the scan.
type ScanFunc func(line int, rec *models.RawRecord) error

// Scan decodes every line of the store at path. Undecodable lines are
// counted and skipped.
func Scan(path string, fn ScanFunc) (ScanStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return ScanStats{}, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	defer f.Close()

	return ScanReader(f, fn)
}

// ScanReader is Scan over an open reader.
func ScanReader(r io.Reader, fn ScanFunc) (ScanStats, error) {
	var stats ScanStats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	for sc.Scan() {
		stats.Lines++

		line := sc.Bytes()
		if len(line) == 0 {
			stats.Blank++
			continue
		}

		rec, err := models.ParseRawRecord(line)
		if err != nil {
			stats.Bad++
			continue
		}

		if err := fn(stats.Lines, rec); err != nil {
			return stats, err
		}
	}

	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("%w at line %d: %w", ErrScan, stats.Lines+1, err)
	}

	return stats, nil
}

// IDKey renders a query identifier as the canonical seen-set key. ids that
// do not coerce to an integer fall back to their trimmed text.
func IDKey(v any) string {
	if n := normalizer.ToInt(v, -1); n >= 0 {
		return strconv.FormatInt(n, 10)
	}

	return normalizer.NormalizeText(v, "")
}

// recordKey is the seen-set key of a stored line: its query id, or the
// response's steam_appid for lines written without query fields.
func recordKey(rec *models.RawRecord) string {
	if key := IDKey(rec.QueryID); key != "" {
		return key
	}

	if rec.Data != nil {
		return IDKey(rec.Data.SteamAppID)
	}

	return ""
}

// SeenIDs returns the ids already present in the store. A missing store is
// an empty set.
func SeenIDs(path string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})

	_, err := Scan(path, func(_ int, rec *models.RawRecord) error {
		if key := recordKey(rec); key != "" {
			seen[key] = struct{}{}
		}

		return nil
	})
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return seen, nil
	}

	if err != nil {
		return nil, err
	}

	return seen, nil
}

// Tally is the success breakdown of a store.
type Tally struct {
	Good  int
	Bad   int
	Error int
	Total int
}

// Sane reports whether the three buckets add up to the total.
func (t Tally) Sane() bool {
	return t.Good+t.Bad+t.Error == t.Total
}

// TallyFile counts records by their success flag: Good for true, Bad for
// false and Error when the flag is missing or the line does not decode.
func TallyFile(path string) (Tally, error) {
	var t Tally

	stats, err := Scan(path, func(_ int, rec *models.RawRecord) error {
		t.Total++

		switch {
		case rec.Success == nil:
			t.Error++
		case *rec.Success:
			t.Good++
		default:
			t.Bad++
		}

		return nil
	})
	if err != nil {
		return t, err
	}

	t.Error += stats.Bad
	t.Total += stats.Bad

	return t, nil
}
