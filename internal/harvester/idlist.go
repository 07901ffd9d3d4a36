package harvester

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrIDListHeader is returned when the id list lacks an ID column.
var ErrIDListHeader = errors.New("id list has no ID column")

// IDEntry is one row of the identifier list.
type IDEntry struct {
	ID   string
	Name string
}

// ReadIDList reads an ID,Name CSV file. Column order follows the header;
// rows with an empty ID are dropped.
func ReadIDList(path string) ([]IDEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open id list: %w", err)
	}
	defer f.Close()

	return ParseIDList(f)
}

// ParseIDList reads an ID,Name CSV stream.
func ParseIDList(r io.Reader) ([]IDEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read id list header: %w", err)
	}

	idCol, nameCol := -1, -1

	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "id":
			idCol = i
		case "name":
			nameCol = i
		}
	}

	if idCol < 0 {
		return nil, ErrIDListHeader
	}

	var entries []IDEntry

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read id list: %w", err)
		}

		entry := IDEntry{ID: strings.TrimSpace(field(row, idCol))}
		if entry.ID == "" {
			continue
		}

		entry.Name = field(row, nameCol)
		entries = append(entries, entry)
	}

	return entries, nil
}

// WriteIDList writes entries to path with an ID,Name header.
func WriteIDList(path string, entries []IDEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create id list: %w", err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{"ID", "Name"}); err != nil {
		f.Close()
		return fmt.Errorf("failed to write id list: %w", err)
	}

	for _, e := range entries {
		if err := w.Write([]string{e.ID, e.Name}); err != nil {
			f.Close()
			return fmt.Errorf("failed to write id list: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write id list: %w", err)
	}

	return f.Close()
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}

	return row[i]
}
