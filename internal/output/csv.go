// Package output writes normalized feature records to tabular sinks.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"steamdata/internal/normalizer"
)

// FormatValue renders a cell. Booleans are True/False, integers decimal,
// floats in shortest form with a trailing .0 when integral, and strings as
// they are.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		if x {
			return "True"
		}

		return "False"
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}

		return s
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// CSVWriter writes records under a header row of column names.
type CSVWriter struct {
	f       *os.File
	w       *csv.Writer
	columns []string
	rows    int
}

// NewCSVWriter creates path and writes the header row.
func NewCSVWriter(path string, columns []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	return &CSVWriter{f: f, w: w, columns: columns}, nil
}

// Write appends one record in column order.
func (c *CSVWriter) Write(rec normalizer.Record) error {
	row := make([]string, len(c.columns))
	for i, v := range rec.Values(c.columns) {
		row[i] = FormatValue(v)
	}

	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	c.rows++

	return nil
}

// Rows returns the number of data rows written.
func (c *CSVWriter) Rows() int {
	return c.rows
}

// Close flushes and closes the file.
func (c *CSVWriter) Close() error {
	c.w.Flush()

	if err := c.w.Error(); err != nil {
		c.f.Close()
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	return c.f.Close()
}
