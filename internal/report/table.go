package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table renders a markdown table with every column padded to its widest
// cell by display width, so wide runes line up in a terminal.
func Table(header []string, rows [][]string) string {
	colCount := len(header)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}

	if colCount == 0 {
		return ""
	}

	colWidths := make([]int, colCount)

	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			colWidths[i] = max(colWidths[i], runewidth.StringWidth(escapeCell(row[i])))
		}
	}

	measure(header)

	for _, row := range rows {
		measure(row)
	}

	// Separator needs at least "---".
	for i := range colWidths {
		colWidths[i] = max(colWidths[i], 3)
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, renderRow(header, colWidths, false))
	lines = append(lines, renderRow(nil, colWidths, true))

	for _, row := range rows {
		lines = append(lines, renderRow(row, colWidths, false))
	}

	return strings.Join(lines, "\n") + "\n"
}

func renderRow(row []string, colWidths []int, separator bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		if separator {
			sb.WriteString(strings.Repeat("-", width))
		} else {
			content := ""
			if j < len(row) {
				content = escapeCell(row[j])
			}

			sb.WriteString(content)

			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
		}

		sb.WriteString(" |")
	}

	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
