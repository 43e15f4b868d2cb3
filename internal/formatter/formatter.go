// package formatter renders analytics results to various formats (plain text, CSV, Markdown, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/desertthunder/spotex/internal/analytics"
	"github.com/desertthunder/spotex/internal/shared"
)

// ToText renders a result as an aligned plain-text table.
func ToText(result *analytics.Result) ([]byte, error) {
	if len(result.Columns) == 0 {
		return nil, fmt.Errorf("result has no columns")
	}

	widths := make([]int, len(result.Columns))
	for i, column := range result.Columns {
		widths[i] = len(column)
	}
	for _, row := range result.Rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var buf bytes.Buffer

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				buf.WriteString("  ")
			}
			buf.WriteString(cell)
			if pad := widths[i] - len(cell); pad > 0 && i < len(cells)-1 {
				buf.WriteString(strings.Repeat(" ", pad))
			}
		}
		buf.WriteString("\n")
	}

	writeRow(result.Columns)
	for i, width := range widths {
		if i > 0 {
			buf.WriteString("  ")
		}
		buf.WriteString(strings.Repeat("-", width))
	}
	buf.WriteString("\n")

	for _, row := range result.Rows {
		writeRow(row)
	}
	buf.WriteString(fmt.Sprintf("\n(%d rows)\n", len(result.Rows)))

	return buf.Bytes(), nil
}

// ToCSV renders a result as CSV with a header row.
func ToCSV(result *analytics.Result) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(result.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range result.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders a result as a Markdown table headed by the query name.
func ToMarkdown(result *analytics.Result) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("## %s\n\n", result.Name))
	buf.WriteString("| " + strings.Join(result.Columns, " | ") + " |\n")

	separators := make([]string, len(result.Columns))
	for i := range separators {
		separators[i] = "---"
	}
	buf.WriteString("| " + strings.Join(separators, " | ") + " |\n")

	for _, row := range result.Rows {
		escaped := make([]string, len(row))
		for i, cell := range row {
			escaped[i] = strings.ReplaceAll(cell, "|", "\\|")
		}
		buf.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
	}

	return buf.Bytes(), nil
}

// ToJSON renders a result as an array of column-keyed objects.
func ToJSON(result *analytics.Result) ([]byte, error) {
	objects := make([]map[string]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		object := make(map[string]string, len(result.Columns))
		for i, column := range result.Columns {
			object[column] = row[i]
		}
		objects = append(objects, object)
	}
	return shared.MarshalJSON(objects, true)
}

// Render dispatches on a format name: "text", "csv", "markdown" or "json".
func Render(result *analytics.Result, format string) ([]byte, error) {
	switch format {
	case "", "text":
		return ToText(result)
	case "csv":
		return ToCSV(result)
	case "markdown", "md":
		return ToMarkdown(result)
	case "json":
		return ToJSON(result)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}
