package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/spotex/internal/analytics"
)

func sampleResult() *analytics.Result {
	return &analytics.Result{
		Name:    "top-tracks",
		Columns: []string{"track", "artist", "popularity"},
		Rows: [][]string{
			{"Hit", "X", "90"},
			{"Unknown Track", "Y", "70"},
		},
	}
}

func TestToText(t *testing.T) {
	out, err := ToText(sampleResult())
	if err != nil {
		t.Fatalf("failed to render text: %v", err)
	}

	text := string(out)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if !strings.HasPrefix(lines[0], "track") {
		t.Errorf("expected header line, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "---") {
		t.Errorf("expected separator line, got %q", lines[1])
	}
	if !strings.Contains(text, "(2 rows)") {
		t.Errorf("expected row count footer, got %q", text)
	}

	// Columns align on the widest cell
	if strings.Index(lines[0], "artist") != strings.Index(lines[2], "X") {
		t.Errorf("expected aligned columns:\n%q\n%q", lines[0], lines[2])
	}
}

func TestToText_NoColumns(t *testing.T) {
	if _, err := ToText(&analytics.Result{}); err == nil {
		t.Error("expected error for empty result")
	}
}

func TestToCSV(t *testing.T) {
	out, err := ToCSV(sampleResult())
	if err != nil {
		t.Fatalf("failed to render CSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if lines[0] != "track,artist,popularity" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[2] != "Unknown Track,Y,70" {
		t.Errorf("unexpected record: %q", lines[2])
	}
}

func TestToMarkdown(t *testing.T) {
	out, err := ToMarkdown(sampleResult())
	if err != nil {
		t.Fatalf("failed to render markdown: %v", err)
	}

	text := string(out)
	if !strings.HasPrefix(text, "## top-tracks") {
		t.Errorf("expected query name heading, got %q", text)
	}
	if !strings.Contains(text, "| track | artist | popularity |") {
		t.Errorf("expected header row, got %q", text)
	}
	if !strings.Contains(text, "| --- | --- | --- |") {
		t.Errorf("expected separator row, got %q", text)
	}
	if !strings.Contains(text, "| Hit | X | 90 |") {
		t.Errorf("expected data row, got %q", text)
	}
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(sampleResult())
	if err != nil {
		t.Fatalf("failed to render JSON: %v", err)
	}

	text := string(out)
	if !strings.Contains(text, `"track": "Hit"`) {
		t.Errorf("expected column-keyed objects, got %q", text)
	}
}

func TestRender(t *testing.T) {
	result := sampleResult()

	for _, format := range []string{"", "text", "csv", "markdown", "md", "json"} {
		if _, err := Render(result, format); err != nil {
			t.Errorf("format %q failed: %v", format, err)
		}
	}

	if _, err := Render(result, "yaml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
