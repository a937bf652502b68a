package ui

import (
	"strings"
	"testing"

	"github.com/datalocus/locus/internal/table"
)

func TestSuccessAndError(t *testing.T) {
	if got := Success("done"); got != "✓ done" {
		t.Errorf("Success = %q", got)
	}
	if got := Errorf("bad %s", "uri"); got != "✗ bad uri" {
		t.Errorf("Errorf = %q", got)
	}
}

func TestCount(t *testing.T) {
	if got := Count(1, "dataset", "datasets"); got != "(1 dataset)" {
		t.Errorf("Count = %q", got)
	}
	if got := Count(3, "dataset", "datasets"); got != "(3 datasets)" {
		t.Errorf("Count = %q", got)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"fits", "short", 10, "short"},
		{"tiny width", "abcdef", 3, "abc"},
		{"word boundary", "hello wonderful world", 14, "hello..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateWithEllipsis(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("TruncateWithEllipsis(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestColumnsAlignment(t *testing.T) {
	c := NewColumns(2)
	c.AddRow("my-experiment", "12 locations")
	c.AddRow("tiny", "1 location")

	out := c.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "my-experiment  12 locations") {
		t.Errorf("row 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "tiny           1 location") {
		t.Errorf("row 1 = %q", lines[1])
	}
}

func TestRenderTable(t *testing.T) {
	tbl := table.New("location", "stain")
	tbl.AppendRow("1", "dapi")

	out := RenderTable(NewDisplayContextWithWidth(80), tbl)
	for _, want := range []string{"location", "stain", "dapi"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if out := RenderTable(NewDisplayContextWithWidth(80), table.New()); out != "" {
		t.Errorf("output = %q, want empty", out)
	}
}

func TestColumnWidthsShrinkToTerminal(t *testing.T) {
	tbl := table.New("a", "b")
	tbl.AppendRow(strings.Repeat("x", 60), strings.Repeat("y", 60))

	widths := columnWidths(NewDisplayContextWithWidth(40), tbl)
	total := widths[0] + widths[1]
	if total > 40 {
		t.Errorf("widths = %v exceed terminal width", widths)
	}
	for i, w := range widths {
		if w < 4 {
			t.Errorf("column %d collapsed to %d", i, w)
		}
	}
}
