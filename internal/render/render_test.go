package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
)

func TestGridMarksSetCells(t *testing.T) {
	var buf bytes.Buffer
	snap := session.Snapshot{Width: 2, Height: 2, Query: pattern.Vector{1, 0, 0, 1}}
	if err := Grid(&buf, snap); err != nil {
		t.Fatalf("Grid: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// header, border, row0, border, row1, border
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}
	if lines[2] != " 0 |###|   |" {
		t.Fatalf("unexpected row 0 %q", lines[2])
	}
	if lines[4] != " 1 |   |###|" {
		t.Fatalf("unexpected row 1 %q", lines[4])
	}
}

func TestRankingLimit(t *testing.T) {
	var buf bytes.Buffer
	r := []prototype.Ranked{{Label: 'A', Score: 1}, {Label: 'B', Score: -1}, {Label: 'C', Score: -2}}
	if err := Ranking(&buf, r, 2); err != nil {
		t.Fatalf("Ranking: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(out, ">  0  A    1.0000") {
		t.Fatalf("unexpected top row %q", out)
	}
	if strings.Contains(out, "C") {
		t.Fatal("limit not applied")
	}
}

func TestLabels(t *testing.T) {
	var buf bytes.Buffer
	_ = Labels(&buf, []prototype.Ranked{{Label: '7'}, {Label: '1'}})
	if buf.String() != "7 1\n" {
		t.Fatalf("unexpected labels %q", buf.String())
	}
}
