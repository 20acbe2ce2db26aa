package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
)

// #region grid
// Grid draws the query as a boxed width×height grid with set cells filled.
func Grid(w io.Writer, snap session.Snapshot) error {
	var sb strings.Builder
	border := "+" + strings.Repeat("---+", snap.Width) + "\n"
	sb.WriteString("   ")
	for x := 0; x < snap.Width; x++ {
		fmt.Fprintf(&sb, " %d  ", x)
	}
	sb.WriteString("\n   " + border)
	for y := 0; y < snap.Height; y++ {
		fmt.Fprintf(&sb, "%2d |", y)
		for x := 0; x < snap.Width; x++ {
			idx := y*snap.Width + x
			if idx < snap.Query.Len() && snap.Query[idx] != 0 {
				sb.WriteString("###|")
			} else {
				sb.WriteString("   |")
			}
		}
		sb.WriteString("\n   " + border)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
// #endregion grid

// #region ranking
// Ranking writes one line per prototype: rank, label, score. At most limit
// rows are written; limit <= 0 writes all.
func Ranking(w io.Writer, ranking []prototype.Ranked, limit int) error {
	if limit <= 0 || limit > len(ranking) {
		limit = len(ranking)
	}
	var sb strings.Builder
	for i := 0; i < limit; i++ {
		marker := " "
		if i == 0 {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s %2d  %c  %8.4f\n", marker, i, ranking[i].Label, ranking[i].Score)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Labels writes the full ranked label row, best first.
func Labels(w io.Writer, ranking []prototype.Ranked) error {
	var sb strings.Builder
	for _, r := range ranking {
		sb.WriteRune(r.Label)
		sb.WriteByte(' ')
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(sb.String(), " "))
	return err
}
// #endregion ranking
