package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
)

// #region errors
// DataFormatError reports a malformed dataset file. Line is 1-based; 0 means
// the problem is not tied to a single line.
type DataFormatError struct {
	Line int
	Msg  string
}

func (e *DataFormatError) Error() string {
	if e.Line == 0 {
		return "dataset: " + e.Msg
	}
	return fmt.Sprintf("dataset line %d: %s", e.Line, e.Msg)
}
// #endregion errors

// #region load
// Load parses records of the form
//
//	A
//	 ###
//	#   #
//	#####
//	#   #
//	#   #
//
// The first character of the label line is the class. Each of the following
// height lines is one grid row: a space is 0, anything else is 1. Short rows are
// padded with zeros. Blank lines between records are ignored.
func Load(r io.Reader, width, height int) ([]prototype.Entry, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", width, height, pattern.ErrInvalidInput)
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return strings.TrimRight(sc.Text(), "\r"), true
	}

	var entries []prototype.Entry
	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		label, _ := utf8.DecodeRuneInString(line)
		labelLine := lineNo

		vec := pattern.New(width * height)
		for y := 0; y < height; y++ {
			row, ok := next()
			if !ok {
				return nil, &DataFormatError{Line: labelLine, Msg: fmt.Sprintf("record %q ends after %d of %d rows", label, y, height)}
			}
			cells := []rune(row)
			if len(cells) > width {
				return nil, &DataFormatError{Line: lineNo, Msg: fmt.Sprintf("row has %d cells, grid width is %d", len(cells), width)}
			}
			for x, c := range cells {
				if c != ' ' {
					vec[y*width+x] = 1
				}
			}
		}
		entries = append(entries, prototype.Entry{Label: label, Vector: vec})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(entries) == 0 {
		return nil, &DataFormatError{Msg: "no records"}
	}
	return entries, nil
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string, width, height int) ([]prototype.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, width, height)
}
// #endregion load

// #region format
// Format writes entries back in the text format, thresholding each component
// at 0.5.
func Format(w io.Writer, entries []prototype.Entry, width int) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := fmt.Fprintf(bw, "%c\n", e.Label); err != nil {
			return err
		}
		for start := 0; start < e.Vector.Len(); start += width {
			var sb strings.Builder
			for x := 0; x < width && start+x < e.Vector.Len(); x++ {
				if e.Vector[start+x] >= 0.5 {
					sb.WriteByte('#')
				} else {
					sb.WriteByte(' ')
				}
			}
			if _, err := fmt.Fprintln(bw, strings.TrimRight(sb.String(), " ")); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
// #endregion format
