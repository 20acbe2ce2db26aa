package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/pattern-recognition/internal/dataset"
	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"github.com/danielpatrickdp/pattern-recognition/internal/render"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
	"github.com/spf13/cobra"
)

// #region command
func demoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "interactive terminal session",
		Long:  "Toggle grid cells and correct the classifier from the terminal.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sess, cleanup, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			return runDemo(sess, os.Stdin, cmd.OutOrStdout())
		},
	}
	addSessionFlags(cmd.Flags())
	return cmd
}
// #endregion command

// #region loop
const demoHelp = `commands:
  t X Y   toggle cell at column X, row Y
  i N     toggle cell index N
  c R     the prototype at rank R is the right class
  r       reset the grid
  s       show grid and ranking
  w FILE  write the trained prototypes (thresholded at 0.5) in dataset format
  q       quit`

// runDemo reads commands until EOF or quit. Invalid input is reported and the
// loop continues; any other error ends the session.
func runDemo(sess *session.Session, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, demoHelp)
	lc := sess.LearningConfig()
	fmt.Fprintf(out, "session %s  rate=%g  agree=%s\n", sess.ID(), lc.LearningRate, lc.AgreePolicy)
	if err := show(sess, out); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "q", "quit", "exit":
			return nil
		case "h", "help":
			fmt.Fprintln(out, demoHelp)
			continue
		case "s":
		case "w":
			if len(fields) != 2 {
				err = fmt.Errorf("w needs a file name: %w", pattern.ErrInvalidInput)
				break
			}
			if werr := exportPrototypes(sess, fields[1]); werr != nil {
				fmt.Fprintf(out, "write failed: %v\n", werr)
			} else {
				fmt.Fprintf(out, "wrote %s\n", fields[1])
			}
			continue
		case "r":
			err = sess.Reset()
		case "t":
			var xy []int
			if xy, err = ints(fields[1:], 2); err == nil {
				err = sess.ToggleAt(xy[0], xy[1])
			}
		case "i":
			var n []int
			if n, err = ints(fields[1:], 1); err == nil {
				err = sess.ToggleCell(n[0])
			}
		case "c":
			var n []int
			if n, err = ints(fields[1:], 1); err == nil {
				res, cerr := sess.Correct(n[0])
				err = cerr
				if err == nil {
					fmt.Fprintf(out, "%s: %s\n", res.Decision.Action, res.Decision.Reason)
				}
			}
		default:
			err = fmt.Errorf("unknown command %q: %w", fields[0], pattern.ErrInvalidInput)
		}

		if err != nil {
			if errors.Is(err, pattern.ErrInvalidInput) {
				fmt.Fprintf(out, "invalid: %v\n", err)
				continue
			}
			return err
		}
		if err := show(sess, out); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func show(sess *session.Session, out io.Writer) error {
	snap := sess.Snapshot()
	if err := render.Grid(out, snap); err != nil {
		return err
	}
	if err := render.Labels(out, snap.Ranking); err != nil {
		return err
	}
	return render.Ranking(out, snap.Ranking, 5)
}

// exportPrototypes writes the session's prototypes in rank order.
func exportPrototypes(sess *session.Session, path string) error {
	store := sess.CloneStore()
	entries := make([]prototype.Entry, 0, store.Len())
	store.Each(func(_ int, p *prototype.Prototype) {
		entries = append(entries, prototype.Entry{Label: p.Label, Vector: p.Vector})
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.Format(f, entries, sess.Width()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ints(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d: %w", n, len(args), pattern.ErrInvalidInput)
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number: %w", a, pattern.ErrInvalidInput)
		}
		out[i] = v
	}
	return out, nil
}
// #endregion loop
