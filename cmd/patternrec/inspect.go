package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/danielpatrickdp/pattern-recognition/internal/journal"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	var (
		sessionID string
		limit     int
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "list journaled sessions or one session's events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Journal.Path == "" {
				return fmt.Errorf("no journal: set --journal or journal.path")
			}
			store, err := journal.NewStore(cfg.Journal.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if sessionID != "" {
				events, err := store.Events(sessionID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, eventRows(events))
				}
				printEvents(out, events)
				return nil
			}

			sessions, err := store.ListSessions(limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, sessions)
			}
			printSessions(out, sessions)
			return nil
		},
	}
	cmd.Flags().String("journal", "", "SQLite journal path")
	cmd.Flags().StringVar(&sessionID, "session", "", "show events of one session")
	cmd.Flags().IntVar(&limit, "last", 20, "number of sessions to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "JSON output")
	return cmd
}

// eventRow is the JSON shape of an event; runes are written as strings.
type eventRow struct {
	Seq       int       `json:"seq"`
	Kind      string    `json:"kind"`
	Index     int       `json:"index"`
	Label     string    `json:"label,omitempty"`
	TopLabel  string    `json:"top_label,omitempty"`
	Decision  string    `json:"decision,omitempty"`
	Query     []float64 `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}

func eventRows(events []session.Event) []eventRow {
	rows := make([]eventRow, 0, len(events))
	for _, ev := range events {
		rows = append(rows, eventRow{
			Seq:       ev.Seq,
			Kind:      string(ev.Kind),
			Index:     ev.Index,
			Label:     runeString(ev.Label),
			TopLabel:  runeString(ev.TopLabel),
			Decision:  ev.Decision,
			Query:     ev.Query,
			CreatedAt: ev.CreatedAt,
		})
	}
	return rows
}

func runeString(r rune) string {
	if r == 0 {
		return ""
	}
	return string(r)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSessions(out io.Writer, sessions []journal.SessionSummary) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "no sessions")
		return
	}
	for _, s := range sessions {
		fmt.Fprintf(out, "%s  %s  %dx%d  rate=%.2f %-9s events=%d corrections=%d commits=%d  %s\n",
			s.SessionID, s.CreatedAt.Format(time.RFC3339), s.Width, s.Height,
			s.LearningRate, s.AgreePolicy, s.Events, s.Corrections, s.Commits, s.Dataset)
	}
}

func printEvents(out io.Writer, events []session.Event) {
	if len(events) == 0 {
		fmt.Fprintln(out, "no events")
		return
	}
	for _, ev := range events {
		fmt.Fprintf(out, "%3d  %-7s %3d  label=%-2s top=%-2s %s\n",
			ev.Seq, ev.Kind, ev.Index, runeString(ev.Label), runeString(ev.TopLabel), ev.Decision)
	}
}
