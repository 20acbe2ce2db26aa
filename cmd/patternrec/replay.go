package main

import (
	"fmt"
	"io"

	"github.com/danielpatrickdp/pattern-recognition/internal/dataset"
	"github.com/danielpatrickdp/pattern-recognition/internal/journal"
	"github.com/danielpatrickdp/pattern-recognition/internal/learning"
	"github.com/danielpatrickdp/pattern-recognition/internal/replay"
	"github.com/spf13/cobra"
)

func replayCmd() *cobra.Command {
	var fixturePath, sessionID string
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "re-run a fixture or a journaled session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if fixturePath != "" {
				return replayFixture(out, fixturePath)
			}
			if cfg.Journal.Path == "" || sessionID == "" {
				return fmt.Errorf("need --fixture, or --journal with --session")
			}
			return replayJournal(out, cfg.Journal.Path, sessionID, cfg.Dataset.Path)
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "YAML fixture file")
	cmd.Flags().StringVar(&sessionID, "session", "", "journaled session ID")
	cmd.Flags().String("journal", "", "SQLite journal path")
	cmd.Flags().String("dataset", "", "dataset file (defaults to the one the session recorded)")
	return cmd
}

func replayFixture(out io.Writer, path string) error {
	fx, err := replay.LoadFixture(path)
	if err != nil {
		return err
	}
	results, mismatches, err := fx.Run()
	printResults(out, results)
	if err != nil {
		return err
	}
	printSummary(out, replay.Summarize(results))
	for _, m := range mismatches {
		fmt.Fprintf(out, "MISMATCH %s\n", m)
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d expectation(s) failed", len(mismatches))
	}
	fmt.Fprintln(out, "fixture OK")
	return nil
}

func replayJournal(out io.Writer, dbPath, sessionID, datasetPath string) error {
	store, err := journal.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.GetSession(sessionID)
	if err != nil {
		return err
	}
	events, err := store.Events(sessionID)
	if err != nil {
		return err
	}
	if datasetPath == "" {
		datasetPath = rec.Dataset
	}
	entries, err := dataset.LoadFile(datasetPath, rec.Width, rec.Height)
	if err != nil {
		return err
	}
	policy, err := learning.ParseAgreePolicy(rec.AgreePolicy)
	if err != nil {
		return err
	}
	rc := replay.DefaultReplayConfig()
	rc.Width = rec.Width
	rc.Height = rec.Height
	rc.Learning = learning.Config{LearningRate: rec.LearningRate, AgreePolicy: policy}

	results, err := replay.Replay(entries, replay.StepsFromEvents(events), rc)
	printResults(out, results)
	if err != nil {
		return err
	}
	printSummary(out, replay.Summarize(results))

	// The journal records the top label after each event; a replay that
	// disagrees means the dataset or learning setup changed.
	for i, r := range results {
		if want := events[i].TopLabel; want != 0 && want != r.Top {
			fmt.Fprintf(out, "DRIFT step %d: journal top %c, replay top %c\n", r.Step, want, r.Top)
		}
	}
	return nil
}

func printResults(out io.Writer, results []replay.ReplayResult) {
	for _, r := range results {
		line := fmt.Sprintf("%3d  %-7s %3d  top=%c", r.Step, r.Kind, r.Index, r.Top)
		if r.Decision != "" {
			line += "  " + r.Decision
		}
		fmt.Fprintln(out, line)
	}
}

func printSummary(out io.Writer, s replay.ReplaySummary) {
	fmt.Fprintf(out, "steps=%d toggles=%d resets=%d commits=%d reinforces=%d no_ops=%d top_changes=%d final=%c\n",
		s.TotalSteps, s.Toggles, s.Resets, s.Commits, s.Reinforces, s.NoOps, s.TopChanges, s.FinalTop)
}
