package main

import (
	"fmt"

	"github.com/danielpatrickdp/pattern-recognition/internal/dataset"
	"github.com/danielpatrickdp/pattern-recognition/internal/eval"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"github.com/spf13/cobra"
)

func evalCmd() *cobra.Command {
	var samplesPath string
	var minAccuracy float64
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "check that the untrained prototypes classify a sample set",
		Long:  "Scores each sample (the dataset patterns themselves unless --samples is set) and reports recall per label.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Dataset.Path == "" {
				return fmt.Errorf("no dataset: set --dataset or dataset.path")
			}
			entries, err := dataset.LoadFile(cfg.Dataset.Path, cfg.Dataset.Width, cfg.Dataset.Height)
			if err != nil {
				return err
			}
			store, err := prototype.NewStore(entries)
			if err != nil {
				return err
			}
			sampleEntries := entries
			if samplesPath != "" {
				if sampleEntries, err = dataset.LoadFile(samplesPath, cfg.Dataset.Width, cfg.Dataset.Height); err != nil {
					return err
				}
			}

			ec := eval.DefaultEvalConfig()
			ec.MinAccuracy = minAccuracy
			ec.Workers = cfg.Scoring.Workers
			res, err := eval.Run(store, eval.SamplesFromEntries(sampleEntries), ec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range res.Metrics {
				mark := "ok"
				if !m.Pass {
					mark = "FAIL"
				}
				fmt.Fprintf(out, "%-12s %6.3f  %s\n", m.Name, m.Value, mark)
			}
			for _, m := range res.Misses {
				fmt.Fprintf(out, "miss #%d: %c classified as %c (margin %.4f)\n", m.Index, m.Label, m.Predicted, m.Margin)
			}
			if !res.Passed {
				return fmt.Errorf("eval failed: %s", res.Reason)
			}
			fmt.Fprintln(out, "eval passed")
			return nil
		},
	}
	addSessionFlags(cmd.Flags())
	cmd.Flags().StringVar(&samplesPath, "samples", "", "labeled sample file in dataset format")
	cmd.Flags().Float64Var(&minAccuracy, "min-accuracy", 1.0, "fail below this accuracy")
	return cmd
}
