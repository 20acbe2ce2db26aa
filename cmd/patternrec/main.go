package main

import (
	"fmt"
	"os"

	"github.com/danielpatrickdp/pattern-recognition/internal/config"
	"github.com/danielpatrickdp/pattern-recognition/internal/dataset"
	"github.com/danielpatrickdp/pattern-recognition/internal/journal"
	"github.com/danielpatrickdp/pattern-recognition/internal/logging"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// #region root
var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "patternrec",
		Short:         "prototype classifier demo for small binary grids",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default patternrec.yaml in $PATTERNREC_CFG_PATH or .)")
	root.PersistentFlags().String("log-level", "INFO", "DEBUG | INFO | WARN | ERROR")
	root.AddCommand(demoCmd(), serveCmd(), remoteCmd(), replayCmd(), inspectCmd(), evalCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
// #endregion root

// #region flags
// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"dataset":   "dataset.path",
	"width":     "dataset.width",
	"height":    "dataset.height",
	"rate":      "learning.rate",
	"agree":     "learning.agree_policy",
	"workers":   "scoring.workers",
	"journal":   "journal.path",
	"addr":      "server.addr",
	"log-level": "log.level",
}

func addSessionFlags(fs *pflag.FlagSet) {
	fs.String("dataset", "", "dataset file (label line followed by grid rows)")
	fs.Int("width", 5, "grid width")
	fs.Int("height", 5, "grid height")
	fs.Float64("rate", 0.3, "learning rate")
	fs.String("agree", "noop", "rank-0 correction policy: noop | reinforce")
	fs.Int("workers", 1, "scoring goroutines")
	fs.String("journal", "", "SQLite journal path (empty disables)")
}

// loadConfig resolves config for cmd and applies its log section.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	bound := map[string]*pflag.Flag{}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			bound[key] = f
		}
	}
	cfg, err := config.Load(cfgFile, bound)
	if err != nil {
		return nil, err
	}
	if err := logging.SetConfig(cfg.LoggingConfig()); err != nil {
		return nil, err
	}
	return cfg, nil
}
// #endregion flags

// #region session-setup
// openSession loads the dataset and, if configured, binds a journal.
// The returned cleanup closes the journal.
func openSession(cfg *config.Config) (*session.Session, func(), error) {
	log := logging.GetLogger(logging.ModuleCLI)
	if cfg.Dataset.Path == "" {
		return nil, nil, fmt.Errorf("no dataset: set --dataset or dataset.path")
	}
	entries, err := dataset.LoadFile(cfg.Dataset.Path, cfg.Dataset.Width, cfg.Dataset.Height)
	if err != nil {
		return nil, nil, err
	}
	lc, err := cfg.LearningConfig()
	if err != nil {
		return nil, nil, err
	}

	opts := session.DefaultOptions()
	opts.ID = uuid.New().String()
	opts.Width = cfg.Dataset.Width
	opts.Height = cfg.Dataset.Height
	opts.Learning = lc
	opts.Workers = cfg.Scoring.Workers
	opts.Logger = logging.GetLogger(logging.ModuleSession)

	cleanup := func() {}
	if cfg.Journal.Path != "" {
		j, err := journal.NewStore(cfg.Journal.Path)
		if err != nil {
			return nil, nil, err
		}
		err = j.StartSession(journal.SessionRecord{
			SessionID:    opts.ID,
			Dataset:      cfg.Dataset.Path,
			Width:        opts.Width,
			Height:       opts.Height,
			LearningRate: lc.LearningRate,
			AgreePolicy:  string(lc.AgreePolicy),
		})
		if err != nil {
			j.Close()
			return nil, nil, err
		}
		opts.Recorder = j
		cleanup = func() {
			if err := j.Close(); err != nil {
				log.Warnf("close journal: %v", err)
			}
		}
		log.Infof("journaling session %s to %s", opts.ID, cfg.Journal.Path)
	}

	sess, err := session.New(entries, opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return sess, cleanup, nil
}
// #endregion session-setup
