package replay

import (
	"fmt"

	"github.com/danielpatrickdp/pattern-recognition/internal/learning"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
)

// #region types
// Step is a single recorded interaction to re-apply.
type Step struct {
	Kind  session.EventKind
	Index int // cell index for toggle, rank for correct
}

// ReplayConfig is the grid and learning setup of the replayed session.
type ReplayConfig struct {
	Width    int
	Height   int
	Learning learning.Config
	Workers  int
}

// DefaultReplayConfig returns a 5×5 grid with default learning.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Width:    5,
		Height:   5,
		Learning: learning.DefaultConfig(),
		Workers:  1,
	}
}

// ReplayResult captures the session state after one step.
type ReplayResult struct {
	Step     int // 1-based
	Kind     session.EventKind
	Index    int
	Top      rune
	Ranking  []prototype.Ranked
	Decision string // correct steps only
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalSteps int
	Toggles    int
	Resets     int
	Commits    int
	NoOps      int
	Reinforces int
	FinalTop   rune
	TopChanges int
}
// #endregion types

// #region replay
// Replay builds a fresh session from entries and applies steps in order. It
// stops at the first failing step; results up to that step are returned with
// the error.
func Replay(entries []prototype.Entry, steps []Step, config ReplayConfig) ([]ReplayResult, error) {
	opts := session.DefaultOptions()
	opts.Width = config.Width
	opts.Height = config.Height
	opts.Learning = config.Learning
	opts.Workers = config.Workers

	sess, err := session.New(entries, opts)
	if err != nil {
		return nil, fmt.Errorf("build session: %w", err)
	}

	results := make([]ReplayResult, 0, len(steps))
	for i, st := range steps {
		r := ReplayResult{Step: i + 1, Kind: st.Kind, Index: st.Index}
		switch st.Kind {
		case session.EventToggle:
			err = sess.ToggleCell(st.Index)
		case session.EventCorrect:
			var res learning.Result
			res, err = sess.Correct(st.Index)
			r.Decision = res.Decision.Action
		case session.EventReset:
			err = sess.Reset()
		default:
			err = fmt.Errorf("unknown step kind %q", st.Kind)
		}
		if err != nil {
			return results, fmt.Errorf("step %d (%s %d): %w", i+1, st.Kind, st.Index, err)
		}
		r.Ranking = sess.Ranking()
		r.Top = r.Ranking[0].Label
		results = append(results, r)
	}
	return results, nil
}

// StepsFromEvents converts journaled events into replay steps.
func StepsFromEvents(events []session.Event) []Step {
	steps := make([]Step, 0, len(events))
	for _, ev := range events {
		steps = append(steps, Step{Kind: ev.Kind, Index: ev.Index})
	}
	return steps
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{TotalSteps: len(results)}
	var prev rune
	for i, r := range results {
		switch r.Kind {
		case session.EventToggle:
			s.Toggles++
		case session.EventReset:
			s.Resets++
		case session.EventCorrect:
			switch r.Decision {
			case "commit":
				s.Commits++
			case "reinforce":
				s.Reinforces++
			default:
				s.NoOps++
			}
		}
		if i > 0 && r.Top != prev {
			s.TopChanges++
		}
		prev = r.Top
		s.FinalTop = r.Top
	}
	return s
}
// #endregion replay
