package eval

import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/pattern-recognition/internal/discriminant"
	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
)

// #region eval-harness
// Run classifies every sample against its own clone of store and reports
// accuracy overall and per label. Each sample starts from the store's current
// order, so ties never depend on earlier samples. The caller's store is never
// reordered or rescored.
func Run(store *prototype.Store, samples []Sample, config EvalConfig) (EvalResult, error) {
	if len(samples) == 0 {
		return EvalResult{}, fmt.Errorf("no samples: %w", pattern.ErrInvalidInput)
	}
	engine := discriminant.NewEngine(config.Workers)

	type tally struct{ hit, total int }
	perLabel := map[rune]*tally{}
	var misses []Miss
	hits := 0

	for i, s := range samples {
		work := store.Clone()
		if err := engine.Rank(work, s.Vector); err != nil {
			return EvalResult{}, fmt.Errorf("sample %d (%q): %w", i, s.Label, err)
		}
		ranking := work.Ranking()
		t := perLabel[s.Label]
		if t == nil {
			t = &tally{}
			perLabel[s.Label] = t
		}
		t.total++
		if ranking[0].Label == s.Label {
			t.hit++
			hits++
			continue
		}
		miss := Miss{Index: i, Label: s.Label, Predicted: ranking[0].Label}
		for _, r := range ranking {
			if r.Label == s.Label {
				miss.Margin = ranking[0].Score - r.Score
				break
			}
		}
		misses = append(misses, miss)
	}

	accuracy := float64(hits) / float64(len(samples))
	passed := accuracy >= config.MinAccuracy
	metrics := []EvalMetric{{Name: "accuracy", Value: accuracy, Pass: passed}}

	labels := make([]rune, 0, len(perLabel))
	for l := range perLabel {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	for _, l := range labels {
		t := perLabel[l]
		v := float64(t.hit) / float64(t.total)
		metrics = append(metrics, EvalMetric{
			Name:  fmt.Sprintf("recall_%c", l),
			Value: v,
			Pass:  v >= config.MinAccuracy,
		})
	}

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("eval failed: accuracy %.4f below %.4f (%d misses)", accuracy, config.MinAccuracy, len(misses))
	}
	return EvalResult{
		Passed:   passed,
		Accuracy: accuracy,
		Metrics:  metrics,
		Misses:   misses,
		Reason:   reason,
	}, nil
}

// SamplesFromEntries turns loaded prototypes into self-recall samples.
func SamplesFromEntries(entries []prototype.Entry) []Sample {
	out := make([]Sample, len(entries))
	for i, e := range entries {
		out[i] = Sample{Label: e.Label, Vector: e.Vector.Clone()}
	}
	return out
}
// #endregion eval-harness
