package eval

import "github.com/danielpatrickdp/pattern-recognition/internal/pattern"

// #region eval-config
// EvalConfig holds pass thresholds for a recall run.
type EvalConfig struct {
	MinAccuracy float64 // fail if overall accuracy is below this
	Workers     int
}

// DefaultEvalConfig requires every sample to classify as its own label.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinAccuracy: 1.0,
		Workers:     1,
	}
}
// #endregion eval-config

// #region sample
// Sample is one labeled input pattern.
type Sample struct {
	Label  rune
	Vector pattern.Vector
}
// #endregion sample

// #region eval-result
// EvalMetric is a single named measurement.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// Miss records a sample whose top match had a different label.
type Miss struct {
	Index     int
	Label     rune
	Predicted rune
	Margin    float64 // predicted score minus the best score of the true label
}

// EvalResult is the outcome of Run.
type EvalResult struct {
	Passed   bool
	Accuracy float64
	Metrics  []EvalMetric
	Misses   []Miss
	Reason   string
}
// #endregion eval-result
