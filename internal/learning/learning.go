package learning

import (
	"fmt"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
)

// #region train
// Train applies the corrective perceptron step. correctIndex is a rank in the
// store's current order: the prototype the user asserts is the true class.
// With pi at correctIndex and pj at rank 0:
//
//	pi += η·q
//	pj -= η·q
//
// No other prototype and never the query is touched. Scores are stale until
// the store is ranked again.
func Train(store *prototype.Store, correctIndex int, query pattern.Vector, config Config) (Result, error) {
	if err := config.Validate(); err != nil {
		return Result{}, err
	}
	pi, err := store.At(correctIndex)
	if err != nil {
		return Result{}, fmt.Errorf("correct index: %w", err)
	}
	pj, err := store.At(0)
	if err != nil {
		return Result{}, fmt.Errorf("top rank: %w", err)
	}
	// Validate both lengths before touching either vector.
	if pi.Vector.Len() != query.Len() || pj.Vector.Len() != query.Len() {
		return Result{}, fmt.Errorf("query length %d does not match prototypes (%d, %d): %w",
			query.Len(), pi.Vector.Len(), pj.Vector.Len(), pattern.ErrInvalidInput)
	}

	eta := config.LearningRate
	step := eta * query.Norm()
	m := Metrics{CorrectLabel: pi.Label, TopLabel: pj.Label}
	m.CorrectBefore, _ = pi.Vector.Distance(query)
	m.TopBefore, _ = pj.Vector.Distance(query)

	var decision Decision
	switch {
	case correctIndex == 0 && config.AgreePolicy == AgreeReinforce:
		_ = pi.Vector.AddScaled(eta, query)
		m.PushNorm = step
		decision = Decision{Action: "reinforce", Reason: fmt.Sprintf("reinforced top guess %q", pi.Label)}
	case correctIndex == 0:
		decision = Decision{Action: "no_op", Reason: fmt.Sprintf("top guess %q confirmed", pi.Label)}
	default:
		_ = pi.Vector.AddScaled(eta, query)
		_ = pj.Vector.AddScaled(-eta, query)
		m.PushNorm = step
		m.PullNorm = step
		decision = Decision{
			Action: "commit",
			Reason: fmt.Sprintf("pushed %q toward input, pulled %q away", pi.Label, pj.Label),
		}
	}

	m.CorrectAfter, _ = pi.Vector.Distance(query)
	m.TopAfter, _ = pj.Vector.Distance(query)

	if decision.Action != "no_op" && step == 0 {
		decision = Decision{Action: "no_op", Reason: "zero query vector"}
	}

	return Result{Decision: decision, Metrics: m}, nil
}
// #endregion train
