package learning

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
)

// #region agree-policy
// AgreePolicy decides what a correction at rank 0 does, i.e. when the user
// confirms the current top guess.
type AgreePolicy string

const (
	// AgreeNoop leaves the store untouched. Pushing and pulling the same entry
	// by equal deltas cancels out, so this is the literal rule made explicit.
	AgreeNoop AgreePolicy = "noop"
	// AgreeReinforce applies only the push toward the query.
	AgreeReinforce AgreePolicy = "reinforce"
)

// ParseAgreePolicy maps a config string to a policy.
func ParseAgreePolicy(s string) (AgreePolicy, error) {
	switch AgreePolicy(s) {
	case AgreeNoop, AgreeReinforce:
		return AgreePolicy(s), nil
	case "":
		return AgreeNoop, nil
	}
	return "", fmt.Errorf("unknown agree policy %q: %w", s, pattern.ErrInvalidInput)
}
// #endregion agree-policy

// #region config
// Config holds the learning rate and the rank-0 policy.
type Config struct {
	LearningRate float64
	AgreePolicy  AgreePolicy
}

// DefaultConfig returns η = 0.3 with the no-op rank-0 policy.
func DefaultConfig() Config {
	return Config{
		LearningRate: 0.3,
		AgreePolicy:  AgreeNoop,
	}
}

// Validate rejects rates that cannot move a prototype toward the query. NaN
// and infinities are rejected too.
func (c Config) Validate() error {
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0) {
		return fmt.Errorf("learning rate %v must be positive and finite: %w", c.LearningRate, pattern.ErrInvalidInput)
	}
	if _, err := ParseAgreePolicy(string(c.AgreePolicy)); err != nil {
		return err
	}
	return nil
}
// #endregion config

// #region decision
// Decision records what Train did.
type Decision struct {
	Action string // "commit" | "reinforce" | "no_op"
	Reason string
}
// #endregion decision

// #region metrics
// Metrics captures the geometry of one update. Distances are to the query.
type Metrics struct {
	CorrectLabel  rune
	TopLabel      rune
	PushNorm      float64 // ‖Δ correct‖
	PullNorm      float64 // ‖Δ top‖
	CorrectBefore float64
	CorrectAfter  float64
	TopBefore     float64
	TopAfter      float64
}
// #endregion metrics

// #region result
// Result bundles everything returned by Train.
type Result struct {
	Decision Decision
	Metrics  Metrics
}
// #endregion result
