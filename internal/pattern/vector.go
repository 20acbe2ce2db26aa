package pattern

import (
	"errors"
	"fmt"
	"math"
)

// #region errors
// ErrInvalidInput marks out-of-range indices and vector length mismatches.
var ErrInvalidInput = errors.New("invalid input")
// #endregion errors

// #region vector
// Vector is a fixed-length pattern of real components. Binary inputs use 0 and 1;
// trained prototypes hold arbitrary reals.
type Vector []float64

// New returns an all-zero vector of length n.
func New(n int) Vector {
	return make(Vector, n)
}

// Len returns the number of components.
func (v Vector) Len() int {
	return len(v)
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}
// #endregion vector

// #region arithmetic
// Dot returns Σ v_k·w_k.
func (v Vector) Dot(w Vector) (float64, error) {
	if err := sameLen(v, w); err != nil {
		return 0, err
	}
	var sum float64
	for k := range v {
		sum += v[k] * w[k]
	}
	return sum, nil
}

// SquaredNorm returns Σ |v_k|².
func (v Vector) SquaredNorm() float64 {
	var sum float64
	for _, x := range v {
		sum += math.Abs(x) * math.Abs(x)
	}
	return sum
}

// Norm returns the L2 norm.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.SquaredNorm())
}

// Add adds w to v in place.
func (v Vector) Add(w Vector) error {
	return v.AddScaled(1, w)
}

// Scale multiplies every component by s in place.
func (v Vector) Scale(s float64) {
	for k := range v {
		v[k] *= s
	}
}

// AddScaled applies v_k += s·w_k in place.
func (v Vector) AddScaled(s float64, w Vector) error {
	if err := sameLen(v, w); err != nil {
		return err
	}
	for k := range v {
		v[k] += s * w[k]
	}
	return nil
}

// Distance returns the Euclidean distance between v and w.
func (v Vector) Distance(w Vector) (float64, error) {
	if err := sameLen(v, w); err != nil {
		return 0, err
	}
	var sum float64
	for k := range v {
		d := v[k] - w[k]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
// #endregion arithmetic

// #region helpers
func sameLen(v, w Vector) error {
	if len(v) != len(w) {
		return fmt.Errorf("vector length %d != %d: %w", len(v), len(w), ErrInvalidInput)
	}
	return nil
}
// #endregion helpers
