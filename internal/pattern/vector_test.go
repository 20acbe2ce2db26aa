package pattern

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDot(t *testing.T) {
	got, err := Vector{1, 2, 3}.Dot(Vector{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 32.0, got)
}

func TestDotLengthMismatch(t *testing.T) {
	_, err := Vector{1, 2}.Dot(Vector{1, 2, 3})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSquaredNormNegativeComponents(t *testing.T) {
	v := Vector{-0.3, 0.7, 0, 1}
	assert.InDelta(t, 0.09+0.49+1, v.SquaredNorm(), 1e-12)
}

func TestAddScaledInPlace(t *testing.T) {
	v := Vector{1, 1, 0, 0}
	require.NoError(t, v.AddScaled(-0.3, Vector{1, 1, 0, 0}))
	assert.InDeltaSlice(t, []float64{0.7, 0.7, 0, 0}, []float64(v), 1e-12)

	err := v.AddScaled(1, Vector{1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddAndScale(t *testing.T) {
	v := Vector{1, 2}
	require.NoError(t, v.Add(Vector{1, 1}))
	v.Scale(0.5)
	assert.Equal(t, Vector{1, 1.5}, v)
}

func TestDistance(t *testing.T) {
	d, err := Vector{0, 0}.Distance(Vector{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, d, 1e-12)
}

func TestCloneIsIndependent(t *testing.T) {
	v := Vector{1, 0, 1}
	c := v.Clone()
	c[0] = 9
	assert.Equal(t, 1.0, v[0])
}

func TestIsZero(t *testing.T) {
	assert.False(t, Vector{1, 0, 1}.IsZero())
	assert.True(t, New(4).IsZero())
}
