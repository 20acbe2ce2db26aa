package query

import (
	"fmt"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
)

// #region controller
// Controller owns the user's binary input grid. Toggle and Reset are the only
// mutation paths.
type Controller struct {
	width  int
	height int
	vec    pattern.Vector
}

// NewController returns an all-zero width×height grid.
func NewController(width, height int) (*Controller, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", width, height, pattern.ErrInvalidInput)
	}
	return &Controller{width: width, height: height, vec: pattern.New(width * height)}, nil
}
// #endregion controller

// #region toggle
// Toggle flips component index between 0 and 1.
func (c *Controller) Toggle(index int) error {
	if index < 0 || index >= len(c.vec) {
		return fmt.Errorf("cell index %d out of range [0,%d): %w", index, len(c.vec), pattern.ErrInvalidInput)
	}
	if c.vec[index] == 0 {
		c.vec[index] = 1
	} else {
		c.vec[index] = 0
	}
	return nil
}

// ToggleCell flips the cell at column x, row y.
func (c *Controller) ToggleCell(x, y int) error {
	idx, err := c.Index(x, y)
	if err != nil {
		return err
	}
	return c.Toggle(idx)
}

// Index maps grid coordinates to a vector index.
func (c *Controller) Index(x, y int) (int, error) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0, fmt.Errorf("cell (%d,%d) outside %dx%d grid: %w", x, y, c.width, c.height, pattern.ErrInvalidInput)
	}
	return y*c.width + x, nil
}

// Reset zeroes every cell.
func (c *Controller) Reset() {
	for i := range c.vec {
		c.vec[i] = 0
	}
}
// #endregion toggle

// #region accessors
// Vector returns the live query vector. Callers must not mutate it.
func (c *Controller) Vector() pattern.Vector {
	return c.vec
}

// Snapshot returns a copy of the query vector.
func (c *Controller) Snapshot() pattern.Vector {
	return c.vec.Clone()
}

// Width returns the grid width.
func (c *Controller) Width() int { return c.width }

// Height returns the grid height.
func (c *Controller) Height() int { return c.height }
// #endregion accessors
