package query

import (
	"errors"
	"testing"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
)

func TestNewControllerAllZero(t *testing.T) {
	c, err := NewController(5, 5)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if c.Vector().Len() != 25 {
		t.Fatalf("expected 25 cells, got %d", c.Vector().Len())
	}
	if !c.Vector().IsZero() {
		t.Fatal("expected all-zero initial query")
	}
}

func TestNewControllerRejectsEmptyGrid(t *testing.T) {
	if _, err := NewController(0, 5); !errors.Is(err, pattern.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestToggleTwiceRestores(t *testing.T) {
	c, _ := NewController(5, 5)
	for i := 0; i < 25; i++ {
		before := c.Vector()[i]
		if err := c.Toggle(i); err != nil {
			t.Fatalf("Toggle(%d): %v", i, err)
		}
		if c.Vector()[i] == before {
			t.Fatalf("Toggle(%d) did not flip", i)
		}
		if err := c.Toggle(i); err != nil {
			t.Fatalf("Toggle(%d): %v", i, err)
		}
		if c.Vector()[i] != before {
			t.Fatalf("Toggle(%d) twice: expected %v, got %v", i, before, c.Vector()[i])
		}
	}
}

func TestToggleOutOfRange(t *testing.T) {
	c, _ := NewController(5, 5)
	for _, idx := range []int{-1, 25} {
		if err := c.Toggle(idx); !errors.Is(err, pattern.ErrInvalidInput) {
			t.Fatalf("index %d: expected ErrInvalidInput, got %v", idx, err)
		}
	}
	if !c.Vector().IsZero() {
		t.Fatal("failed toggle must not mutate")
	}
}

func TestToggleCellMapsRowMajor(t *testing.T) {
	c, _ := NewController(5, 4)
	if err := c.ToggleCell(2, 3); err != nil {
		t.Fatalf("ToggleCell: %v", err)
	}
	if c.Vector()[17] != 1 {
		t.Fatal("expected index 3*5+2 to be set")
	}
	if err := c.ToggleCell(5, 0); !errors.Is(err, pattern.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for x=5, got %v", err)
	}
	if err := c.ToggleCell(0, 4); !errors.Is(err, pattern.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for y=4, got %v", err)
	}
}

func TestResetAndSnapshot(t *testing.T) {
	c, _ := NewController(2, 2)
	_ = c.Toggle(0)
	snap := c.Snapshot()
	c.Reset()
	if !c.Vector().IsZero() {
		t.Fatal("expected zero after reset")
	}
	if snap[0] != 1 {
		t.Fatal("snapshot should be independent of later mutation")
	}
}
