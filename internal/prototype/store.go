package prototype

import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
)

// #region store-struct
// Store is the ordered prototype collection. Position is the current rank.
// The set of labels and the entry count never change after construction.
type Store struct {
	entries []*Prototype
	dim     int
}
// #endregion store-struct

// #region constructor
// NewStore builds a store in load order. All vectors must share one non-zero length.
// Vectors are copied so the caller's slices are never mutated.
func NewStore(entries []Entry) (*Store, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("empty prototype set: %w", pattern.ErrInvalidInput)
	}
	dim := entries[0].Vector.Len()
	if dim == 0 {
		return nil, fmt.Errorf("prototype %q has empty vector: %w", entries[0].Label, pattern.ErrInvalidInput)
	}
	s := &Store{entries: make([]*Prototype, 0, len(entries)), dim: dim}
	for i, e := range entries {
		if e.Vector.Len() != dim {
			return nil, fmt.Errorf("prototype %d (%q) has length %d, want %d: %w",
				i, e.Label, e.Vector.Len(), dim, pattern.ErrInvalidInput)
		}
		s.entries = append(s.entries, &Prototype{Label: e.Label, Vector: e.Vector.Clone()})
	}
	return s, nil
}
// #endregion constructor

// #region accessors
// Len returns the number of prototypes.
func (s *Store) Len() int {
	return len(s.entries)
}

// Dim returns the shared vector length.
func (s *Store) Dim() int {
	return s.dim
}

// At returns the prototype at the given rank.
func (s *Store) At(rank int) (*Prototype, error) {
	if rank < 0 || rank >= len(s.entries) {
		return nil, fmt.Errorf("rank %d out of range [0,%d): %w", rank, len(s.entries), pattern.ErrInvalidInput)
	}
	return s.entries[rank], nil
}

// Each calls fn for every prototype in rank order.
func (s *Store) Each(fn func(rank int, p *Prototype)) {
	for i, p := range s.entries {
		fn(i, p)
	}
}

// Ranking returns the current (label, score) sequence in rank order.
func (s *Store) Ranking() []Ranked {
	out := make([]Ranked, len(s.entries))
	for i, p := range s.entries {
		out[i] = Ranked{Label: p.Label, Score: p.Score}
	}
	return out
}

// Labels returns labels in rank order.
func (s *Store) Labels() []rune {
	out := make([]rune, len(s.entries))
	for i, p := range s.entries {
		out[i] = p.Label
	}
	return out
}
// #endregion accessors

// #region ordering
// SortByScore reorders entries by descending score. Equal scores keep their
// previous relative order.
func (s *Store) SortByScore() {
	sort.SliceStable(s.entries, func(i, j int) bool {
		return s.entries[i].Score > s.entries[j].Score
	})
}
// #endregion ordering

// #region clone
// Clone returns a deep copy, used by evaluation so scoring never disturbs a live session.
func (s *Store) Clone() *Store {
	c := &Store{entries: make([]*Prototype, len(s.entries)), dim: s.dim}
	for i, p := range s.entries {
		c.entries[i] = &Prototype{Label: p.Label, Score: p.Score, Vector: p.Vector.Clone()}
	}
	return c
}
// #endregion clone
