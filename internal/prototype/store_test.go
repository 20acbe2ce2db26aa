package prototype

import (
	"errors"
	"testing"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
)

func sampleEntries() []Entry {
	return []Entry{
		{Label: 'A', Vector: pattern.Vector{1, 1, 0, 0}},
		{Label: 'B', Vector: pattern.Vector{0, 0, 1, 1}},
		{Label: 'C', Vector: pattern.Vector{1, 0, 1, 0}},
	}
}

func TestNewStorePreservesLoadOrder(t *testing.T) {
	s, err := NewStore(sampleEntries())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if s.Len() != 3 || s.Dim() != 4 {
		t.Fatalf("expected 3x4, got %dx%d", s.Len(), s.Dim())
	}
	if got := string(s.Labels()); got != "ABC" {
		t.Fatalf("expected ABC, got %s", got)
	}
}

func TestNewStoreCopiesVectors(t *testing.T) {
	entries := sampleEntries()
	s, err := NewStore(entries)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	p, _ := s.At(0)
	p.Vector[0] = 42
	if entries[0].Vector[0] != 1 {
		t.Fatal("store mutated caller's vector")
	}
}

func TestNewStoreRejectsBadInput(t *testing.T) {
	cases := map[string][]Entry{
		"empty":    nil,
		"zero dim": {{Label: 'A', Vector: pattern.Vector{}}},
		"mismatch": {{Label: 'A', Vector: pattern.Vector{1, 0}}, {Label: 'B', Vector: pattern.Vector{1}}},
	}
	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewStore(entries)
			if !errors.Is(err, pattern.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAtOutOfRange(t *testing.T) {
	s, _ := NewStore(sampleEntries())
	for _, rank := range []int{-1, 3} {
		if _, err := s.At(rank); !errors.Is(err, pattern.ErrInvalidInput) {
			t.Fatalf("rank %d: expected ErrInvalidInput, got %v", rank, err)
		}
	}
}

func TestSortByScoreStableOnTies(t *testing.T) {
	s, _ := NewStore(sampleEntries())
	s.Each(func(rank int, p *Prototype) {
		switch p.Label {
		case 'A', 'C':
			p.Score = 1
		case 'B':
			p.Score = 2
		}
	})
	s.SortByScore()
	if got := string(s.Labels()); got != "BAC" {
		t.Fatalf("expected BAC, got %s", got)
	}
	r := s.Ranking()
	if r[0].Label != 'B' || r[0].Score != 2 {
		t.Fatalf("unexpected top entry %+v", r[0])
	}
}

func TestCloneIsDeep(t *testing.T) {
	s, _ := NewStore(sampleEntries())
	c := s.Clone()
	p, _ := c.At(0)
	p.Vector[0] = -1
	p.Score = 7
	orig, _ := s.At(0)
	if orig.Vector[0] != 1 || orig.Score != 0 {
		t.Fatal("clone shares state with original")
	}
}
