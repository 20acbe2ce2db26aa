package discriminant

import (
	"fmt"

	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"golang.org/x/sync/errgroup"
)

// #region score
// Score is the minimum-distance linear discriminant
//
//	g(v, q) = -0.5·Σ|v_k|² + Σ v_k·q_k
//
// The -0.5·‖q‖² term is common to every prototype and omitted.
func Score(v, query pattern.Vector) (float64, error) {
	dot, err := v.Dot(query)
	if err != nil {
		return 0, err
	}
	return -0.5*v.SquaredNorm() + dot, nil
}
// #endregion score

// #region engine
// Engine rescores a store and re-sorts it. With Workers > 1 prototypes are scored
// concurrently; each goroutine owns exactly one prototype's Score field and the
// sort runs only after all of them finish.
type Engine struct {
	Workers int
}

// NewEngine returns an engine; workers < 1 means sequential scoring.
func NewEngine(workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{Workers: workers}
}

// Rank updates every prototype's score against query and sorts the store by
// descending score. Ties keep their previous rank order.
func (e *Engine) Rank(store *prototype.Store, query pattern.Vector) error {
	if query.Len() != store.Dim() {
		return fmt.Errorf("query length %d != prototype length %d: %w", query.Len(), store.Dim(), pattern.ErrInvalidInput)
	}

	var err error
	if e.Workers <= 1 || store.Len() < 2 {
		err = rankSequential(store, query)
	} else {
		err = rankParallel(store, query, e.Workers)
	}
	if err != nil {
		return err
	}

	store.SortByScore()
	return nil
}
// #endregion engine

// #region passes
func rankSequential(store *prototype.Store, query pattern.Vector) error {
	var firstErr error
	store.Each(func(rank int, p *prototype.Prototype) {
		if firstErr != nil {
			return
		}
		s, err := Score(p.Vector, query)
		if err != nil {
			firstErr = fmt.Errorf("score %q: %w", p.Label, err)
			return
		}
		p.Score = s
	})
	return firstErr
}

func rankParallel(store *prototype.Store, query pattern.Vector, workers int) error {
	var g errgroup.Group
	g.SetLimit(workers)

	store.Each(func(rank int, p *prototype.Prototype) {
		g.Go(func() error {
			s, err := Score(p.Vector, query)
			if err != nil {
				return fmt.Errorf("score %q: %w", p.Label, err)
			}
			p.Score = s
			return nil
		})
	})
	return g.Wait()
}
// #endregion passes
