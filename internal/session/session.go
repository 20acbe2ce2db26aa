package session

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/pattern-recognition/internal/discriminant"
	"github.com/danielpatrickdp/pattern-recognition/internal/learning"
	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"github.com/danielpatrickdp/pattern-recognition/internal/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// #region session-struct
// Session owns the prototype store and the query vector. Every mutation is
// followed by exactly one rescore before the method returns. A Session is not
// safe for concurrent use.
type Session struct {
	id       string
	store    *prototype.Store
	query    *query.Controller
	engine   *discriminant.Engine
	learning learning.Config
	log      *zap.SugaredLogger
	recorder Recorder
	seq      int
}
// #endregion session-struct

// #region constructor
// New builds a session from loaded prototypes and scores them against the
// all-zero query.
func New(entries []prototype.Entry, opts Options) (*Session, error) {
	if err := opts.Learning.Validate(); err != nil {
		return nil, err
	}
	store, err := prototype.NewStore(entries)
	if err != nil {
		return nil, err
	}
	q, err := query.NewController(opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	if store.Dim() != opts.Width*opts.Height {
		return nil, fmt.Errorf("prototype length %d != grid %dx%d: %w",
			store.Dim(), opts.Width, opts.Height, pattern.ErrInvalidInput)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	id := opts.ID
	if id == "" {
		id = uuid.New().String()
	}
	s := &Session{
		id:       id,
		store:    store,
		query:    q,
		engine:   discriminant.NewEngine(opts.Workers),
		learning: opts.Learning,
		log:      log,
		recorder: opts.Recorder,
	}
	if err := s.rescore(); err != nil {
		return nil, err
	}
	s.log.Infow("session started", "session", s.id, "prototypes", store.Len(), "grid", fmt.Sprintf("%dx%d", opts.Width, opts.Height))
	return s, nil
}
// #endregion constructor

// #region mutations
// ToggleCell flips one query component and rescores.
func (s *Session) ToggleCell(index int) error {
	if err := s.query.Toggle(index); err != nil {
		return err
	}
	if err := s.rescore(); err != nil {
		return err
	}
	s.log.Debugw("toggle", "session", s.id, "index", index, "top", string(s.top().Label))
	return s.record(Event{Kind: EventToggle, Index: index})
}

// ToggleAt flips the cell at column x, row y.
func (s *Session) ToggleAt(x, y int) error {
	idx, err := s.query.Index(x, y)
	if err != nil {
		return err
	}
	return s.ToggleCell(idx)
}

// Correct trains with rank as the user-asserted class, then rescores.
func (s *Session) Correct(rank int) (learning.Result, error) {
	res, err := learning.Train(s.store, rank, s.query.Vector(), s.learning)
	if err != nil {
		return learning.Result{}, err
	}
	if err := s.rescore(); err != nil {
		return learning.Result{}, err
	}
	s.log.Infow("correction",
		"session", s.id,
		"rank", rank,
		"correct", string(res.Metrics.CorrectLabel),
		"was_top", string(res.Metrics.TopLabel),
		"now_top", string(s.top().Label),
		"decision", res.Decision.Action,
	)
	err = s.record(Event{
		Kind:     EventCorrect,
		Index:    rank,
		Label:    res.Metrics.CorrectLabel,
		Decision: res.Decision.Action,
	})
	return res, err
}

// Reset clears the query and rescores.
func (s *Session) Reset() error {
	s.query.Reset()
	if err := s.rescore(); err != nil {
		return err
	}
	s.log.Debugw("reset", "session", s.id)
	return s.record(Event{Kind: EventReset, Index: -1})
}
// #endregion mutations

// #region accessors
// ID returns the session's uuid.
func (s *Session) ID() string { return s.id }

// Ranking returns the current (label, score) sequence, best first.
func (s *Session) Ranking() []prototype.Ranked { return s.store.Ranking() }

// Query returns a copy of the current query vector.
func (s *Session) Query() pattern.Vector { return s.query.Snapshot() }

// Top returns the current best match.
func (s *Session) Top() prototype.Ranked { return s.top() }

// Width returns the grid width.
func (s *Session) Width() int { return s.query.Width() }

// Height returns the grid height.
func (s *Session) Height() int { return s.query.Height() }

// LearningConfig returns the active learning config.
func (s *Session) LearningConfig() learning.Config { return s.learning }

// CloneStore returns a deep copy of the prototype store.
func (s *Session) CloneStore() *prototype.Store { return s.store.Clone() }

// Snapshot returns everything a renderer may read.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:      s.id,
		Width:   s.query.Width(),
		Height:  s.query.Height(),
		Ranking: s.store.Ranking(),
		Query:   s.query.Snapshot(),
	}
}
// #endregion accessors

// #region helpers
func (s *Session) rescore() error {
	return s.engine.Rank(s.store, s.query.Vector())
}

func (s *Session) top() prototype.Ranked {
	p, _ := s.store.At(0)
	return prototype.Ranked{Label: p.Label, Score: p.Score}
}

func (s *Session) record(ev Event) error {
	s.seq++
	if s.recorder == nil {
		return nil
	}
	ev.SessionID = s.id
	ev.Seq = s.seq
	ev.TopLabel = s.top().Label
	ev.Query = s.query.Snapshot()
	ev.CreatedAt = time.Now().UTC()
	if err := s.recorder.Record(ev); err != nil {
		return fmt.Errorf("record %s: %w", ev.Kind, err)
	}
	return nil
}
// #endregion helpers
