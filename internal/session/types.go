package session

import (
	"time"

	"github.com/danielpatrickdp/pattern-recognition/internal/learning"
	"github.com/danielpatrickdp/pattern-recognition/internal/pattern"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"go.uber.org/zap"
)

// #region event
// EventKind names a user interaction.
type EventKind string

const (
	EventToggle  EventKind = "toggle"
	EventCorrect EventKind = "correct"
	EventReset   EventKind = "reset"
)

// Event is one completed interaction, handed to the Recorder after rescoring.
type Event struct {
	SessionID string
	Seq       int
	Kind      EventKind
	Index     int  // cell index for toggle, rank for correct
	Label     rune // asserted class for correct
	TopLabel  rune // top guess after the event
	Decision  string
	Query     pattern.Vector
	CreatedAt time.Time
}

// Recorder receives events in order. The journal implements it.
type Recorder interface {
	Record(ev Event) error
}
// #endregion event

// #region options
// Options configures a session.
type Options struct {
	ID       string // empty generates a uuid
	Width    int
	Height   int
	Learning learning.Config
	Workers  int
	Logger   *zap.SugaredLogger
	Recorder Recorder
}

// DefaultOptions returns a 5×5 grid with the default learning config.
func DefaultOptions() Options {
	return Options{
		Width:    5,
		Height:   5,
		Learning: learning.DefaultConfig(),
		Workers:  1,
	}
}
// #endregion options

// #region snapshot
// Snapshot is the read-only state exposed to renderers.
type Snapshot struct {
	ID      string
	Width   int
	Height  int
	Ranking []prototype.Ranked
	Query   pattern.Vector
}
// #endregion snapshot
