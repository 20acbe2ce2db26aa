package prototype

import "github.com/danielpatrickdp/pattern-recognition/internal/pattern"

// #region prototype
// Prototype is one labeled class reference. Score is only meaningful after a
// scoring pass.
type Prototype struct {
	Label  rune
	Score  float64
	Vector pattern.Vector
}
// #endregion prototype

// #region entry
// Entry is what a dataset loader supplies for one class.
type Entry struct {
	Label  rune
	Vector pattern.Vector
}
// #endregion entry

// #region ranked
// Ranked is the read-only (label, score) view handed to renderers.
type Ranked struct {
	Label rune    `json:"label"`
	Score float64 `json:"score"`
}
// #endregion ranked
