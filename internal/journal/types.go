package journal

import "time"

// #region session-record
// SessionRecord describes one demo run: which dataset it started from and
// which learning parameters were active.
type SessionRecord struct {
	SessionID    string    `json:"session_id"`
	Dataset      string    `json:"dataset"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	LearningRate float64   `json:"learning_rate"`
	AgreePolicy  string    `json:"agree_policy"`
	CreatedAt    time.Time `json:"created_at"`
}
// #endregion session-record

// #region session-summary
// SessionSummary pairs a session with aggregate event counts.
type SessionSummary struct {
	SessionRecord
	Events      int `json:"events"`
	Corrections int `json:"corrections"`
	Commits     int `json:"commits"`
}
// #endregion session-summary
