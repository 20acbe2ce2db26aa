package replay

import (
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/pattern-recognition/internal/dataset"
	"github.com/danielpatrickdp/pattern-recognition/internal/learning"
	"github.com/danielpatrickdp/pattern-recognition/internal/prototype"
	"github.com/danielpatrickdp/pattern-recognition/internal/session"
	"gopkg.in/yaml.v3"
)

// #region fixture-types

// Fixture is the top-level YAML structure for a replay fixture.
type Fixture struct {
	Description  string             `yaml:"description"`
	Width        int                `yaml:"width"`
	Height       int                `yaml:"height"`
	LearningRate float64            `yaml:"learning_rate"`
	AgreePolicy  string             `yaml:"agree_policy"`
	Prototypes   []FixturePrototype `yaml:"prototypes"`
	Steps        []FixtureStep      `yaml:"steps"`
	Expected     []FixtureExpected  `yaml:"expected"`
}

// FixturePrototype is one class drawn as grid rows in the dataset text format.
type FixturePrototype struct {
	Label string   `yaml:"label"`
	Rows  []string `yaml:"rows"`
}

// FixtureStep holds exactly one of its fields.
type FixtureStep struct {
	Toggle  *int  `yaml:"toggle,omitempty"`
	Cell    []int `yaml:"cell,omitempty"`
	Correct *int  `yaml:"correct,omitempty"`
	Reset   bool  `yaml:"reset,omitempty"`
}

// FixtureExpected asserts the state after a 1-based step.
type FixtureExpected struct {
	Step     int    `yaml:"step"`
	Top      string `yaml:"top,omitempty"`
	Ranking  string `yaml:"ranking,omitempty"` // labels best first, e.g. "BA"
	Decision string `yaml:"decision,omitempty"`
}

// Mismatch is a failed expectation.
type Mismatch struct {
	Step  int
	Field string
	Want  string
	Got   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("step %d %s: want %q, got %q", m.Step, m.Field, m.Want, m.Got)
}
// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture YAML.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

// Entries renders the fixture prototypes through the dataset loader.
func (f *Fixture) Entries() ([]prototype.Entry, error) {
	var sb strings.Builder
	for i, p := range f.Prototypes {
		if p.Label == "" {
			return nil, fmt.Errorf("prototype %d: empty label", i)
		}
		if len(p.Rows) != f.Height {
			return nil, fmt.Errorf("prototype %q: %d rows, want %d", p.Label, len(p.Rows), f.Height)
		}
		sb.WriteString(p.Label + "\n")
		for _, row := range p.Rows {
			sb.WriteString(row + "\n")
		}
	}
	return dataset.Load(strings.NewReader(sb.String()), f.Width, f.Height)
}

// ReplayConfig converts fixture settings, filling defaults for zero values.
func (f *Fixture) ReplayConfig() (ReplayConfig, error) {
	cfg := DefaultReplayConfig()
	cfg.Width, cfg.Height = f.Width, f.Height
	if f.LearningRate != 0 {
		cfg.Learning.LearningRate = f.LearningRate
	}
	policy, err := learning.ParseAgreePolicy(f.AgreePolicy)
	if err != nil {
		return ReplayConfig{}, err
	}
	cfg.Learning.AgreePolicy = policy
	return cfg, nil
}

// ReplaySteps converts fixture steps; cell coordinates map row-major.
func (f *Fixture) ReplaySteps() ([]Step, error) {
	steps := make([]Step, 0, len(f.Steps))
	for i, fs := range f.Steps {
		set := 0
		var st Step
		if fs.Toggle != nil {
			set++
			st = Step{Kind: session.EventToggle, Index: *fs.Toggle}
		}
		if fs.Cell != nil {
			set++
			if len(fs.Cell) != 2 {
				return nil, fmt.Errorf("step %d: cell needs [x, y]", i+1)
			}
			x, y := fs.Cell[0], fs.Cell[1]
			if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
				return nil, fmt.Errorf("step %d: cell (%d,%d) outside %dx%d grid", i+1, x, y, f.Width, f.Height)
			}
			st = Step{Kind: session.EventToggle, Index: y*f.Width + x}
		}
		if fs.Correct != nil {
			set++
			st = Step{Kind: session.EventCorrect, Index: *fs.Correct}
		}
		if fs.Reset {
			set++
			st = Step{Kind: session.EventReset, Index: -1}
		}
		if set != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one of toggle, cell, correct, reset", i+1)
		}
		steps = append(steps, st)
	}
	return steps, nil
}

// Run replays the fixture and verifies its expectations.
func (f *Fixture) Run() ([]ReplayResult, []Mismatch, error) {
	entries, err := f.Entries()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := f.ReplayConfig()
	if err != nil {
		return nil, nil, err
	}
	steps, err := f.ReplaySteps()
	if err != nil {
		return nil, nil, err
	}
	results, err := Replay(entries, steps, cfg)
	if err != nil {
		return results, nil, err
	}
	return results, Verify(results, f.Expected), nil
}
// #endregion fixture-loader

// #region verify

// Verify checks results against expectations.
func Verify(results []ReplayResult, expected []FixtureExpected) []Mismatch {
	var out []Mismatch
	for _, exp := range expected {
		if exp.Step < 1 || exp.Step > len(results) {
			out = append(out, Mismatch{Step: exp.Step, Field: "step", Want: "in range", Got: fmt.Sprintf("%d results", len(results))})
			continue
		}
		r := results[exp.Step-1]
		if exp.Top != "" && exp.Top != string(r.Top) {
			out = append(out, Mismatch{Step: exp.Step, Field: "top", Want: exp.Top, Got: string(r.Top)})
		}
		if exp.Ranking != "" {
			got := rankingLabels(r.Ranking)
			if exp.Ranking != got {
				out = append(out, Mismatch{Step: exp.Step, Field: "ranking", Want: exp.Ranking, Got: got})
			}
		}
		if exp.Decision != "" && exp.Decision != r.Decision {
			out = append(out, Mismatch{Step: exp.Step, Field: "decision", Want: exp.Decision, Got: r.Decision})
		}
	}
	return out
}

func rankingLabels(r []prototype.Ranked) string {
	var sb strings.Builder
	for _, e := range r {
		sb.WriteRune(e.Label)
	}
	return sb.String()
}
// #endregion verify
