package life

import (
	"context"
	"errors"
	"fmt"

	"cellgrid/internal/core"
)

// ErrInvalidConfig is wrapped by every construction-time validation failure.
var ErrInvalidConfig = errors.New("invalid engine config")

// ConfigError names the field that failed validation.
type ConfigError struct {
	Field string
	Value any
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid engine config: %s = %v", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Config holds the construction parameters of an Engine. Every field is
// required; the zero value is not a usable configuration.
type Config struct {
	Width   int
	Height  int
	Border  Border
	Rules   Rules
	Threads int
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return &ConfigError{Field: "width", Value: c.Width}
	case c.Height <= 0:
		return &ConfigError{Field: "height", Value: c.Height}
	case c.Threads < 1:
		return &ConfigError{Field: "threads", Value: c.Threads}
	case !c.Border.valid():
		return &ConfigError{Field: "border", Value: c.Border}
	}
	return nil
}

// FromEngineConfig converts the variant-neutral parameters.
func FromEngineConfig(ec core.EngineConfig) (Config, error) {
	border, err := ParseBorder(ec.Border)
	if err != nil {
		return Config{}, err
	}
	survival, err := NewRuleSet(ec.Survival...)
	if err != nil {
		return Config{}, fmt.Errorf("survival: %w", err)
	}
	birth, err := NewRuleSet(ec.Birth...)
	if err != nil {
		return Config{}, fmt.Errorf("birth: %w", err)
	}
	c := Config{
		Width:   ec.Width,
		Height:  ec.Height,
		Border:  border,
		Rules:   Rules{Survival: survival, Birth: birth},
		Threads: ec.Threads,
	}
	return c, c.Validate()
}

// Engine is the dense grid engine. It owns a current and a staging buffer of
// identical size and swaps them on commit. Engine is not safe for concurrent
// use; callers serialize access.
type Engine struct {
	cfg    Config
	cur    *core.Grid
	nxt    *core.Grid
	staged bool
}

var _ core.Engine = (*Engine)(nil)

// New validates cfg and allocates both buffers, all cells Dead.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cur, err := core.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	nxt, _ := core.NewGrid(cfg.Width, cfg.Height)
	return &Engine{cfg: cfg, cur: cur, nxt: nxt}, nil
}

// Name returns the variant identifier.
func (e *Engine) Name() string { return "dense" }

// Size returns the grid dimensions.
func (e *Engine) Size() core.Size { return e.cur.Size() }

// Cells exposes the current generation. Callers must not modify it.
func (e *Engine) Cells() []core.CellState { return e.cur.Cells() }

// Config returns the construction parameters.
func (e *Engine) Config() Config { return e.cfg }

// Staged reports whether the staging buffer holds the successor of the
// current buffer.
func (e *Engine) Staged() bool { return e.staged }

// Get reads a cell of the current generation.
func (e *Engine) Get(x, y int) (core.CellState, error) { return e.cur.Get(x, y) }

// Set writes a cell of the current generation and drops any staged result.
func (e *Engine) Set(x, y int, s core.CellState) error {
	if err := e.cur.Set(x, y, s); err != nil {
		return err
	}
	e.staged = false
	return nil
}

// Fill sets every cell of the current generation to s.
func (e *Engine) Fill(s core.CellState) {
	e.cur.Fill(s)
	e.staged = false
}

// CopyFrom replaces the current generation with the contents of g.
func (e *Engine) CopyFrom(g *core.Grid) error {
	if err := e.cur.CopyFrom(g); err != nil {
		return err
	}
	e.staged = false
	return nil
}

// Snapshot returns a copy of the current generation.
func (e *Engine) Snapshot() *core.Grid { return e.cur.Clone() }

// Randomize seeds every cell Alive with probability alive/(alive+dead).
func (e *Engine) Randomize(r *core.RNG, alive, dead float64) {
	r.FillWeighted(e.cur.Cells(), alive, dead)
	e.staged = false
}

// ComputeNext fills the staging buffer from the current one. Calling it
// again before a commit recomputes the same result.
func (e *Engine) ComputeNext() {
	step(e.cur, e.nxt, e.cfg.Rules, e.cfg.Border, e.cfg.Threads)
	e.staged = true
}

// CommitPrecomputed promotes the staging buffer to current. If nothing is
// staged it computes first; the return value reports whether a staged
// result was reused.
func (e *Engine) CommitPrecomputed() bool {
	reused := e.staged
	if !reused {
		e.ComputeNext()
	}
	e.cur, e.nxt = e.nxt, e.cur
	e.staged = false
	return reused
}

// Advance commits up to n generations and returns how many were applied.
// ctx is checked only between generations; one that has started always
// finishes.
func (e *Engine) Advance(ctx context.Context, n int) int {
	done := 0
	for done < n {
		if ctx.Err() != nil {
			break
		}
		e.CommitPrecomputed()
		done++
	}
	return done
}

// Parameters describes the engine for HUD display.
func (e *Engine) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("w", "Width", e.cfg.Width),
				core.IntParam("h", "Height", e.cfg.Height),
				core.StringParam("border", "Border", e.cfg.Border.String()),
			},
		},
		{
			Name: "Rules",
			Params: []core.Parameter{
				core.StringParam("survival", "Survival", e.cfg.Rules.Survival.String()),
				core.StringParam("birth", "Birth", e.cfg.Rules.Birth.String()),
			},
		},
		{
			Name: "Engine",
			Params: []core.Parameter{
				core.StringParam("variant", "Variant", e.Name()),
				core.IntParam("threads", "Threads", e.cfg.Threads),
			},
		},
	}}
}

func init() {
	core.Register("dense", func(ec core.EngineConfig) (core.Engine, error) {
		cfg, err := FromEngineConfig(ec)
		if err != nil {
			return nil, err
		}
		e, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	})
}
