package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim is the read-only view a renderer needs.
type Sim interface {
	Name() string
	Size() Size
	Cells() []CellState
}

// Engine is the capability set every engine variant must honor. Stepping is
// a pure function of the current cells, rules and border policy; Randomize
// is the only operation that consumes randomness.
type Engine interface {
	Sim

	Get(x, y int) (CellState, error)
	Set(x, y int, s CellState) error
	Fill(s CellState)
	CopyFrom(g *Grid) error
	Randomize(r *RNG, alive, dead float64)

	// ComputeNext fills the staging buffer from the current one.
	ComputeNext()
	// CommitPrecomputed promotes staging to current, computing it first
	// if needed. It reports whether an existing staging buffer was reused.
	CommitPrecomputed() bool
	// Advance commits up to n generations, checking ctx between them.
	Advance(ctx context.Context, n int) int
	Staged() bool

	Parameters() ParameterSnapshot
}

// EngineConfig carries the construction parameters shared by all variants.
// None of the fields has a default.
type EngineConfig struct {
	Width    int
	Height   int
	Border   string
	Survival []int
	Birth    []int
	Threads  int
}

// Factory constructs an Engine variant.
type Factory func(cfg EngineConfig) (Engine, error)

// ErrUnknownEngine is returned by NewEngine for unregistered variant names.
var ErrUnknownEngine = errors.New("unknown engine variant")

var engines = map[string]Factory{}

// Register adds an engine factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	engines[name] = f
}

// Engines lists the registered variant names in sorted order.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewEngine builds the named variant.
func NewEngine(name string, cfg EngineConfig) (Engine, error) {
	f, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownEngine, name)
	}
	return f(cfg)
}
