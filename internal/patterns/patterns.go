package patterns

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"cellgrid/internal/core"
)

//go:embed patterns.yaml
var builtin []byte

// ErrUnknown is returned by Library.Get for names not in the library.
var ErrUnknown = errors.New("unknown pattern")

// Pattern is a named rectangle of cells.
type Pattern struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Rows        []string `yaml:"rows"`
}

// Width returns the length of the longest row.
func (p *Pattern) Width() int {
	w := 0
	for _, r := range p.Rows {
		w = max(w, len(r))
	}
	return w
}

// Height returns the number of rows.
func (p *Pattern) Height() int { return len(p.Rows) }

// Setter is the write side of an engine.
type Setter interface {
	Size() core.Size
	Set(x, y int, s core.CellState) error
}

// Stamp writes the pattern with its top-left corner at (x, y). Dead pattern
// cells overwrite too. The whole pattern must fit; nothing is written if it
// doesn't.
func (p *Pattern) Stamp(dst Setter, x, y int) error {
	size := dst.Size()
	if x < 0 || y < 0 || x+p.Width() > size.W || y+p.Height() > size.H {
		return fmt.Errorf("pattern %q (%dx%d) at (%d,%d) on %dx%d grid: %w",
			p.Name, p.Width(), p.Height(), x, y, size.W, size.H, core.ErrOutOfRange)
	}
	for dy, row := range p.Rows {
		for dx := 0; dx < len(row); dx++ {
			s := core.Dead
			if row[dx] == '#' || row[dx] == 'O' {
				s = core.Alive
			}
			if err := dst.Set(x+dx, y+dy, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// StampCentered stamps the pattern in the middle of dst.
func (p *Pattern) StampCentered(dst Setter) error {
	size := dst.Size()
	return p.Stamp(dst, (size.W-p.Width())/2, (size.H-p.Height())/2)
}

func (p *Pattern) validate() error {
	if p.Name == "" {
		return errors.New("pattern without a name")
	}
	if len(p.Rows) == 0 {
		return fmt.Errorf("pattern %q has no rows", p.Name)
	}
	for i, row := range p.Rows {
		for _, ch := range row {
			switch ch {
			case '#', 'O', '.':
			default:
				return fmt.Errorf("pattern %q row %d: invalid character %q", p.Name, i, ch)
			}
		}
	}
	return nil
}

// Library provides lookup of patterns by name.
type Library struct {
	patterns map[string]*Pattern
}

// Load parses a YAML list of patterns.
func Load(r io.Reader) (*Library, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read patterns: %w", err)
	}
	var entries []Pattern
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}
	lib := &Library{patterns: make(map[string]*Pattern, len(entries))}
	for i := range entries {
		p := &entries[i]
		if err := p.validate(); err != nil {
			return nil, err
		}
		lib.patterns[p.Name] = p
	}
	return lib, nil
}

// LoadFile loads a pattern library from disk.
func LoadFile(path string) (*Library, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open patterns %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Builtin returns the library embedded in the binary.
func Builtin() *Library {
	lib, err := Load(bytes.NewReader(builtin))
	if err != nil {
		panic(err)
	}
	return lib
}

// Get returns the named pattern.
func (l *Library) Get(name string) (*Pattern, error) {
	p, ok := l.patterns[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return p, nil
}

// Names lists the patterns in sorted order.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.patterns))
	for name := range l.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the total number of patterns loaded.
func (l *Library) Count() int { return len(l.patterns) }
