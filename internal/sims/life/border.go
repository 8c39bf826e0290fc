package life

import (
	"fmt"
	"strings"

	"cellgrid/internal/core"
)

// Border selects how neighbors outside the grid contribute to a count.
type Border uint8

const (
	// BorderDead treats every out-of-bounds neighbor as Dead.
	BorderDead Border = iota
	// BorderAlive treats every out-of-bounds neighbor as Alive.
	BorderAlive
	// BorderWrap wraps coordinates toroidally.
	BorderWrap
)

var borderNames = [...]string{
	BorderDead:  "dead",
	BorderAlive: "alive",
	BorderWrap:  "wrap",
}

// ParseBorder maps "dead", "alive" or "wrap" (case-insensitive) to a Border.
func ParseBorder(s string) (Border, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dead":
		return BorderDead, nil
	case "alive":
		return BorderAlive, nil
	case "wrap", "torus":
		return BorderWrap, nil
	}
	return 0, fmt.Errorf("%w: unknown border %q", ErrInvalidConfig, s)
}

func (b Border) valid() bool { return b <= BorderWrap }

// String returns the config name of the border.
func (b Border) String() string {
	if !b.valid() {
		return fmt.Sprintf("Border(%d)", uint8(b))
	}
	return borderNames[b]
}

// neighbors counts live cells in the Moore neighborhood of (x, y). Interior
// cells skip the border policy entirely.
func (b Border) neighbors(g *core.Grid, x, y int) int {
	w, h := g.W, g.H
	if x > 0 && y > 0 && x < w-1 && y < h-1 {
		cells := g.Cells()
		up := (y-1)*w + x
		mid := y*w + x
		down := (y+1)*w + x
		return int(cells[up-1]) + int(cells[up]) + int(cells[up+1]) +
			int(cells[mid-1]) + int(cells[mid+1]) +
			int(cells[down-1]) + int(cells[down]) + int(cells[down+1])
	}

	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n += int(b.effective(g, x+dx, y+dy))
		}
	}
	return n
}

// effective returns the state (x, y) contributes under this policy.
func (b Border) effective(g *core.Grid, x, y int) core.CellState {
	if g.In(x, y) {
		return g.At(x, y)
	}
	switch b {
	case BorderAlive:
		return core.Alive
	case BorderWrap:
		return g.At(g.Wrap(x, y))
	default:
		return core.Dead
	}
}
