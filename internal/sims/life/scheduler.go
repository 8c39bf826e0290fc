package life

import (
	"golang.org/x/sync/errgroup"

	"cellgrid/internal/core"
)

// RowRange is a half-open range of rows [Start, End) handled by one worker.
type RowRange struct {
	Start, End int
}

// Len returns the number of rows in the range.
func (r RowRange) Len() int { return r.End - r.Start }

// Partition splits [0, height) into at most threads contiguous ranges. The
// first height%threads ranges get one extra row. threads is clamped to
// [1, height].
func Partition(height, threads int) []RowRange {
	if height <= 0 {
		return nil
	}
	threads = min(max(threads, 1), height)
	base, extra := height/threads, height%threads
	parts := make([]RowRange, threads)
	start := 0
	for i := range parts {
		n := base
		if i < extra {
			n++
		}
		parts[i] = RowRange{Start: start, End: start + n}
		start += n
	}
	return parts
}

// step computes one generation of cur into nxt. Workers read only cur and
// each writes only its own rows of nxt, so no locking is needed; Wait is
// the barrier.
func step(cur, nxt *core.Grid, rules Rules, border Border, threads int) {
	parts := Partition(cur.H, threads)
	if len(parts) == 1 {
		computeRows(cur, nxt, rules, border, parts[0])
		return
	}

	var g errgroup.Group
	for _, part := range parts {
		g.Go(func() error {
			computeRows(cur, nxt, rules, border, part)
			return nil
		})
	}
	_ = g.Wait()
}

func computeRows(cur, nxt *core.Grid, rules Rules, border Border, rows RowRange) {
	src := cur.Cells()
	dst := nxt.Cells()
	w := cur.W
	for y := rows.Start; y < rows.End; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			dst[idx] = rules.Next(src[idx], border.neighbors(cur, x, y))
		}
	}
}
