package life

import (
	"fmt"
	"slices"
	"testing"

	"cellgrid/internal/core"
)

func TestPartition(t *testing.T) {
	cases := []struct {
		height, threads int
		lens            []int
	}{
		{10, 3, []int{4, 3, 3}},
		{10, 1, []int{10}},
		{5, 8, []int{1, 1, 1, 1, 1}},
		{7, 7, []int{1, 1, 1, 1, 1, 1, 1}},
		{9, 4, []int{3, 2, 2, 2}},
		{4, 0, []int{4}},
	}
	for _, c := range cases {
		parts := Partition(c.height, c.threads)
		var lens []int
		next := 0
		for _, p := range parts {
			if p.Start != next {
				t.Fatalf("Partition(%d,%d) gap at %v", c.height, c.threads, p)
			}
			next = p.End
			lens = append(lens, p.Len())
		}
		if next != c.height {
			t.Fatalf("Partition(%d,%d) covers [0,%d)", c.height, c.threads, next)
		}
		if !slices.Equal(lens, c.lens) {
			t.Fatalf("Partition(%d,%d) lengths %v, want %v", c.height, c.threads, lens, c.lens)
		}
	}
	if Partition(0, 4) != nil {
		t.Fatal("empty height should yield no partitions")
	}
}

func TestThreadCountInvariance(t *testing.T) {
	const w, h = 37, 23
	seed, _ := core.NewGrid(w, h)
	core.NewRNG(11).FillWeighted(seed.Cells(), 1, 2)

	rules := []Rules{Conway, {Survival: MustRuleSet(1, 2, 5), Birth: MustRuleSet(3, 6)}}
	for _, border := range []Border{BorderDead, BorderAlive, BorderWrap} {
		for _, r := range rules {
			var want *core.Grid
			for _, threads := range []int{1, 2, 3, 7, h, h + 1} {
				name := fmt.Sprintf("%s/%s/%d", border, r, threads)
				e, err := New(Config{Width: w, Height: h, Border: border, Rules: r, Threads: threads})
				if err != nil {
					t.Fatalf("%s: New: %v", name, err)
				}
				if err := e.CopyFrom(seed); err != nil {
					t.Fatalf("%s: CopyFrom: %v", name, err)
				}
				e.ComputeNext()
				if want == nil {
					want = e.nxt.Clone()
					continue
				}
				if !want.Equal(e.nxt) {
					t.Fatalf("%s: staging differs from single-threaded result", name)
				}
			}
		}
	}
}

func BenchmarkComputeNext(b *testing.B) {
	for _, threads := range []int{1, 2, 4, 8} {
		e, err := New(Config{Width: 512, Height: 512, Border: BorderWrap, Rules: Conway, Threads: threads})
		if err != nil {
			b.Fatal(err)
		}
		e.Randomize(core.NewRNG(1), 1, 1)
		b.Run(fmt.Sprintf("512x512-%d", threads), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				e.ComputeNext()
			}
		})
	}
}
