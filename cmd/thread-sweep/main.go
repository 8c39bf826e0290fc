package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sort"
	"time"

	"cellgrid/internal/core"
	"cellgrid/internal/sims/life"
)

type scenarioResult struct {
	threads int
	elapsed time.Duration
	alive   int
	matches bool
}

func main() {
	width := flag.Int("w", 512, "grid width")
	height := flag.Int("h", 512, "grid height")
	steps := flag.Int("steps", 200, "generations to simulate per scenario")
	border := flag.String("border", "wrap", "border policy: dead, alive or wrap")
	maxThreads := flag.Int("max", runtime.NumCPU()*2, "largest thread count to try")
	seed := flag.Int64("seed", 1337, "seed for the shared starting grid")
	flag.Parse()

	b, err := life.ParseBorder(*border)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	base := life.Config{Width: *width, Height: *height, Border: b, Rules: life.Conway, Threads: 1}

	start, err := core.NewGrid(*width, *height)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	core.NewRNG(*seed).FillWeighted(start.Cells(), 1, 2)

	limit := max(*maxThreads, 1)
	var counts []int
	for t := 1; t <= limit; t *= 2 {
		counts = append(counts, t)
	}
	if counts[len(counts)-1] != limit {
		counts = append(counts, limit)
	}

	fmt.Printf("Sweeping %d thread counts (%dx%d, %s border, %d steps)\n", len(counts), *width, *height, b, *steps)

	reference, err := runScenario(base, start, *steps)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var all []scenarioResult
	for _, threads := range counts {
		cfg := base
		cfg.Threads = threads
		began := time.Now()
		got, err := runScenario(cfg, start, *steps)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		res := scenarioResult{
			threads: threads,
			elapsed: time.Since(began),
			alive:   got.Alive(),
			matches: got.Equal(reference),
		}
		if !res.matches {
			fmt.Printf("Mismatch at threads=%d: alive=%d want %d\n", threads, res.alive, reference.Alive())
		}
		all = append(all, res)
	}

	sort.Slice(all, func(i, j int) bool { return all[i].elapsed < all[j].elapsed })
	fmt.Printf("\nResults (fastest first):\n")
	for i, res := range all {
		perGen := res.elapsed / time.Duration(max(*steps, 1))
		fmt.Printf("%2d) threads=%-3d elapsed=%-10s perGen=%-10s alive=%d match=%v\n",
			i+1, res.threads, res.elapsed.Round(time.Microsecond), perGen.Round(time.Microsecond), res.alive, res.matches)
	}
	for _, res := range all {
		if !res.matches {
			os.Exit(1)
		}
	}
}

// runScenario advances a copy of start and returns the final grid.
func runScenario(cfg life.Config, start *core.Grid, steps int) (*core.Grid, error) {
	eng, err := life.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("threads=%d: %w", cfg.Threads, err)
	}
	if err := eng.CopyFrom(start); err != nil {
		return nil, err
	}
	eng.Advance(context.Background(), steps)
	return eng.Snapshot(), nil
}
