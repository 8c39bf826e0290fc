// Package session owns an engine and its generation counter and serializes
// every flow that touches them: single steps, the free-running loop and
// background precomputation.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"cellgrid/internal/config"
	"cellgrid/internal/core"
	"cellgrid/internal/patterns"
	"cellgrid/internal/savefile"
)

// ErrGenerating is returned by operations refused while the free-running
// loop is active.
var ErrGenerating = errors.New("free-running generation in progress")

// Reason tells subscribers why an Update was sent.
type Reason int

const (
	ReasonNew Reason = iota
	ReasonReset
	ReasonLoad
	ReasonEdit
	ReasonStep
	ReasonGenerate
	ReasonPrecompute
)

var reasonNames = [...]string{
	ReasonNew:        "new",
	ReasonReset:      "reset",
	ReasonLoad:       "load",
	ReasonEdit:       "edit",
	ReasonStep:       "step",
	ReasonGenerate:   "generate",
	ReasonPrecompute: "precompute",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return fmt.Sprintf("Reason(%d)", int(r))
	}
	return reasonNames[r]
}

// Update is published whenever the visible state may have changed.
type Update struct {
	Generation uint64
	Reason     Reason
}

// Options configures a Session.
type Options struct {
	Variant            string
	Engine             core.EngineConfig
	GenerationsPerStep int
	Delay              time.Duration
	SavePath           string

	Random bool
	Alive  float64
	Dead   float64
	Seed   int64 // 0 seeds from the clock

	Logger *zap.Logger
}

// OptionsFrom maps a loaded configuration onto session options.
func OptionsFrom(cfg *config.Config, log *zap.Logger) Options {
	return Options{
		Variant:            cfg.Engine.Variant,
		Engine:             cfg.EngineConfig(),
		GenerationsPerStep: cfg.Session.GenerationsPerStep,
		Delay:              cfg.Session.Delay,
		SavePath:           cfg.Session.SavePath,
		Random:             cfg.Seed.Random,
		Alive:              cfg.Seed.Alive,
		Dead:               cfg.Seed.Dead,
		Seed:               cfg.Seed.Seed,
		Logger:             log,
	}
}

type worker struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func spawn(run func(ctx context.Context)) *worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		defer cancel()
		run(ctx)
	}()
	return w
}

func (w *worker) stop() {
	if w == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (w *worker) wait() {
	if w == nil {
		return
	}
	<-w.done
}

func (w *worker) running() bool {
	if w == nil {
		return false
	}
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// Session is safe for concurrent use.
type Session struct {
	log     *zap.Logger
	updates chan Update

	mu         sync.Mutex // guards engine, generation and rng
	engine     core.Engine
	generation uint64
	rng        *core.RNG

	ctl        sync.Mutex // guards opts and the worker handles
	opts       Options
	stepping   *worker
	generating *worker
	calc       *worker
}

// New builds a session and its first engine.
func New(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Variant == "" {
		opts.Variant = "dense"
	}
	if opts.GenerationsPerStep < 1 {
		return nil, fmt.Errorf("generations per step must be at least 1, got %d", opts.GenerationsPerStep)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Session{
		log:     opts.Logger,
		updates: make(chan Update, 64),
		rng:     core.NewRNG(seed),
		opts:    opts,
	}
	if err := s.NewSystem(); err != nil {
		return nil, err
	}
	return s, nil
}

// Updates delivers state-change notifications. Sends never block; slow
// readers miss intermediate updates.
func (s *Session) Updates() <-chan Update { return s.updates }

func (s *Session) notify(gen uint64, r Reason) {
	select {
	case s.updates <- Update{Generation: gen, Reason: r}:
	default:
	}
}

// Options returns a copy of the current options.
func (s *Session) Options() Options {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	return s.opts
}

// Generation returns the number of committed generations.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Size returns the dimensions of the current engine.
func (s *Session) Size() core.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Size()
}

// View runs fn with exclusive access to the engine. fn must not retain eng.
func (s *Session) View(fn func(eng core.Engine, gen uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine, s.generation)
}

// stopAll joins every worker. Callers hold ctl.
func (s *Session) stopAll() {
	s.stepping.stop()
	s.stepping = nil
	s.generating.stop()
	s.generating = nil
	s.calc.wait()
	s.calc = nil
}

// NewSystem replaces the engine with a fresh one built from the configured
// engine parameters.
func (s *Session) NewSystem() error {
	s.ctl.Lock()
	ec := s.opts.Engine
	s.ctl.Unlock()
	return s.NewSystemWith(ec)
}

// NewSystemWith replaces the engine with one built from ec and makes ec the
// configured engine parameters. On error the current engine is kept.
func (s *Session) NewSystemWith(ec core.EngineConfig) error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	eng, err := core.NewEngine(s.opts.Variant, ec)
	if err != nil {
		s.log.Warn("new system rejected", zap.Error(err))
		return err
	}
	s.stopAll()

	s.mu.Lock()
	if s.opts.Random {
		eng.Randomize(s.rng, s.opts.Alive, s.opts.Dead)
	}
	s.engine = eng
	s.generation = 0
	s.mu.Unlock()

	s.opts.Engine = ec
	s.log.Info("new system",
		zap.String("variant", eng.Name()),
		zap.Int("width", ec.Width),
		zap.Int("height", ec.Height),
		zap.String("border", ec.Border),
		zap.Int("threads", ec.Threads),
		zap.Bool("random", s.opts.Random),
	)
	s.notify(0, ReasonNew)
	return nil
}

// Reset sets every cell to state and restarts the generation count.
func (s *Session) Reset(state core.CellState) {
	s.mu.Lock()
	s.engine.Fill(state)
	s.generation = 0
	s.mu.Unlock()
	s.notify(0, ReasonReset)
}

// Randomize reseeds the current engine with the configured weights and
// restarts the generation count.
func (s *Session) Randomize() {
	s.ctl.Lock()
	alive, dead := s.opts.Alive, s.opts.Dead
	s.ctl.Unlock()

	s.mu.Lock()
	s.engine.Randomize(s.rng, alive, dead)
	s.generation = 0
	s.mu.Unlock()
	s.notify(0, ReasonReset)
}

// Set edits a single cell.
func (s *Session) Set(x, y int, state core.CellState) error {
	s.mu.Lock()
	err := s.engine.Set(x, y, state)
	gen := s.generation
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(gen, ReasonEdit)
	return nil
}

// Stamp writes p with its top-left corner at (x, y).
func (s *Session) Stamp(p *patterns.Pattern, x, y int) error {
	s.mu.Lock()
	err := p.Stamp(s.engine, x, y)
	gen := s.generation
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(gen, ReasonEdit)
	return nil
}

// StampCentered stamps p in the middle of the grid.
func (s *Session) StampCentered(p *patterns.Pattern) error {
	s.mu.Lock()
	err := p.StampCentered(s.engine)
	gen := s.generation
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(gen, ReasonEdit)
	return nil
}

// advance commits up to n generations, taking the lock once per generation so
// readers can interleave. It returns the number committed.
func (s *Session) advance(ctx context.Context, n int) int {
	done := 0
	for done < n {
		s.mu.Lock()
		applied := s.engine.Advance(ctx, 1)
		s.generation += uint64(applied)
		s.mu.Unlock()
		if applied == 0 {
			break
		}
		done++
	}
	return done
}

// Advance synchronously commits up to n generations, stopping early if ctx
// is cancelled. It is refused while the free-running loop is active.
func (s *Session) Advance(ctx context.Context, n int) (int, error) {
	s.ctl.Lock()
	if s.generating.running() {
		s.ctl.Unlock()
		return 0, ErrGenerating
	}
	s.calc.wait()
	s.calc = nil
	s.stepping.stop()
	s.stepping = nil
	s.ctl.Unlock()

	done := s.advance(ctx, n)
	s.notify(s.Generation(), ReasonStep)
	return done, nil
}

// Step starts a background run of GenerationsPerStep generations, replacing
// any step still in progress. When it finishes the following generation is
// precomputed.
func (s *Session) Step() error {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.generating.running() {
		return ErrGenerating
	}
	s.calc.wait()
	s.calc = nil
	s.stepping.stop()

	n := s.opts.GenerationsPerStep
	s.stepping = spawn(func(ctx context.Context) {
		done := s.advance(ctx, n)
		if ctx.Err() == nil {
			s.mu.Lock()
			s.engine.ComputeNext()
			s.mu.Unlock()
		}
		gen := s.Generation()
		s.log.Debug("step finished", zap.Int("requested", n), zap.Int("applied", done), zap.Uint64("generation", gen))
		s.notify(gen, ReasonStep)
	})
	return nil
}

// StopStep cancels a running step and waits for it. Generations already
// committed are kept.
func (s *Session) StopStep() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stepping.stop()
	s.stepping = nil
}

// WaitStep blocks until a running step has finished on its own.
func (s *Session) WaitStep() {
	s.ctl.Lock()
	w := s.stepping
	s.ctl.Unlock()
	w.wait()
}

// Stepping reports whether a step is in progress.
func (s *Session) Stepping() bool {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	return s.stepping.running()
}

// StartGenerating launches the free-running loop: one generation per Delay
// until StopGenerating. It is a no-op if the loop is already running.
func (s *Session) StartGenerating() {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.generating.running() {
		return
	}
	s.calc.wait()
	s.calc = nil
	s.stepping.stop()
	s.stepping = nil

	delay := s.opts.Delay
	s.generating = spawn(func(ctx context.Context) {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			if s.advance(ctx, 1) == 0 {
				return
			}
			s.notify(s.Generation(), ReasonGenerate)
			timer.Reset(delay)
		}
	})
	s.log.Debug("generating started", zap.Duration("delay", delay))
}

// StopGenerating stops the free-running loop and waits for it.
func (s *Session) StopGenerating() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	if s.generating == nil {
		return
	}
	s.generating.stop()
	s.generating = nil
	s.log.Debug("generating stopped", zap.Uint64("generation", s.Generation()))
}

// Generating reports whether the free-running loop is active.
func (s *Session) Generating() bool {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	return s.generating.running()
}

// Precompute computes the next generation in the background so the next
// step can commit it without waiting. It is skipped while generating.
func (s *Session) Precompute() {
	s.ctl.Lock()
	defer s.ctl.Unlock()

	if s.generating.running() {
		return
	}
	s.calc.wait()
	s.calc = spawn(func(context.Context) {
		s.mu.Lock()
		s.engine.ComputeNext()
		gen := s.generation
		s.mu.Unlock()
		s.notify(gen, ReasonPrecompute)
	})
}

// WaitPrecompute blocks until a pending Precompute has finished.
func (s *Session) WaitPrecompute() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.calc.wait()
	s.calc = nil
}

// SetGenerationsPerStep changes the size of future steps.
func (s *Session) SetGenerationsPerStep(n int) error {
	if n < 1 {
		return fmt.Errorf("generations per step must be at least 1, got %d", n)
	}
	s.ctl.Lock()
	s.opts.GenerationsPerStep = n
	s.ctl.Unlock()
	return nil
}

// SetDelay changes the free-running delay. It applies from the next
// StartGenerating.
func (s *Session) SetDelay(d time.Duration) {
	s.ctl.Lock()
	s.opts.Delay = max(d, 0)
	s.ctl.Unlock()
}

// Load replaces the engine with the contents of a .gol file. The new engine
// takes its size from the file and everything else from the configured
// engine parameters, and has the following generation precomputed. On any
// error the current engine and generation are left unchanged.
func (s *Session) Load(path string) error {
	snap, err := savefile.Read(path)
	if err != nil {
		s.log.Warn("load failed", zap.String("path", path), zap.Error(err))
		return err
	}

	s.ctl.Lock()
	defer s.ctl.Unlock()

	ec := s.opts.Engine
	ec.Width, ec.Height = snap.Grid.W, snap.Grid.H
	eng, err := core.NewEngine(s.opts.Variant, ec)
	if err != nil {
		s.log.Warn("load failed", zap.String("path", path), zap.Error(err))
		return err
	}
	if err := eng.CopyFrom(snap.Grid); err != nil {
		s.log.Warn("load failed", zap.String("path", path), zap.Error(err))
		return err
	}
	eng.ComputeNext()

	s.stopAll()
	s.mu.Lock()
	s.engine = eng
	s.generation = snap.Generation
	s.mu.Unlock()

	s.log.Info("loaded save",
		zap.String("path", path),
		zap.Uint64("generation", snap.Generation),
		zap.Int("width", ec.Width),
		zap.Int("height", ec.Height),
	)
	s.notify(snap.Generation, ReasonLoad)
	return nil
}

// Save writes the current generation to path. An empty path saves under an
// auto-generated name in the configured save directory. It returns the path
// written.
func (s *Session) Save(path string) (string, error) {
	s.ctl.Lock()
	dir := s.opts.SavePath
	s.ctl.Unlock()

	s.mu.Lock()
	size := s.engine.Size()
	grid, err := core.NewGrid(size.W, size.H)
	if err == nil {
		copy(grid.Cells(), s.engine.Cells())
	}
	gen := s.generation
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	if path == "" {
		path, err = savefile.WriteAuto(dir, gen, grid)
	} else {
		err = savefile.Write(path, gen, grid)
	}
	if err != nil {
		s.log.Warn("save failed", zap.String("path", path), zap.Error(err))
		return "", err
	}
	s.log.Info("saved", zap.String("path", path), zap.Uint64("generation", gen))
	return path, nil
}

// Close stops every background worker.
func (s *Session) Close() {
	s.ctl.Lock()
	defer s.ctl.Unlock()
	s.stopAll()
}
