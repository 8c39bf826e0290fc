//go:build ebiten

package app

import (
	"image/color"
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"cellgrid/internal/core"
	"cellgrid/internal/render"
	"cellgrid/internal/session"
	"cellgrid/internal/ui"
)

// Game adapts a session to the ebiten.Game interface.
type Game struct {
	sess    *session.Session
	log     *zap.Logger
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	size    core.Size

	onColor  color.Color
	offColor color.Color

	hudTick  *core.FixedStep
	snapshot core.ParameterSnapshot
	last     session.Update
	dirty    bool

	scale  int
	status string
}

// New constructs a Game for the provided session.
func New(sess *session.Session, log *zap.Logger, scale, hudWidth int) *Game {
	g := &Game{
		sess:     sess,
		log:      log,
		hud:      ui.NewHUD(hudWidth),
		overlay:  ui.NewOverlay(scale),
		onColor:  color.White,
		offColor: color.Black,
		hudTick:  core.NewFixedStep(250 * time.Millisecond),
		scale:    scale,
	}
	g.syncSize()
	return g
}

// syncSize reallocates the painter when a new system or load changed the
// grid dimensions.
func (g *Game) syncSize() {
	size := g.sess.Size()
	if g.painter == nil || size != g.size {
		g.size = size
		g.painter = render.NewGridPainter(size.W, size.H)
	}
}

// Update handles per-frame input.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.sess.Close()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.sess.Generating() {
			g.sess.StopGenerating()
			g.sess.Precompute()
		} else {
			g.sess.StartGenerating()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if err := g.sess.Step(); err != nil {
			g.status = err.Error()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.sess.NewSystem(); err != nil {
			g.status = err.Error()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.sess.StopGenerating()
		g.sess.StopStep()
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.sess.Reset(core.Alive)
		} else {
			g.sess.Reset(core.Dead)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if path, err := g.sess.Save(""); err != nil {
			g.status = "save failed, check permissions"
		} else {
			g.status = "saved " + path
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.adjustDelay(inpututil.IsKeyJustPressed(ebiten.KeyMinus))
	}
	g.handleMouse()
	g.overlay.Update()
	g.drainUpdates()
	g.syncSize()
	return nil
}

// adjustDelay halves or doubles the free-running delay. A running loop is
// restarted so it picks up the new value.
func (g *Game) adjustDelay(faster bool) {
	d := g.sess.Options().Delay
	switch {
	case faster:
		d /= 2
	case d == 0:
		d = time.Millisecond
	default:
		d *= 2
	}
	g.sess.SetDelay(d)
	if g.sess.Generating() {
		g.sess.StopGenerating()
		g.sess.StartGenerating()
	}
	g.status = "delay " + d.String()
}

func (g *Game) drainUpdates() {
	for {
		select {
		case u := <-g.sess.Updates():
			g.last = u
			if u.Reason == session.ReasonNew || u.Reason == session.ReasonLoad {
				g.dirty = true
			}
		default:
			return
		}
	}
}

func (g *Game) handleMouse() {
	var state core.CellState
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		state = core.Alive
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		state = core.Dead
	default:
		return
	}
	px, py := ebiten.CursorPosition()
	x, y, ok := render.CellAt(px, py, g.scale, g.size)
	if !ok {
		return
	}
	if err := g.sess.Set(x, y, state); err != nil {
		g.log.Debug("edit ignored", zap.Error(err))
	}
}

// Draw renders the current generation. The session lock is held only while
// the cells are copied into the painter.
func (g *Game) Draw(screen *ebiten.Image) {
	var gen uint64
	refresh := g.hudTick.ShouldStep() || g.dirty
	g.dirty = false
	g.sess.View(func(eng core.Engine, generation uint64) {
		if eng.Size() == g.size {
			g.painter.Blit(screen, eng.Cells(), g.onColor, g.offColor, g.scale)
		}
		if refresh {
			g.snapshot = eng.Parameters()
		}
		gen = generation
	})

	threads := 1
	if v, ok := g.snapshot.Lookup("threads"); ok {
		threads, _ = strconv.Atoi(v)
	}
	g.overlay.Draw(screen, g.size, threads)

	status := g.status
	if g.sess.Generating() {
		status = "running"
	} else if g.sess.Stepping() {
		status = "stepping"
	} else if status == "" {
		status = "last: " + g.last.Reason.String()
	}
	g.hud.Update(g.snapshot, gen, status)
	g.hud.Draw(screen, g.size.W*g.scale, g.size.H*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size.W*g.scale + g.hud.Width(), g.size.H * g.scale
}
