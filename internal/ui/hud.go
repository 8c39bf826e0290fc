//go:build ebiten

package ui

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"cellgrid/internal/core"
)

const (
	panelPadding = 10
	lineHeight   = 16
)

var keyHelp = []string{
	"space  run / pause",
	"n      step",
	"r      new random system",
	"c      clear (shift: fill)",
	"s      save",
	"1      show partitions",
	"- =    faster / slower",
	"mouse  left alive, right dead",
	"q      quit",
}

// HUD renders the status panel to the right of the grid.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int

	snapshot   core.ParameterSnapshot
	generation uint64
	status     string
}

// NewHUD constructs a HUD with the provided panel width.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width}
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update records what the next Draw shows.
func (h *HUD) Update(snapshot core.ParameterSnapshot, generation uint64, status string) {
	if h == nil {
		return
	}
	h.snapshot = snapshot
	h.generation = generation
	h.status = status
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	title := color.RGBA{R: 200, G: 200, B: 210, A: 255}
	label := color.RGBA{R: 160, G: 160, B: 170, A: 255}
	value := color.RGBA{R: 220, G: 220, B: 230, A: 255}

	y := panelPadding + lineHeight
	text.Draw(h.panel, "Generation "+strconv.FormatUint(h.generation, 10), face, panelPadding, y, title)
	y += lineHeight
	if h.status != "" {
		text.Draw(h.panel, h.status, face, panelPadding, y, label)
		y += lineHeight
	}

	for _, group := range h.snapshot.Groups {
		y += lineHeight / 2
		text.Draw(h.panel, group.Name, face, panelPadding, y, title)
		y += lineHeight
		for _, p := range group.Params {
			text.Draw(h.panel, p.Label, face, panelPadding, y, label)
			bounds := text.BoundString(face, p.Value)
			text.Draw(h.panel, p.Value, face, h.width-panelPadding-bounds.Dx(), y, value)
			y += lineHeight
		}
	}

	y += lineHeight / 2
	for _, line := range keyHelp {
		if y > height-panelPadding {
			break
		}
		text.Draw(h.panel, line, face, panelPadding, y, label)
		y += lineHeight
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
