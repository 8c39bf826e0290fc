//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"cellgrid/internal/core"
	"cellgrid/internal/sims/life"
)

// Overlay draws optional debugging visuals on top of the grid. Key 1
// toggles tinted stripes marking the row range each worker computes.
type Overlay struct {
	scale          int
	showPartitions bool
	pixel          *ebiten.Image
}

var stripeColors = []color.NRGBA{
	{R: 255, G: 80, B: 80, A: 40},
	{R: 80, G: 160, B: 255, A: 40},
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(scale int) *Overlay {
	o := &Overlay{scale: scale}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update polls the toggle keys.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showPartitions = !o.showPartitions
	}
}

// Draw renders enabled overlays for a grid of the given size split across
// threads workers.
func (o *Overlay) Draw(screen *ebiten.Image, size core.Size, threads int) {
	if !o.showPartitions {
		return
	}
	for i, part := range life.Partition(size.H, threads) {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(size.W*o.scale), float64(part.Len()*o.scale))
		op.GeoM.Translate(0, float64(part.Start*o.scale))
		op.ColorScale.ScaleWithColor(stripeColors[i%len(stripeColors)])
		screen.DrawImage(o.pixel, op)
	}
}
