// Package ui is the ebiten frontend: it draws the visible layer of a
// session into a board-sized framebuffer and turns keyboard and gamepad
// input into commands.
package ui

import (
	"image/color"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

var background = color.RGBA{R: 8, G: 10, B: 8, A: 255}

// Framebuffer mirrors the node display: one RGBA pixel per board cell,
// painted and erased by tick reports.
type Framebuffer struct {
	pix   []byte
	dirty bool
}

func NewFramebuffer() *Framebuffer {
	fb := &Framebuffer{pix: make([]byte, game.BoardWidth*game.BoardHeight*4)}
	fb.Clear()
	return fb
}

// Clear fills the board with the background colour.
func (fb *Framebuffer) Clear() {
	for i := 0; i < len(fb.pix); i += 4 {
		fb.pix[i] = background.R
		fb.pix[i+1] = background.G
		fb.pix[i+2] = background.B
		fb.pix[i+3] = background.A
	}
	fb.dirty = true
}

// Report implements game.Sink. Erases come before paints in a report, so a
// cell vacated and re-entered in one tick ends up painted.
func (fb *Framebuffer) Report(r *game.TickReport) {
	for _, c := range r.Cells {
		if c.Erase {
			fb.set(c.Pos, background)
			continue
		}
		fb.set(c.Pos, toRGBA(c.Color))
	}
	if len(r.Cells) > 0 {
		fb.dirty = true
	}
}

func (fb *Framebuffer) set(p game.Position, c color.RGBA) {
	i := (int(p.Y)*game.BoardWidth + int(p.X)) * 4
	if i < 0 || i+3 >= len(fb.pix) {
		return
	}
	fb.pix[i] = c.R
	fb.pix[i+1] = c.G
	fb.pix[i+2] = c.B
	fb.pix[i+3] = c.A
}

// At returns the colour of one cell.
func (fb *Framebuffer) At(p game.Position) color.RGBA {
	i := (int(p.Y)*game.BoardWidth + int(p.X)) * 4
	return color.RGBA{R: fb.pix[i], G: fb.pix[i+1], B: fb.pix[i+2], A: fb.pix[i+3]}
}

// Upload copies the pixels into img when they changed since the last upload.
// img must be BoardWidth x BoardHeight.
func (fb *Framebuffer) Upload(img *ebiten.Image) {
	if !fb.dirty {
		return
	}
	img.WritePixels(fb.pix)
	fb.dirty = false
}

func toRGBA(c game.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
