// Package tty is the terminal frontend. The board is drawn with half-block
// runes, two board rows per terminal row, so 128x160 cells fit in 128x80
// columns and rows plus a status line.
package tty

import (
	"fmt"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/gdamore/tcell/v2"
)

const upperHalf = '▀'

var bgColor = tcell.NewRGBColor(8, 10, 8)

// Display is a game.Sink drawing onto a tcell screen.
type Display struct {
	screen tcell.Screen
	cells  [game.BoardWidth * game.BoardHeight]tcell.Color
	status string
}

func NewDisplay(screen tcell.Screen) *Display {
	d := &Display{screen: screen}
	for i := range d.cells {
		d.cells[i] = bgColor
	}
	return d
}

// Report implements game.Sink.
func (d *Display) Report(r *game.TickReport) {
	for _, c := range r.Cells {
		col := bgColor
		if !c.Erase {
			col = toTcell(c.Color)
		}
		d.cells[int(c.Pos.Y)*game.BoardWidth+int(c.Pos.X)] = col
		d.drawCell(int(c.Pos.X), int(c.Pos.Y)/2)
	}
	alive := 0
	for _, st := range r.Actors {
		if st.Alive {
			alive++
		}
	}
	d.status = fmt.Sprintf("T=%d alive=%d/%d", r.Tick, alive, len(r.Actors))
	if r.Ended {
		d.status += " ended"
	}
	d.drawStatus()
}

// Redraw repaints everything, after a resize.
func (d *Display) Redraw() {
	d.screen.Clear()
	for row := 0; row < game.BoardHeight/2; row++ {
		for x := 0; x < game.BoardWidth; x++ {
			d.drawCell(x, row)
		}
	}
	d.drawStatus()
}

// Color returns the colour of one board cell.
func (d *Display) Color(p game.Position) tcell.Color {
	return d.cells[int(p.Y)*game.BoardWidth+int(p.X)]
}

func (d *Display) drawCell(x, row int) {
	top := d.cells[(2*row)*game.BoardWidth+x]
	bottom := d.cells[(2*row+1)*game.BoardWidth+x]
	d.screen.SetContent(x, row, upperHalf, nil, tcell.StyleDefault.Foreground(top).Background(bottom))
}

func (d *Display) drawStatus() {
	y := game.BoardHeight / 2
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	line := d.status + "  arrows/wasd turn, space layer, q quit"
	for x := 0; x < game.BoardWidth; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		d.screen.SetContent(x, y, r, nil, style)
	}
}

func toTcell(c game.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
