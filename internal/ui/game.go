package ui

import (
	"fmt"
	"image/color"
	"log"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// borderWidth is the pixel gap between the window edge and the board.
const borderWidth = 24

// DefaultScale is the integer upscale of the 128x160 board.
const DefaultScale = 4

// reportTicks is how much of the SimLog the clipboard report includes.
const reportTicks = 600

// Stepper is a node as the frontend sees it.
type Stepper interface {
	Session() *game.Session
	Step() *game.TickReport
}

// Game is the ebiten.Game for one display node. ebiten calls Update every
// frame; the gate decides which frames run a tick.
type Game struct {
	node  Stepper
	gate  *game.Gate
	keys  *Keyboard
	fb    *Framebuffer
	feed  *EventFeed
	board *ebiten.Image
	face  font.Face

	scale   int
	width   int
	height  int
	showHUD bool
	status  string // last hotkey result, shown in the HUD
	copy    func(string) error
}

// New builds the frontend. keys may be nil when the node gets no local
// keyboard input.
func New(node Stepper, keys *Keyboard, scale int) *Game {
	if scale <= 0 {
		scale = DefaultScale
	}
	bw, bh := game.BoardWidth*scale, game.BoardHeight*scale
	return &Game{
		node:    node,
		gate:    game.NewGate(node.Session().Config().TicksPerSecond),
		keys:    keys,
		fb:      NewFramebuffer(),
		feed:    NewEventFeed(),
		board:   ebiten.NewImage(game.BoardWidth, game.BoardHeight),
		face:    basicfont.Face7x13,
		scale:   scale,
		width:   borderWidth + bw + borderWidth + feedPanelWidth,
		height:  borderWidth + bh + borderWidth,
		showHUD: true,
		copy:    clipboard.WriteAll,
	}
}

// Run opens the window and blocks until it closes or the player quits.
func (g *Game) Run(title string) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetTPS(ebiten.SyncWithFPS)
	return ebiten.RunGame(g)
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleHotkeys()
	if g.keys != nil {
		g.keys.Poll()
	}
	g.step()
	return nil
}

// step runs one tick when the gate is open.
func (g *Game) step() {
	if g.node.Session().Ended() || !g.gate.Ready() {
		return
	}
	if r := g.node.Step(); r != nil {
		g.fb.Report(r)
		g.feed.Report(r)
	}
}

func (g *Game) handleHotkeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport()
	}
}

// copyReport puts the debug report on the clipboard.
func (g *Game) copyReport() {
	report := game.DebugReport(g.node.Session(), reportTicks)
	if err := g.copy(report); err != nil {
		log.Printf("ui: clipboard: %v", err)
		g.status = "clipboard unavailable"
		return
	}
	g.status = fmt.Sprintf("report copied (%d bytes)", len(report))
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})

	g.fb.Upload(g.board)
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	op.GeoM.Translate(borderWidth, borderWidth)
	screen.DrawImage(g.board, &op)

	bw := float32(game.BoardWidth * g.scale)
	bh := float32(game.BoardHeight * g.scale)
	vector.StrokeRect(screen, borderWidth-1, borderWidth-1, bw+2, bh+2, 2, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)

	g.feed.Draw(screen, g.face, borderWidth+int(bw)+borderWidth, g.height)
	if g.showHUD {
		g.drawHUD(screen)
	}
}

func (g *Game) hudLines() []string {
	s := g.node.Session()
	lines := []string{
		fmt.Sprintf("T=%d  %s  layer %d shown", s.CurrentTick(), s.State(), s.Config().VisibleLayer),
	}
	for _, st := range s.States() {
		state := "alive"
		if !st.Alive {
			state = "dead"
		}
		lines = append(lines, fmt.Sprintf("S%d %-5s %s L%d", st.ID, state, st.Head, st.HeadLayer))
	}
	if s.Ended() {
		lines = append(lines, game.DetermineMatchOutcome(s).Description)
	}
	lines = append(lines, "arrows/WASD turn  space layer", "C copy report  H hud  Esc quit")
	if g.status != "" {
		lines = append(lines, g.status)
	}
	return lines
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	const lineH, padX, padY = 14, 5, 4
	lines := g.hudLines()
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*7 + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx, by := float32(borderWidth+4), float32(borderWidth+4)
	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 200}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, line := range lines {
		text.Draw(screen, line, g.face, int(bx)+padX, int(by)+padY+(i+1)*lineH-3, color.RGBA{R: 220, G: 230, B: 220, A: 255})
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
