package tty

import (
	"context"
	"time"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/gdamore/tcell/v2"
)

// Keys turns terminal key events into queued commands.
type Keys struct {
	queue game.CommandQueue
}

// NextCommand implements game.CommandSource.
func (k *Keys) NextCommand() (game.Command, bool) { return k.queue.NextCommand() }

// Handle queues the command for ev and reports whether the player quit.
func (k *Keys) Handle(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		k.queue.Push(game.Turn(game.Up))
	case tcell.KeyDown:
		k.queue.Push(game.Turn(game.Down))
	case tcell.KeyLeft:
		k.queue.Push(game.Turn(game.Left))
	case tcell.KeyRight:
		k.queue.Push(game.Turn(game.Right))
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'w':
			k.queue.Push(game.Turn(game.Up))
		case 's':
			k.queue.Push(game.Turn(game.Down))
		case 'a':
			k.queue.Push(game.Turn(game.Left))
		case 'd':
			k.queue.Push(game.Turn(game.Right))
		case ' ':
			k.queue.Push(game.LayerToggle())
		}
	}
	return false
}

// Stepper is a node as the terminal sees it.
type Stepper interface {
	Session() *game.Session
	Step() *game.TickReport
}

// Run ticks n at its session rate, drawing every report, until the player
// quits or ctx is done. The board stays up after the session ends.
func Run(ctx context.Context, screen tcell.Screen, n Stepper, keys *Keys) error {
	d := NewDisplay(screen)
	d.Redraw()
	screen.Show()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	period := time.Second / time.Duration(n.Session().Config().TicksPerSecond)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if keys != nil && keys.Handle(ev) {
					return nil
				}
				if keys == nil && (ev.Key() == tcell.KeyEscape || ev.Rune() == 'q') {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
				d.Redraw()
				screen.Show()
			}
		case <-ticker.C:
			if n.Session().Ended() {
				continue
			}
			if r := n.Step(); r != nil {
				d.Report(r)
				screen.Show()
			}
		}
	}
}
