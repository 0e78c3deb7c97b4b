package ui

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

const (
	feedPanelWidth = 320
	feedMaxEntries = 60
	feedLineHeight = 15
)

// FeedEntry is one line in the event feed.
type FeedEntry struct {
	Tick    int
	Label   string // "S0".."S2"
	Color   game.Color
	Message string
}

// EventFeed is a ring buffer of session events rendered beside the board.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

func NewEventFeed() *EventFeed {
	return &EventFeed{entries: make([]FeedEntry, feedMaxEntries)}
}

// Add appends an entry, overwriting the oldest when full.
func (f *EventFeed) Add(tick int, label string, col game.Color, msg string) {
	f.entries[f.head] = FeedEntry{Tick: tick, Label: label, Color: col, Message: msg}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Recent returns entries oldest first.
func (f *EventFeed) Recent() []FeedEntry {
	out := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		out[i] = f.entries[idx]
	}
	return out
}

// Report implements game.Sink. Commands, deaths and kills become entries;
// cell updates do not.
func (f *EventFeed) Report(r *game.TickReport) {
	colorOf := func(id int) game.Color {
		for _, st := range r.Actors {
			if st.ID == id {
				return st.Color
			}
		}
		return 0xFFFF
	}
	for _, ac := range r.Applied {
		msg := ac.Command.String()
		if !ac.Accepted {
			msg += " rejected"
		}
		f.Add(r.Tick, label(ac.Actor), colorOf(ac.Actor), msg)
	}
	for _, c := range r.Deaths {
		f.Add(r.Tick, label(c.Victim), colorOf(c.Victim), fmt.Sprintf("crashed into S%d at %s", c.Segment.Owner, c.At))
	}
	for _, id := range r.Kills {
		f.Add(r.Tick, label(id), colorOf(id), "killed")
	}
	if r.Ended {
		f.Add(r.Tick, "--", 0xFFFF, "session ended")
	}
}

func label(id int) string { return fmt.Sprintf("S%d", id) }

// Draw renders the feed panel at panelX, newest entry at the bottom.
func (f *EventFeed) Draw(screen *ebiten.Image, face font.Face, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, 18, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	text.Draw(screen, "EVENTS", face, panelX+8, 13, color.White)

	entries := f.Recent()
	maxVisible := (panelH - 26) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	y := 22
	for _, e := range entries {
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 7, toRGBA(e.Color), false)
		line := fmt.Sprintf("%5d [%s] %s", e.Tick, e.Label, e.Message)
		text.Draw(screen, line, face, panelX+12, y+11, color.RGBA{R: 200, G: 210, B: 200, A: 255})
		y += feedLineHeight
	}
}
