package game

import "fmt"

// CommandKind tags what a Command asks an actor to do.
type CommandKind uint8

const (
	CmdNone CommandKind = iota
	CmdDirection
	CmdLayer
	CmdKill
)

// Command is one external instruction for one actor. Dir is only meaningful
// for CmdDirection.
type Command struct {
	Kind CommandKind
	Dir  Direction
}

// Turn builds a direction command.
func Turn(d Direction) Command {
	return Command{Kind: CmdDirection, Dir: d}
}

// LayerToggle builds a layer-toggle command.
func LayerToggle() Command {
	return Command{Kind: CmdLayer}
}

// KillCommand builds an external kill.
func KillCommand() Command {
	return Command{Kind: CmdKill}
}

func (c Command) String() string {
	switch c.Kind {
	case CmdDirection:
		return "turn " + c.Dir.String()
	case CmdLayer:
		return "layer"
	case CmdKill:
		return "kill"
	case CmdNone:
		return "none"
	}
	return fmt.Sprintf("cmd(%d)", uint8(c.Kind))
}

// CommandSource yields at most one command per call. The session calls
// NextCommand once per bound source at the start of every tick; anything the
// source holds back is delivered on later ticks.
type CommandSource interface {
	NextCommand() (Command, bool)
}

// CommandSourceFunc adapts a function to CommandSource.
type CommandSourceFunc func() (Command, bool)

func (f CommandSourceFunc) NextCommand() (Command, bool) { return f() }

// commandQueueLimit bounds buffered commands per queue; older entries are
// dropped first.
const commandQueueLimit = 16

// CommandQueue is a bounded FIFO for commands produced on the simulation
// goroutine (tests, sync packet translation). It is not safe for concurrent
// use.
type CommandQueue struct {
	items   []Command
	dropped int
}

// Push appends c, dropping the oldest entry past the limit.
func (q *CommandQueue) Push(c Command) {
	if len(q.items) >= commandQueueLimit {
		q.items = q.items[1:]
		q.dropped++
	}
	q.items = append(q.items, c)
}

// Len is the number of queued commands.
func (q *CommandQueue) Len() int { return len(q.items) }

// Dropped counts commands discarded because the queue was full.
func (q *CommandQueue) Dropped() int { return q.dropped }

// NextCommand pops the oldest queued command.
func (q *CommandQueue) NextCommand() (Command, bool) {
	if len(q.items) == 0 {
		return Command{}, false
	}
	c := q.items[0]
	q.items = q.items[1:]
	return c, true
}

// AppliedCommand records a command the session tried to apply in a tick.
type AppliedCommand struct {
	Actor    int
	Command  Command
	Accepted bool
	At       Position // head position when the command was applied
	Layer    Layer    // head layer after the command
}
