// Package link carries snake state between display nodes: the fixed-size
// sync packet, the one-byte command packet, and the byte channels they
// travel over.
package link

import (
	"errors"
	"fmt"

	"github.com/Garsondee/Layer-Snake/internal/game"
)

// SyncPacketSize is the wire size of a full-state sync packet:
//
//	[X:1][Y:1][Dir:1][Layer:1][Dead:1][Actor:1]
const SyncPacketSize = 6

// Command byte values. 5 is accepted as a layer toggle for older clients.
const (
	CommandLayer    byte = 4
	CommandLayerAlt byte = 5
)

var (
	ErrShortPacket  = errors.New("short sync packet")
	ErrBadActor     = errors.New("actor index out of range")
	ErrBadDirection = errors.New("direction out of range")
)

// SyncPacket is one actor's position and state as sent between nodes.
type SyncPacket struct {
	X, Y  uint8
	Dir   game.Direction
	Layer uint8 // non-zero marks a layer change rather than a turn
	Dead  bool
	Actor uint8
}

func (p SyncPacket) String() string {
	return fmt.Sprintf("S%d (%d,%d) %s layer=%d dead=%v", p.Actor, p.X, p.Y, p.Dir, p.Layer, p.Dead)
}

// Pos returns the packet coordinates as a board cell.
func (p SyncPacket) Pos() game.Position {
	return game.Normalize(int(p.X), int(p.Y))
}

// AppendSync appends the wire form of p to dst.
func AppendSync(dst []byte, p SyncPacket) []byte {
	dead := byte(0)
	if p.Dead {
		dead = 1
	}
	return append(dst, p.X, p.Y, byte(p.Dir), p.Layer, dead, p.Actor)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p SyncPacket) MarshalBinary() ([]byte, error) {
	return AppendSync(make([]byte, 0, SyncPacketSize), p), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Only the first
// SyncPacketSize bytes of b are read.
func (p *SyncPacket) UnmarshalBinary(b []byte) error {
	if len(b) < SyncPacketSize {
		return fmt.Errorf("%w: %d bytes", ErrShortPacket, len(b))
	}
	if b[5] >= game.MaxActors {
		return fmt.Errorf("%w: %d", ErrBadActor, b[5])
	}
	if !game.Direction(b[2]).Valid() {
		return fmt.Errorf("%w: %d", ErrBadDirection, b[2])
	}
	*p = SyncPacket{
		X:     b[0],
		Y:     b[1],
		Dir:   game.Direction(b[2]),
		Layer: b[3],
		Dead:  b[4] != 0,
		Actor: b[5],
	}
	return nil
}

// StatePacket describes an actor's current head, used for init packets.
func StatePacket(st game.ActorState) SyncPacket {
	return SyncPacket{
		X:     st.Head.X,
		Y:     st.Head.Y,
		Dir:   st.HeadDir,
		Dead:  !st.Alive,
		Actor: uint8(st.ID),
	}
}

// CommandPacket announces an accepted command. Turns carry the new heading
// with a zero layer byte; layer toggles set the layer byte. The actor was
// alive when the command applied, so the dead flag is clear.
func CommandPacket(ac game.AppliedCommand, st game.ActorState) SyncPacket {
	p := SyncPacket{
		X:     ac.At.X,
		Y:     ac.At.Y,
		Dir:   st.HeadDir,
		Actor: uint8(ac.Actor),
	}
	if ac.Command.Kind == game.CmdLayer {
		p.Layer = 1
	}
	return p
}

// DeathPacket announces that an actor died at its current head.
func DeathPacket(st game.ActorState) SyncPacket {
	p := StatePacket(st)
	p.Dead = true
	return p
}

// Steady translates a steady-state packet for an actor whose local liveness
// is alive. A liveness mismatch kills; otherwise the layer byte chooses
// between a layer toggle and a turn.
func (p SyncPacket) Steady(alive bool) game.Command {
	if p.Dead == alive {
		return game.KillCommand()
	}
	if p.Layer != 0 {
		return game.LayerToggle()
	}
	return game.Turn(p.Dir)
}

// EncodeCommand returns the one-byte wire form of c. Kills have no command
// byte and report false.
func EncodeCommand(c game.Command) (byte, bool) {
	switch c.Kind {
	case game.CmdDirection:
		if !c.Dir.Valid() {
			return 0, false
		}
		return byte(c.Dir), true
	case game.CmdLayer:
		return CommandLayer, true
	}
	return 0, false
}

// DecodeCommand maps a command byte to a command. Unknown values decode to
// CmdNone.
func DecodeCommand(b byte) game.Command {
	switch {
	case b <= byte(game.Left):
		return game.Turn(game.Direction(b))
	case b == CommandLayer || b == CommandLayerAlt:
		return game.LayerToggle()
	}
	return game.Command{}
}
