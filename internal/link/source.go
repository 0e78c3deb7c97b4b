package link

import (
	"context"
	"log"

	"github.com/Garsondee/Layer-Snake/internal/game"
)

// CommandSource turns one-byte command packets from a port into game
// commands, one per call. Bytes that are not commands are skipped.
type CommandSource struct {
	port    *Port
	ignored int
}

// NewCommandSource reads from a port framed with size 1.
func NewCommandSource(p *Port) *CommandSource {
	return &CommandSource{port: p}
}

// NextCommand implements game.CommandSource.
func (s *CommandSource) NextCommand() (game.Command, bool) {
	for {
		b, ok := s.port.Poll()
		if !ok {
			return game.Command{}, false
		}
		if c := DecodeCommand(b[0]); c.Kind != game.CmdNone {
			return c, true
		}
		s.ignored++
	}
}

// Ignored counts bytes that did not decode to a command.
func (s *CommandSource) Ignored() int { return s.ignored }

// SendCommand writes the command byte for c to a port. Commands with no
// wire form are skipped.
func SendCommand(p *Port, c game.Command) bool {
	b, ok := EncodeCommand(c)
	if !ok {
		return false
	}
	return p.Send([]byte{b})
}

// SyncReader decodes sync packets from a port framed with SyncPacketSize.
type SyncReader struct {
	port    *Port
	invalid int
}

func NewSyncReader(p *Port) *SyncReader {
	return &SyncReader{port: p}
}

// Poll returns the next valid packet without blocking. Malformed packets are
// logged and skipped.
func (r *SyncReader) Poll() (SyncPacket, bool) {
	for {
		b, ok := r.port.Poll()
		if !ok {
			return SyncPacket{}, false
		}
		var pk SyncPacket
		if err := pk.UnmarshalBinary(b); err != nil {
			r.invalid++
			log.Printf("link %s: %v", r.port.Name, err)
			continue
		}
		return pk, true
	}
}

// Wait blocks for the next valid packet.
func (r *SyncReader) Wait(ctx context.Context) (SyncPacket, error) {
	for {
		b, err := r.port.Recv(ctx)
		if err != nil {
			return SyncPacket{}, err
		}
		var pk SyncPacket
		if err := pk.UnmarshalBinary(b); err != nil {
			r.invalid++
			log.Printf("link %s: %v", r.port.Name, err)
			continue
		}
		return pk, nil
	}
}

// Invalid counts packets that failed to decode.
func (r *SyncReader) Invalid() int { return r.invalid }
