// Package trace records a session one tick at a time as length-delimited
// protobuf wire records and reads it back.
//
// A trace is a Header record followed by one Frame record per tick. Each
// record is a varint byte length and the encoded message.
package trace

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/oklog/ulid/v2"
	"google.golang.org/protobuf/encoding/protowire"
)

// maxRecord bounds a single record so a corrupt length cannot exhaust memory.
const maxRecord = 1 << 20

var ErrCorrupt = errors.New("corrupt trace record")

// Header field numbers.
const (
	hSession     protowire.Number = 1
	hTPS         protowire.Number = 2
	hActors      protowire.Number = 3
	hStartLength protowire.Number = 4
)

// Frame field numbers.
const (
	fTick     protowire.Number = 1
	fActor    protowire.Number = 2
	fDeath    protowire.Number = 3
	fAccepted protowire.Number = 4
	fRejected protowire.Number = 5
	fEnded    protowire.Number = 6
)

// Actor field numbers.
const (
	aID protowire.Number = iota + 1
	aHeadX
	aHeadY
	aHeadDir
	aHeadLayer
	aTailX
	aTailY
	aAlive
	aPending
	aColor
	aTailDir
	aTailLayer
	aGrowth
)

// Death field numbers.
const (
	dVictim protowire.Number = iota + 1
	dOwner
	dX
	dY
)

// Header identifies the session a trace came from.
type Header struct {
	Session     ulid.ULID
	TPS         int
	Actors      int
	StartLength int
}

// Death is one collision in a frame.
type Death struct {
	Victim, Owner int
	At            game.Position
}

// Frame is one recorded tick.
type Frame struct {
	Tick     int
	Actors   []game.ActorState
	Deaths   []Death
	Accepted int
	Rejected int
	Ended    bool
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func boolVal(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func (h Header) marshal() []byte {
	var b []byte
	b = appendBytesField(b, hSession, h.Session[:])
	b = appendVarintField(b, hTPS, uint64(h.TPS))
	b = appendVarintField(b, hActors, uint64(h.Actors))
	b = appendVarintField(b, hStartLength, uint64(h.StartLength))
	return b
}

func marshalActor(st game.ActorState) []byte {
	var b []byte
	b = appendVarintField(b, aID, uint64(st.ID))
	b = appendVarintField(b, aHeadX, uint64(st.Head.X))
	b = appendVarintField(b, aHeadY, uint64(st.Head.Y))
	b = appendVarintField(b, aHeadDir, uint64(st.HeadDir))
	b = appendVarintField(b, aHeadLayer, uint64(st.HeadLayer))
	b = appendVarintField(b, aTailX, uint64(st.Tail.X))
	b = appendVarintField(b, aTailY, uint64(st.Tail.Y))
	b = appendVarintField(b, aAlive, boolVal(st.Alive))
	b = appendVarintField(b, aPending, uint64(st.Pending))
	b = appendVarintField(b, aColor, uint64(st.Color))
	b = appendVarintField(b, aTailDir, uint64(st.TailDir))
	b = appendVarintField(b, aTailLayer, uint64(st.TailLayer))
	b = appendVarintField(b, aGrowth, uint64(st.Growth))
	return b
}

func (f *Frame) marshal() []byte {
	var b []byte
	b = appendVarintField(b, fTick, uint64(f.Tick))
	for _, st := range f.Actors {
		b = appendBytesField(b, fActor, marshalActor(st))
	}
	for _, d := range f.Deaths {
		var m []byte
		m = appendVarintField(m, dVictim, uint64(d.Victim))
		m = appendVarintField(m, dOwner, uint64(d.Owner))
		m = appendVarintField(m, dX, uint64(d.At.X))
		m = appendVarintField(m, dY, uint64(d.At.Y))
		b = appendBytesField(b, fDeath, m)
	}
	b = appendVarintField(b, fAccepted, uint64(f.Accepted))
	b = appendVarintField(b, fRejected, uint64(f.Rejected))
	b = appendVarintField(b, fEnded, boolVal(f.Ended))
	return b
}

// walk calls fn for every field of a message. Unknown wire types are
// skipped.
func walk(b []byte, fn func(num protowire.Number, v uint64, raw []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
		}
		b = b[n:]
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
			}
			b = b[n:]
			if err := fn(num, v, nil); err != nil {
				return err
			}
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
			}
			b = b[n:]
			if err := fn(num, 0, v); err != nil {
				return err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

func (h *Header) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, v uint64, raw []byte) error {
		switch num {
		case hSession:
			if len(raw) != len(h.Session) {
				return fmt.Errorf("%w: session id is %d bytes", ErrCorrupt, len(raw))
			}
			copy(h.Session[:], raw)
		case hTPS:
			h.TPS = int(v)
		case hActors:
			h.Actors = int(v)
		case hStartLength:
			h.StartLength = int(v)
		}
		return nil
	})
}

func unmarshalActor(b []byte) (game.ActorState, error) {
	var st game.ActorState
	err := walk(b, func(num protowire.Number, v uint64, _ []byte) error {
		switch num {
		case aID:
			st.ID = int(v)
		case aHeadX:
			st.Head.X = uint8(v)
		case aHeadY:
			st.Head.Y = uint8(v)
		case aHeadDir:
			st.HeadDir = game.Direction(v)
		case aHeadLayer:
			st.HeadLayer = game.Layer(v)
		case aTailX:
			st.Tail.X = uint8(v)
		case aTailY:
			st.Tail.Y = uint8(v)
		case aAlive:
			st.Alive = v != 0
		case aPending:
			st.Pending = int(v)
		case aColor:
			st.Color = game.Color(v)
		case aTailDir:
			st.TailDir = game.Direction(v)
		case aTailLayer:
			st.TailLayer = game.Layer(v)
		case aGrowth:
			st.Growth = int(v)
		}
		return nil
	})
	return st, err
}

func (f *Frame) unmarshal(b []byte) error {
	return walk(b, func(num protowire.Number, v uint64, raw []byte) error {
		switch num {
		case fTick:
			f.Tick = int(v)
		case fActor:
			st, err := unmarshalActor(raw)
			if err != nil {
				return err
			}
			f.Actors = append(f.Actors, st)
		case fDeath:
			var d Death
			err := walk(raw, func(num protowire.Number, v uint64, _ []byte) error {
				switch num {
				case dVictim:
					d.Victim = int(v)
				case dOwner:
					d.Owner = int(v)
				case dX:
					d.At.X = uint8(v)
				case dY:
					d.At.Y = uint8(v)
				}
				return nil
			})
			if err != nil {
				return err
			}
			f.Deaths = append(f.Deaths, d)
		case fAccepted:
			f.Accepted = int(v)
		case fRejected:
			f.Rejected = int(v)
		case fEnded:
			f.Ended = v != 0
		}
		return nil
	})
}

// FrameOf converts a tick report into a frame.
func FrameOf(r *game.TickReport) Frame {
	f := Frame{Tick: r.Tick, Actors: r.Actors, Ended: r.Ended}
	for _, ac := range r.Applied {
		if ac.Accepted {
			f.Accepted++
		} else {
			f.Rejected++
		}
	}
	for _, c := range r.Deaths {
		f.Deaths = append(f.Deaths, Death{Victim: c.Victim, Owner: c.Segment.Owner, At: c.At})
	}
	return f
}

func writeRecord(w *bufio.Writer, msg []byte) error {
	var lenBuf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lenBuf[:], uint64(len(msg)))
	if _, err := w.Write(lenBuf[:n]); err != nil {
		return err
	}
	_, err := w.Write(msg)
	return err
}

func readRecord(r *bufio.Reader) ([]byte, error) {
	size, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if size > maxRecord {
		return nil, fmt.Errorf("%w: record of %d bytes", ErrCorrupt, size)
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}
