package link

import (
	"errors"
	"testing"

	"github.com/Garsondee/Layer-Snake/internal/game"
)

func TestSyncPacket_WireLayout(t *testing.T) {
	p := SyncPacket{X: 20, Y: 100, Dir: game.Right, Layer: 1, Dead: true, Actor: 2}
	b, err := p.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{20, 100, 1, 1, 1, 2}
	if string(b) != string(want) {
		t.Fatalf("wire = %v, want %v", b, want)
	}
	var q SyncPacket
	if err := q.UnmarshalBinary(b); err != nil {
		t.Fatal(err)
	}
	if q != p {
		t.Fatalf("decoded %s, want %s", q, p)
	}
}

func TestSyncPacket_UnmarshalErrors(t *testing.T) {
	var p SyncPacket
	if err := p.UnmarshalBinary([]byte{1, 2, 3}); !errors.Is(err, ErrShortPacket) {
		t.Errorf("short = %v", err)
	}
	if err := p.UnmarshalBinary([]byte{1, 2, 0, 0, 0, 3}); !errors.Is(err, ErrBadActor) {
		t.Errorf("actor 3 = %v", err)
	}
	if err := p.UnmarshalBinary([]byte{1, 2, 9, 0, 0, 0}); !errors.Is(err, ErrBadDirection) {
		t.Errorf("dir 9 = %v", err)
	}
}

func TestSyncPacket_Steady(t *testing.T) {
	cases := []struct {
		name  string
		p     SyncPacket
		alive bool
		want  game.Command
	}{
		{"death", SyncPacket{Dead: true}, true, game.KillCommand()},
		{"turn", SyncPacket{Dir: game.Left}, true, game.Turn(game.Left)},
		{"layer", SyncPacket{Dir: game.Up, Layer: 1}, true, game.LayerToggle()},
		{"already dead", SyncPacket{Dead: true, Dir: game.Down}, false, game.Turn(game.Down)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.p.Steady(c.alive); got != c.want {
				t.Fatalf("Steady = %s, want %s", got, c.want)
			}
		})
	}
}

func TestCommandByte(t *testing.T) {
	for d := game.Up; d <= game.Left; d++ {
		b, ok := EncodeCommand(game.Turn(d))
		if !ok || b != byte(d) {
			t.Fatalf("encode %s = %d %v", d, b, ok)
		}
		if DecodeCommand(b) != game.Turn(d) {
			t.Fatalf("decode %d = %s", b, DecodeCommand(b))
		}
	}
	if b, _ := EncodeCommand(game.LayerToggle()); b != CommandLayer {
		t.Fatalf("layer byte = %d", b)
	}
	if _, ok := EncodeCommand(game.KillCommand()); ok {
		t.Fatal("kill has no command byte")
	}
	if DecodeCommand(5).Kind != game.CmdLayer {
		t.Fatal("5 should toggle the layer")
	}
	if DecodeCommand(200).Kind != game.CmdNone {
		t.Fatal("unknown byte should decode to none")
	}
}

func TestCommandPacket(t *testing.T) {
	st := game.ActorState{ID: 1, HeadDir: game.Up, Alive: false}
	ac := game.AppliedCommand{Actor: 1, Command: game.LayerToggle(), Accepted: true, At: game.Position{X: 4, Y: 5}}
	p := CommandPacket(ac, st)
	if p.Layer == 0 || p.Dead || p.Actor != 1 || p.X != 4 || p.Y != 5 {
		t.Fatalf("layer packet = %s", p)
	}
	ac.Command = game.Turn(game.Up)
	if p := CommandPacket(ac, st); p.Layer != 0 || p.Dir != game.Up {
		t.Fatalf("turn packet = %s", p)
	}
	if p := DeathPacket(game.ActorState{ID: 2, Alive: true}); !p.Dead || p.Actor != 2 {
		t.Fatalf("death packet = %s", p)
	}
}
