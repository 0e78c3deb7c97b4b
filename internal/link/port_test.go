package link

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Garsondee/Layer-Snake/internal/game"
)

func startPort(t *testing.T, p *Port) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	return func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run(%s) = %v", p.Name, err)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("Run(%s) did not stop", p.Name)
		}
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPort_SyncPacketsOverPipe(t *testing.T) {
	a, b := Pipe()
	pa := NewPort("a", a, SyncPacketSize)
	pb := NewPort("b", b, SyncPacketSize)
	defer startPort(t, pa)()
	defer startPort(t, pb)()

	want := SyncPacket{X: 7, Y: 9, Dir: game.Left, Actor: 1}
	if !pa.SendSync(want) {
		t.Fatal("send refused")
	}
	r := NewSyncReader(pb)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := r.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	if _, ok := r.Poll(); ok {
		t.Fatal("no more packets expected")
	}
}

func TestSyncReader_SkipsMalformed(t *testing.T) {
	a, b := Pipe()
	pa := NewPort("a", a, 1)
	pb := NewPort("b", b, SyncPacketSize)
	defer startPort(t, pa)()
	defer startPort(t, pb)()

	pa.Send([]byte{1, 1, 0, 0, 0, 9})
	pa.SendSync(SyncPacket{X: 3, Actor: 2})

	r := NewSyncReader(pb)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := r.Wait(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Actor != 2 || got.X != 3 || r.Invalid() != 1 {
		t.Fatalf("got %s invalid=%d", got, r.Invalid())
	}
}

func TestCommandSource_OnePerCall(t *testing.T) {
	a, b := Pipe()
	pa := NewPort("a", a, 1)
	pb := NewPort("b", b, 1)
	defer startPort(t, pa)()
	defer startPort(t, pb)()

	SendCommand(pa, game.Turn(game.Right))
	pa.Send([]byte{99})
	SendCommand(pa, game.LayerToggle())
	waitFor(t, "three frames", func() bool {
		n, _, _ := pb.Stats()
		return n == 3
	})

	src := NewCommandSource(pb)
	if c, ok := src.NextCommand(); !ok || c != game.Turn(game.Right) {
		t.Fatalf("first = %s %v", c, ok)
	}
	if c, ok := src.NextCommand(); !ok || c.Kind != game.CmdLayer {
		t.Fatalf("second = %s %v", c, ok)
	}
	if _, ok := src.NextCommand(); ok {
		t.Fatal("source should be drained")
	}
	if src.Ignored() != 1 {
		t.Fatalf("ignored = %d", src.Ignored())
	}
}

func TestPort_SendDropsWhenFull(t *testing.T) {
	a, _ := Pipe()
	p := NewPort("idle", a, 1)
	for i := 0; i < outboxSize; i++ {
		if !p.Send([]byte{0}) {
			t.Fatalf("send %d refused early", i)
		}
	}
	if p.Send([]byte{0}) {
		t.Fatal("full outbox accepted a frame")
	}
	if _, _, dropped := p.Stats(); dropped != 1 {
		t.Fatalf("dropped = %d", dropped)
	}
	p.Close()
}

func TestPort_PeerCloseEndsRun(t *testing.T) {
	a, b := Pipe()
	p := NewPort("a", a, 1)
	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()
	_ = b.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v, want nil on peer close", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not notice the peer closing")
	}
}

func TestOpen_Schemes(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, "carrier-pigeon://coop"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Fatalf("unknown scheme = %v", err)
	}

	path := filepath.Join(t.TempDir(), "serial")
	if err := os.WriteFile(path, []byte{2}, 0o600); err != nil {
		t.Fatal(err)
	}
	rw, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer rw.Close()
	buf := make([]byte, 1)
	if _, err := rw.Read(buf); err != nil || buf[0] != 2 {
		t.Fatalf("read %v %v", buf, err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("no loopback: %v", err)
	}
	defer ln.Close()
	go func() {
		if c, err := ln.Accept(); err == nil {
			_, _ = c.Write([]byte{3})
			_ = c.Close()
		}
	}()
	conn, err := Open(ctx, "tcp://"+ln.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	if _, err := conn.Read(buf); err != nil || buf[0] != 3 {
		t.Fatalf("tcp read %v %v", buf, err)
	}
}

func TestAcceptOne_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := acceptOne(ctx, "127.0.0.1:0"); err == nil {
		t.Fatal("cancelled accept should fail")
	}
}
