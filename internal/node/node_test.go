package node

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/Garsondee/Layer-Snake/internal/link"
)

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

func received(p *link.Port) int64 {
	n, _, _ := p.Stats()
	return n
}

type testNet struct {
	host      *Host
	hostInput *game.CommandQueue
	clients   []*Client
	inputs    []*game.CommandQueue
}

func newTestNet(t *testing.T) *testNet {
	t.Helper()
	cfg := game.DefaultConfig()
	tn := &testNet{hostInput: &game.CommandQueue{}}

	a1, b1 := link.Pipe()
	a2, b2 := link.Pipe()
	h, err := NewHost(HostConfig{Game: cfg, Local: tn.hostInput, Links: []io.ReadWriteCloser{a1, a2}})
	if err != nil {
		t.Fatal(err)
	}
	tn.host = h

	// Clients start from the wrong slots so the init override is visible.
	skewed := []game.ActorSpec{
		{Start: game.Position{X: 1, Y: 1}, Dir: game.Up},
		{Start: game.Position{X: 2, Y: 2}, Dir: game.Up},
		{Start: game.Position{X: 3, Y: 3}, Dir: game.Up},
	}
	ccfg := game.DefaultConfig()
	ccfg.TicksPerSecond = game.SlowTicksPerSecond
	for _, rw := range []io.ReadWriteCloser{b1, b2} {
		in := &game.CommandQueue{}
		c, err := NewClient(ClientConfig{Game: ccfg, Actors: skewed, Local: in, Link: rw})
		if err != nil {
			t.Fatal(err)
		}
		tn.clients = append(tn.clients, c)
		tn.inputs = append(tn.inputs, in)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	if err := h.Start(ctx); err != nil {
		t.Fatal(err)
	}
	for _, c := range tn.clients {
		if err := c.Start(ctx); err != nil {
			t.Fatal(err)
		}
	}
	t.Cleanup(func() {
		for _, c := range tn.clients {
			_ = c.Close()
		}
		_ = h.Close()
	})
	return tn
}

func TestClient_InitOverridesStartSlots(t *testing.T) {
	tn := newTestNet(t)
	want := tn.host.Session().States()
	for ci, c := range tn.clients {
		for i, st := range c.Session().States() {
			if st.Head != want[i].Head || st.HeadDir != want[i].HeadDir {
				t.Errorf("client %d S%d at %s %s, want %s %s",
					ci, i, st.Head, st.HeadDir, want[i].Head, want[i].HeadDir)
			}
			if st.Growth != game.DefaultStartLength {
				t.Errorf("client %d S%d growth = %d", ci, i, st.Growth)
			}
		}
		if c.Session().Config().Authoritative {
			t.Errorf("client %d should not be authoritative", ci)
		}
	}
}

func TestClient_InputRoundTrip(t *testing.T) {
	tn := newTestNet(t)
	c := tn.clients[0]
	hostPort := tn.host.pumps.ports[0]

	tn.inputs[0].Push(game.Turn(game.Up))
	c.Step()
	if c.Session().Actor(1).Heading() != game.Right {
		t.Fatal("client applied its own input before the host echoed it")
	}
	waitFor(t, "command byte at host", func() bool { return received(hostPort) == 1 })

	r := tn.host.Step()
	if len(r.Applied) != 1 || !r.Applied[0].Accepted || r.Applied[0].Actor != 1 {
		t.Fatalf("host applied %+v", r.Applied)
	}
	if tn.host.Session().Actor(1).Heading() != game.Up {
		t.Fatal("host did not turn S1")
	}

	for i, cl := range tn.clients {
		waitFor(t, "echo at client", func() bool { return received(cl.port) == 4 })
		cl.Step()
		if cl.Session().Actor(1).Heading() != game.Up {
			t.Fatalf("client %d S1 heading = %s", i, cl.Session().Actor(1).Heading())
		}
	}
}

func TestHost_DeathReachesClients(t *testing.T) {
	tn := newTestNet(t)
	tn.hostInput.Push(game.KillCommand())
	r := tn.host.Step()
	if len(r.Kills) != 1 {
		t.Fatalf("kills = %v", r.Kills)
	}
	for i, c := range tn.clients {
		waitFor(t, "death packet", func() bool { return received(c.port) == 4 })
		c.Step()
		if c.Session().Actor(0).Alive() {
			t.Fatalf("client %d still has S0 alive", i)
		}
		if !c.Session().Actor(1).Alive() {
			t.Fatalf("client %d killed the wrong actor", i)
		}
	}
}

func TestClient_NeverDecidesCollisions(t *testing.T) {
	tn := newTestNet(t)
	c := tn.clients[0]
	steps := func(n int) {
		for i := 0; i < n; i++ {
			c.Step()
		}
	}
	// S0 loops back into its own neck, a hit on an authoritative node.
	steps(5)
	c.queues[0].Push(game.Turn(game.Right))
	steps(3)
	c.queues[0].Push(game.Turn(game.Up))
	steps(3)
	c.queues[0].Push(game.Turn(game.Left))
	steps(3)
	if got := c.Session().Actor(0).Head(); got != (game.Position{X: 20, Y: 22}) {
		t.Fatalf("S0 head = %s, want (20,22)", got)
	}
	if len(c.Session().Deaths()) != 0 || !c.Session().Actor(0).Alive() {
		t.Fatalf("client decided deaths: %v", c.Session().Deaths())
	}
	if hits := game.DetectCollisions([]game.Snake{*c.Session().Actor(0)}); len(hits) != 1 {
		t.Fatalf("geometry should be a self hit, got %v", hits)
	}
}

func TestRun_EndsWithSession(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.TicksPerSecond = 240
	kill := game.CommandSourceFunc(func() (game.Command, bool) { return game.KillCommand(), true })
	h, err := NewHost(HostConfig{Game: cfg, Actors: game.DefaultActors()[:1], Local: kill})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Run(ctx, h, game.NewGate(cfg.TicksPerSecond)); err != nil {
		t.Fatalf("Run = %v", err)
	}
	if !h.Session().Ended() {
		t.Fatal("session should have ended")
	}
}

func TestNewHost_TooManyLinks(t *testing.T) {
	a, b := link.Pipe()
	defer a.Close()
	defer b.Close()
	_, err := NewHost(HostConfig{Game: game.DefaultConfig(), Actors: game.DefaultActors()[:1], Links: []io.ReadWriteCloser{a}})
	if err == nil {
		t.Fatal("one actor cannot have a remote link")
	}
}

func TestBuild_Roles(t *testing.T) {
	ctx := context.Background()
	n, err := Build(ctx, Options{Role: "solo", Game: game.DefaultConfig()})
	if err != nil {
		t.Fatal(err)
	}
	if n.Role() != "host" || n.Session().NumActors() != game.MaxActors {
		t.Fatalf("solo built %s with %d actors", n.Role(), n.Session().NumActors())
	}
	_ = n.Close()

	bad := []Options{
		{Role: "viewer"},
		{Role: "host"},
		{Role: "client"},
		{Role: "solo", Links: []string{"tcp://127.0.0.1:1"}},
		{Role: "client", Links: []string{"carrier-pigeon://x"}},
	}
	for _, o := range bad {
		o.Game = game.DefaultConfig()
		if _, err := Build(ctx, o); err == nil {
			t.Errorf("Build(%s %v) should fail", o.Role, o.Links)
		}
	}
}
