package node

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/Garsondee/Layer-Snake/internal/link"
)

// ClientConfig wires a client node. Local input is forwarded to the host as
// command bytes and only takes effect once the host echoes it back.
type ClientConfig struct {
	Game   game.Config
	Actors []game.ActorSpec
	Local  game.CommandSource
	Link   io.ReadWriteCloser
	Sink   game.Sink
}

// Client mirrors the host's session without deciding collisions itself.
type Client struct {
	session *game.Session
	local   game.CommandSource
	port    *link.Port
	reader  *link.SyncReader
	queues  []*game.CommandQueue
	pumps   pumps
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Link == nil {
		return nil, fmt.Errorf("client: no link")
	}
	if len(cfg.Actors) == 0 {
		cfg.Actors = game.DefaultActors()
	}
	cfg.Game.Authoritative = false

	s, err := game.NewSession(cfg.Game, cfg.Actors, cfg.Sink)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	port := link.NewPort("host", cfg.Link, link.SyncPacketSize)
	c := &Client{
		session: s,
		local:   cfg.Local,
		port:    port,
		reader:  link.NewSyncReader(port),
		pumps:   pumps{ports: []*link.Port{port}},
	}
	for i := range cfg.Actors {
		q := &game.CommandQueue{}
		c.queues = append(c.queues, q)
		if err := s.Bind(i, q); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Client) Role() string           { return "client" }
func (c *Client) Session() *game.Session { return c.session }

// Start runs the link pump and waits for one init packet per actor, each
// overriding that actor's start slot.
func (c *Client) Start(ctx context.Context) error {
	ctx = c.pumps.start(ctx)
	for i := 0; i < c.session.NumActors(); i++ {
		pk, err := c.reader.Wait(ctx)
		if err != nil {
			return fmt.Errorf("client: waiting for init packet %d: %w", i, err)
		}
		if err := c.session.Place(int(pk.Actor), pk.Pos(), pk.Dir); err != nil {
			log.Printf("client: init %s: %v", pk, err)
		}
	}
	log.Printf("client: initialised %d actors", c.session.NumActors())
	return nil
}

// Step forwards local input, queues every sync packet that has arrived and
// runs one tick.
func (c *Client) Step() *game.TickReport {
	if c.local != nil {
		if cmd, ok := c.local.NextCommand(); ok {
			link.SendCommand(c.port, cmd)
		}
	}
	for {
		pk, ok := c.reader.Poll()
		if !ok {
			break
		}
		c.apply(pk)
	}
	return c.session.Tick()
}

func (c *Client) apply(pk link.SyncPacket) {
	a := c.session.Actor(int(pk.Actor))
	if a == nil {
		log.Printf("client: packet for unknown actor: %s", pk)
		return
	}
	c.queues[pk.Actor].Push(pk.Steady(a.Alive()))
}

func (c *Client) Close() error {
	return c.pumps.close()
}
