package node

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/Garsondee/Layer-Snake/internal/link"
)

// HostConfig wires a host node. Local drives actor 0; Links[i] carries the
// command bytes of actor i+1 and receives every sync packet.
type HostConfig struct {
	Game   game.Config
	Actors []game.ActorSpec
	Local  game.CommandSource
	Links  []io.ReadWriteCloser
	Sink   game.Sink
}

// Host runs the authoritative session.
type Host struct {
	session *game.Session
	pumps   pumps
}

// NewHost builds the session and binds every command source.
func NewHost(cfg HostConfig) (*Host, error) {
	if len(cfg.Actors) == 0 {
		cfg.Actors = game.DefaultActors()
	}
	if len(cfg.Links) >= len(cfg.Actors) {
		return nil, fmt.Errorf("host: %d links for %d actors", len(cfg.Links), len(cfg.Actors))
	}
	cfg.Game.Authoritative = true

	h := &Host{}
	s, err := game.NewSession(cfg.Game, cfg.Actors, game.MultiSink{cfg.Sink, game.SinkFunc(h.broadcast)})
	if err != nil {
		return nil, fmt.Errorf("host: %w", err)
	}
	h.session = s
	if cfg.Local != nil {
		if err := s.Bind(0, cfg.Local); err != nil {
			return nil, err
		}
	}
	for i, rw := range cfg.Links {
		port := link.NewPort(fmt.Sprintf("S%d", i+1), rw, 1)
		h.pumps.ports = append(h.pumps.ports, port)
		if err := s.Bind(i+1, link.NewCommandSource(port)); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *Host) Role() string           { return "host" }
func (h *Host) Session() *game.Session { return h.session }

// Start runs the link pumps and sends one init packet per actor on every
// link.
func (h *Host) Start(ctx context.Context) error {
	h.pumps.start(ctx)
	for _, st := range h.session.States() {
		h.send(link.StatePacket(st))
	}
	log.Printf("host: sent %d init packets on %d links", h.session.NumActors(), len(h.pumps.ports))
	return nil
}

// Step runs one tick.
func (h *Host) Step() *game.TickReport {
	return h.session.Tick()
}

func (h *Host) Close() error {
	return h.pumps.close()
}

// broadcast sends a sync packet for every accepted command and every death.
func (h *Host) broadcast(r *game.TickReport) {
	for _, ac := range r.Applied {
		if !ac.Accepted || ac.Command.Kind == game.CmdKill {
			continue
		}
		h.send(link.CommandPacket(ac, r.Actors[ac.Actor]))
	}
	for _, d := range r.Deaths {
		h.send(link.DeathPacket(r.Actors[d.Victim]))
	}
	for _, id := range r.Kills {
		h.send(link.DeathPacket(r.Actors[id]))
	}
}

func (h *Host) send(pk link.SyncPacket) {
	for _, p := range h.pumps.ports {
		if !p.SendSync(pk) {
			log.Printf("host: link %s: outbox full, dropped %s", p.Name, pk)
		}
	}
}
