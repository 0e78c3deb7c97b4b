// Package node runs a session on one display node: the host owns collision
// authority and drives the links, clients mirror the host's decisions.
package node

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/Garsondee/Layer-Snake/internal/link"
	"golang.org/x/sync/errgroup"
)

// drainTimeout bounds how long Close waits for queued packets to go out.
const drainTimeout = 500 * time.Millisecond

// Node is a host or client. Start opens the links and performs the init
// exchange, Step runs one tick, Close flushes and stops the links.
type Node interface {
	Role() string
	Session() *game.Session
	Start(ctx context.Context) error
	Step() *game.TickReport
	Close() error
}

// pumps runs the read and write loops of a node's ports.
type pumps struct {
	ports  []*link.Port
	g      *errgroup.Group
	cancel context.CancelFunc
}

func (p *pumps) start(ctx context.Context) context.Context {
	ctx, p.cancel = context.WithCancel(ctx)
	p.g, ctx = errgroup.WithContext(ctx)
	for _, port := range p.ports {
		port := port
		p.g.Go(func() error {
			err := port.Run(ctx)
			if err != nil {
				log.Printf("node: link %s: %v", port.Name, err)
			} else {
				log.Printf("node: link %s closed", port.Name)
			}
			return err
		})
	}
	return ctx
}

func (p *pumps) close() error {
	for _, port := range p.ports {
		if !port.Drain(drainTimeout) {
			log.Printf("node: link %s: gave up flushing", port.Name)
		}
	}
	if p.cancel == nil {
		for _, port := range p.ports {
			port.Close()
		}
		return nil
	}
	p.cancel()
	err := p.g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Run starts n, ticks it whenever gate opens until the session ends or ctx
// is done, then closes it.
func Run(ctx context.Context, n Node, gate *game.Gate) error {
	if err := n.Start(ctx); err != nil {
		_ = n.Close()
		return err
	}
	s := n.Session()
	log.Printf("node: %s session %s running at %d tps", n.Role(), s.ID, s.Config().TicksPerSecond)
	for !s.Ended() {
		select {
		case <-ctx.Done():
			s.Stop()
			_ = n.Close()
			return ctx.Err()
		default:
		}
		if !gate.Ready() {
			time.Sleep(time.Millisecond)
			continue
		}
		n.Step()
	}
	out := game.DetermineMatchOutcome(s)
	log.Printf("node: %s session %s ended at T=%d: %s", n.Role(), s.ID, s.CurrentTick(), out.Description)
	return n.Close()
}
