package link

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Queue sizes for a port. Inbound frames block the reader when the inbox is
// full; outbound frames are dropped.
const (
	inboxSize  = 256
	outboxSize = 64
)

// Port frames a byte channel into fixed-size packets. A read loop fills the
// inbox and a write loop drains the outbox; the simulation goroutine only
// ever polls and queues, so it never blocks on I/O.
type Port struct {
	Name string

	rw     io.ReadWriteCloser
	frame  int
	inbox  chan []byte
	outbox chan []byte

	received atomic.Int64
	queued   atomic.Int64
	sent     atomic.Int64
	dropped  atomic.Int64

	closeOnce sync.Once
}

// NewPort wraps rw. frame is the inbound packet size in bytes.
func NewPort(name string, rw io.ReadWriteCloser, frame int) *Port {
	if frame <= 0 {
		frame = 1
	}
	return &Port{
		Name:   name,
		rw:     rw,
		frame:  frame,
		inbox:  make(chan []byte, inboxSize),
		outbox: make(chan []byte, outboxSize),
	}
}

// Run pumps the channel until ctx is done or the peer goes away. A clean
// end of stream returns nil.
func (p *Port) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.readLoop(ctx) })
	g.Go(func() error { return p.writeLoop(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		p.Close()
		return nil
	})
	err := g.Wait()
	if isClosed(err) {
		return nil
	}
	return err
}

func (p *Port) readLoop(ctx context.Context) error {
	for {
		buf := make([]byte, p.frame)
		if _, err := io.ReadFull(p.rw, buf); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				log.Printf("link %s: dropped partial packet", p.Name)
			}
			if isClosed(err) {
				return io.EOF
			}
			return err
		}
		p.received.Add(1)
		select {
		case p.inbox <- buf:
		case <-ctx.Done():
			return nil
		}
	}
}

func (p *Port) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case b := <-p.outbox:
			if _, err := p.rw.Write(b); err != nil {
				if isClosed(err) {
					return io.EOF
				}
				return err
			}
			p.sent.Add(1)
		}
	}
}

// Send queues b for transmission. It reports false when the outbox is full.
func (p *Port) Send(b []byte) bool {
	select {
	case p.outbox <- b:
		p.queued.Add(1)
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

// SendSync queues a sync packet.
func (p *Port) SendSync(pk SyncPacket) bool {
	return p.Send(AppendSync(make([]byte, 0, SyncPacketSize), pk))
}

// Poll returns the next inbound frame without blocking.
func (p *Port) Poll() ([]byte, bool) {
	select {
	case b := <-p.inbox:
		return b, true
	default:
		return nil, false
	}
}

// Recv waits for the next inbound frame.
func (p *Port) Recv(ctx context.Context) ([]byte, error) {
	select {
	case b := <-p.inbox:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Drain waits until every queued frame has been written or timeout passes.
func (p *Port) Drain(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for p.sent.Load() < p.queued.Load() {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
	return true
}

// Stats reports frames received, sent and dropped on send.
func (p *Port) Stats() (received, sent, dropped int64) {
	return p.received.Load(), p.sent.Load(), p.dropped.Load()
}

// Close closes the underlying channel once.
func (p *Port) Close() {
	p.closeOnce.Do(func() {
		_ = p.rw.Close()
	})
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrClosed)
}
