package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
)

var ErrUnsupportedScheme = errors.New("unsupported link scheme")

// Open connects the byte channel described by rawURL. Supported forms:
//
//	tcp://host:port         dial a TCP peer
//	tcp+listen://:port      accept a single TCP peer
//	udp://host:port         connected UDP socket
//	ws://host:port/path     dial a websocket bridge (wss:// works too)
//	ws+listen://:port/path  serve a single websocket peer
//	file:///dev/ttyUSB0     serial device, fifo or plain file
//
// A bare path is treated as file://.
func Open(ctx context.Context, rawURL string) (io.ReadWriteCloser, error) {
	if !strings.Contains(rawURL, "://") {
		rawURL = "file://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse link %q: %w", rawURL, err)
	}

	var d net.Dialer
	switch u.Scheme {
	case "tcp", "udp":
		conn, err := d.DialContext(ctx, u.Scheme, u.Host)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", rawURL, err)
		}
		log.Printf("link: connected %s %s", u.Scheme, conn.RemoteAddr())
		return conn, nil
	case "tcp+listen":
		return acceptOne(ctx, u.Host)
	case "ws", "wss":
		return DialWebsocket(ctx, rawURL)
	case "ws+listen":
		return ServeWebsocket(ctx, u.Host, u.Path)
	case "file":
		f, err := os.OpenFile(u.Path, os.O_RDWR, 0)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", u.Path, err)
		}
		log.Printf("link: opened %s", u.Path)
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
}

// acceptOne listens on addr until one peer connects, then stops listening.
func acceptOne(ctx context.Context, addr string) (net.Conn, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	defer ln.Close()
	log.Printf("link: waiting for peer on %s", ln.Addr())

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	conn, err := ln.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("accept %s: %w", addr, err)
	}
	log.Printf("link: peer %s connected", conn.RemoteAddr())
	return conn, nil
}

// Pipe returns two connected in-memory channel ends.
func Pipe() (io.ReadWriteCloser, io.ReadWriteCloser) {
	return net.Pipe()
}
