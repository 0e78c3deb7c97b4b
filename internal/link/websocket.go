package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteWait = 2 * time.Second

// wsStream presents a websocket as a byte stream. Every Write becomes one
// binary message; Read drains messages in order.
type wsStream struct {
	conn *websocket.Conn
	r    io.Reader

	wmu sync.Mutex
}

func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.r == nil {
			mt, r, err := s.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			if mt != websocket.BinaryMessage {
				continue
			}
			s.r = r
		}
		n, err := s.r.Read(p)
		if errors.Is(err, io.EOF) {
			s.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *wsStream) Close() error {
	s.wmu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
	s.wmu.Unlock()
	return s.conn.Close()
}

// DialWebsocket connects to a websocket bridge.
func DialWebsocket(ctx context.Context, rawURL string) (io.ReadWriteCloser, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rawURL, err)
	}
	log.Printf("link: websocket connected %s", rawURL)
	return newWSStream(conn), nil
}

// ServeWebsocket serves path on addr until one client upgrades, then shuts
// the listener down and returns that client's stream.
func ServeWebsocket(ctx context.Context, addr, path string) (io.ReadWriteCloser, error) {
	if path == "" {
		path = "/"
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return serveOne(ctx, ln, path)
}

func serveOne(ctx context.Context, ln net.Listener, path string) (io.ReadWriteCloser, error) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	got := make(chan *websocket.Conn, 1)

	var once sync.Once
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("link: websocket upgrade: %v", err)
			return
		}
		taken := false
		once.Do(func() {
			got <- conn
			taken = true
		})
		if !taken {
			_ = conn.Close()
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("link: websocket server: %v", err)
		}
	}()
	log.Printf("link: waiting for websocket peer on %s%s", ln.Addr(), path)

	select {
	case conn := <-got:
		// Hijacked connections are not tracked by the server and survive Close.
		_ = srv.Close()
		log.Printf("link: websocket peer %s connected", conn.RemoteAddr())
		return newWSStream(conn), nil
	case <-ctx.Done():
		_ = srv.Close()
		return nil, ctx.Err()
	}
}
