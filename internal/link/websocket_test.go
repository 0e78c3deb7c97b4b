package link

import (
	"context"
	"io"
	"net"
	"testing"
	"time"
)

func TestWebsocket_RoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("no loopback: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type result struct {
		rw  io.ReadWriteCloser
		err error
	}
	served := make(chan result, 1)
	go func() {
		rw, err := serveOne(ctx, ln, "/link")
		served <- result{rw, err}
	}()

	client, err := DialWebsocket(ctx, "ws://"+ln.Addr().String()+"/link")
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()
	res := <-served
	if res.err != nil {
		t.Fatal(res.err)
	}
	server := res.rw
	defer server.Close()

	if _, err := client.Write([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := client.Write([]byte{4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, SyncPacketSize)
	if _, err := io.ReadFull(server, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != string([]byte{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("server read %v", buf)
	}

	if _, err := server.Write([]byte{CommandLayer}); err != nil {
		t.Fatal(err)
	}
	one := make([]byte, 1)
	if _, err := io.ReadFull(client, one); err != nil || one[0] != CommandLayer {
		t.Fatalf("client read %v %v", one, err)
	}
}
