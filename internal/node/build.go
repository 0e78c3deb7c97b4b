package node

import (
	"context"
	"fmt"
	"io"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/Garsondee/Layer-Snake/internal/link"
)

// Options describes a node as the commands configure it.
type Options struct {
	Role  string   // "host", "client" or "solo"
	Links []string // link URLs: up to two for a host, exactly one for a client
	Game  game.Config
	Local game.CommandSource
	Sink  game.Sink
}

// Build opens the links and constructs the node. A solo node is a host
// without links.
func Build(ctx context.Context, o Options) (Node, error) {
	var links []io.ReadWriteCloser
	closeAll := func() {
		for _, rw := range links {
			rw.Close()
		}
	}
	switch o.Role {
	case "solo":
		if len(o.Links) > 0 {
			return nil, fmt.Errorf("solo node takes no links")
		}
	case "host":
		if len(o.Links) == 0 || len(o.Links) >= game.MaxActors {
			return nil, fmt.Errorf("host needs 1..%d links, got %d", game.MaxActors-1, len(o.Links))
		}
	case "client":
		if len(o.Links) != 1 {
			return nil, fmt.Errorf("client needs exactly one link, got %d", len(o.Links))
		}
	default:
		return nil, fmt.Errorf("unknown role %q", o.Role)
	}
	for _, u := range o.Links {
		rw, err := link.Open(ctx, u)
		if err != nil {
			closeAll()
			return nil, err
		}
		links = append(links, rw)
	}

	var n Node
	var err error
	if o.Role == "client" {
		n, err = NewClient(ClientConfig{Game: o.Game, Local: o.Local, Link: links[0], Sink: o.Sink})
	} else {
		n, err = NewHost(HostConfig{Game: o.Game, Local: o.Local, Links: links, Sink: o.Sink})
	}
	if err != nil {
		closeAll()
		return nil, err
	}
	return n, nil
}
