package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/Garsondee/Layer-Snake/internal/node"
	"github.com/Garsondee/Layer-Snake/internal/tty"
	"github.com/gdamore/tcell/v2"
)

func main() {
	var role, link1, link2, linkURL, logPath string
	var tps, startLength, visible int

	flag.StringVar(&role, "role", "solo", "node role: solo, host or client")
	flag.StringVar(&link1, "link1", "", "host: link carrying S1's commands")
	flag.StringVar(&link2, "link2", "", "host: link carrying S2's commands")
	flag.StringVar(&linkURL, "link", "", "client: link to the host")
	flag.IntVar(&tps, "tps", 0, "ticks per second (default 60 for hosts, 24 for clients)")
	flag.IntVar(&startLength, "start-length", game.DefaultStartLength, "ticks every snake grows before its tail moves")
	flag.IntVar(&visible, "visible", 0, "layer drawn on this display (0 or 1)")
	flag.StringVar(&logPath, "log", "snake-tty.log", "log file; the terminal is taken by the board")
	flag.Parse()

	lf, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatal(err)
	}
	defer lf.Close()
	log.SetOutput(lf)

	cfg := game.DefaultConfig()
	cfg.StartLength = startLength
	cfg.VisibleLayer = game.Layer(visible)
	cfg.TicksPerSecond = tps
	if tps == 0 {
		cfg.TicksPerSecond = game.FastTicksPerSecond
		if role == "client" {
			cfg.TicksPerSecond = game.SlowTicksPerSecond
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	var links []string
	switch role {
	case "client":
		links = append(links, linkURL)
	case "host":
		for _, l := range []string{link1, link2} {
			if l != "" {
				links = append(links, l)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	keys := &tty.Keys{}
	n, err := node.Build(ctx, node.Options{Role: role, Links: links, Game: cfg, Local: keys})
	if err != nil {
		log.Fatal(err)
	}
	if err := n.Start(ctx); err != nil {
		log.Fatal(err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}
	runErr := tty.Run(ctx, screen, n, keys)
	screen.Fini()

	if err := n.Close(); err != nil {
		log.Printf("close: %v", err)
	}
	out := game.DetermineMatchOutcome(n.Session())
	log.Printf("session %s: %s at T=%d", n.Session().ID, out.Description, n.Session().CurrentTick())
	if runErr != nil && runErr != context.Canceled {
		log.Fatal(runErr)
	}
}
