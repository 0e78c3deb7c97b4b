package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/Garsondee/Layer-Snake/internal/game"
	"github.com/Garsondee/Layer-Snake/internal/node"
	"github.com/Garsondee/Layer-Snake/internal/trace"
	"github.com/Garsondee/Layer-Snake/internal/ui"
)

func main() {
	var role, link1, link2, linkURL, tracePath string
	var tps, startLength, visible, scale int
	var verbose bool

	flag.StringVar(&role, "role", "solo", "node role: solo, host or client")
	flag.StringVar(&link1, "link1", "", "host: link carrying S1's commands")
	flag.StringVar(&link2, "link2", "", "host: link carrying S2's commands")
	flag.StringVar(&linkURL, "link", "", "client: link to the host")
	flag.IntVar(&tps, "tps", 0, "ticks per second (default 60 for hosts, 24 for clients)")
	flag.IntVar(&startLength, "start-length", game.DefaultStartLength, "ticks every snake grows before its tail moves")
	flag.IntVar(&visible, "visible", 0, "layer drawn on this display (0 or 1)")
	flag.IntVar(&scale, "scale", ui.DefaultScale, "pixels per board cell")
	flag.StringVar(&tracePath, "trace", "", "record a protowire trace to this file")
	flag.BoolVar(&verbose, "verbose", false, "record per-tick move entries")
	flag.Parse()

	cfg := game.DefaultConfig()
	cfg.StartLength = startLength
	cfg.VisibleLayer = game.Layer(visible)
	cfg.Verbose = verbose
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

	var rec *trace.Recorder
	keys := ui.NewKeyboard(ui.DefaultKeys)
	n, err := node.Build(ctx, node.Options{
		Role:  role,
		Links: links,
		Game:  cfg,
		Local: ui.LocalInput(keys, cfg.JoystickThreshold),
		Sink: game.SinkFunc(func(r *game.TickReport) {
			if rec != nil {
				rec.Report(r)
			}
		}),
	})
	if err != nil {
		log.Fatal(err)
	}
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			log.Fatal(err)
		}
		if rec, err = trace.NewRecorder(f, n.Session()); err != nil {
			log.Fatal(err)
		}
	}
	if err := n.Start(ctx); err != nil {
		log.Fatal(err)
	}

	g := ui.New(n, keys, scale)
	runErr := g.Run("Layer Snake (" + role + ")")
	if err := n.Close(); err != nil {
		log.Printf("close: %v", err)
	}
	if rec != nil {
		if err := rec.Close(); err != nil {
			log.Printf("trace: %v", err)
		}
	}
	out := game.DetermineMatchOutcome(n.Session())
	log.Printf("session %s: %s at T=%d", n.Session().ID, out.Description, n.Session().CurrentTick())
	if runErr != nil {
		log.Fatal(runErr)
	}
}
