package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionState is the lifecycle of a session.
type SessionState int

const (
	StateRunning SessionState = iota
	StateEnded
)

func (s SessionState) String() string {
	if s == StateEnded {
		return "ended"
	}
	return "running"
}

var (
	ErrActorCount = errors.New("actor count out of range")
	ErrNoActor    = errors.New("no such actor")
)

// pollInterval is how long Run sleeps between closed gate checks.
const pollInterval = time.Millisecond

// DeathRecord remembers when and how an actor died.
type DeathRecord struct {
	Tick    int
	Actor   int
	At      Position
	Cause   string // "collision" or "command"
	Segment Segment
}

// Session owns up to three snakes and advances them in lock step. All
// methods must be called from one goroutine.
type Session struct {
	ID ulid.ULID

	cfg     Config
	actors  [MaxActors]Snake
	n       int
	sources [MaxActors]CommandSource
	sink    Sink
	log     *SimLog

	tick     int
	state    SessionState
	deaths   []DeathRecord
	accepted [MaxActors]int
	rejected [MaxActors]int
	dropped  [MaxActors]int
}

// NewSession creates a running session with one snake per spec. A nil sink
// discards reports.
func NewSession(cfg Config, specs []ActorSpec, sink Sink) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(specs) == 0 || len(specs) > MaxActors {
		return nil, fmt.Errorf("%w: %d", ErrActorCount, len(specs))
	}
	if sink == nil {
		sink = Discard
	}
	s := &Session{
		ID:   ulid.Make(),
		cfg:  cfg,
		n:    len(specs),
		sink: sink,
		log:  NewSimLog(cfg.Verbose),
	}
	for i, sp := range specs {
		s.actors[i] = NewSnake(i, sp.Start, sp.Dir, sp.Color, cfg.StartLength)
	}
	s.log.Add(0, "--", "session", "start",
		fmt.Sprintf("id=%s actors=%d tps=%d length=%d", s.ID, s.n, cfg.TicksPerSecond, cfg.StartLength), float64(s.n))
	return s, nil
}

// Bind routes a command source to an actor. Passing nil unbinds it.
func (s *Session) Bind(actor int, src CommandSource) error {
	if actor < 0 || actor >= s.n {
		return fmt.Errorf("%w: %d", ErrNoActor, actor)
	}
	s.sources[actor] = src
	return nil
}

// Place overrides an actor's start point and heading, restarting its growth.
func (s *Session) Place(actor int, pos Position, dir Direction) error {
	if actor < 0 || actor >= s.n {
		return fmt.Errorf("%w: %d", ErrNoActor, actor)
	}
	if !dir.Valid() {
		dir = s.actors[actor].Heading()
	}
	s.actors[actor].Place(pos, dir, s.cfg.StartLength)
	s.dropped[actor] = 0
	s.log.Add(s.tick, s.actors[actor].Label(), "sync", "place",
		fmt.Sprintf("%s %s", pos, dir), 0)
	return nil
}

func (s *Session) Config() Config { return s.cfg }
func (s *Session) Log() *SimLog { return s.log }
func (s *Session) CurrentTick() int { return s.tick }
func (s *Session) State() SessionState { return s.state }
func (s *Session) Ended() bool { return s.state == StateEnded }
func (s *Session) NumActors() int { return s.n }

// Deaths lists every death in the order it happened.
func (s *Session) Deaths() []DeathRecord { return s.deaths }

// Actor returns the snake at index i for inspection, or nil.
func (s *Session) Actor(i int) *Snake {
	if i < 0 || i >= s.n {
		return nil
	}
	return &s.actors[i]
}

// States snapshots every actor.
func (s *Session) States() []ActorState {
	out := make([]ActorState, s.n)
	for i := 0; i < s.n; i++ {
		out[i] = s.actors[i].State()
	}
	return out
}

// Stop ends the session from outside.
func (s *Session) Stop() {
	if s.state == StateEnded {
		return
	}
	s.state = StateEnded
	s.log.Add(s.tick, "--", "session", "stop", "external stop", 0)
}

// Tick runs one simulation step:
//
//  1. apply at most one command per bound source
//  2. advance every live snake
//  3. detect collisions against post-move geometry and kill the losers
//  4. report the result to the sink
//
// It returns nil once the session has ended.
func (s *Session) Tick() *TickReport {
	if s.state == StateEnded {
		return nil
	}
	s.tick++
	r := &TickReport{Tick: s.tick}

	s.applyCommands(r)
	s.advance(r)
	if s.cfg.Authoritative {
		s.resolveCollisions(r)
	}
	s.noteOverflow()

	r.Actors = s.States()
	if s.allDead() {
		s.state = StateEnded
		r.Ended = true
		s.log.Add(s.tick, "--", "session", "ended", "all actors dead", 0)
	}
	s.sink.Report(r)
	return r
}

func (s *Session) applyCommands(r *TickReport) {
	for i := 0; i < s.n; i++ {
		src := s.sources[i]
		if src == nil {
			continue
		}
		cmd, ok := src.NextCommand()
		if !ok || cmd.Kind == CmdNone {
			continue
		}
		ac := s.apply(i, cmd)
		r.Applied = append(r.Applied, ac)
		if cmd.Kind == CmdKill && ac.Accepted {
			r.Kills = append(r.Kills, i)
		}
	}
}

// apply executes cmd against one actor and logs the outcome.
func (s *Session) apply(i int, cmd Command) AppliedCommand {
	sn := &s.actors[i]
	at := sn.Head()
	accepted := false
	switch cmd.Kind {
	case CmdDirection:
		accepted = sn.SetDirection(cmd.Dir)
	case CmdLayer:
		accepted = sn.ToggleLayer()
	case CmdKill:
		if sn.Alive() {
			sn.Kill()
			accepted = true
			s.deaths = append(s.deaths, DeathRecord{Tick: s.tick, Actor: i, At: at, Cause: "command"})
			s.log.Add(s.tick, sn.Label(), "collision", "killed", "external kill at "+at.String(), 0)
		}
	}
	if accepted {
		s.accepted[i]++
		s.log.Add(s.tick, sn.Label(), "input", cmdKey(cmd), fmt.Sprintf("%s @ %s", cmd, at), 0)
	} else {
		s.rejected[i]++
		s.log.Add(s.tick, sn.Label(), "input", "rejected", fmt.Sprintf("%s @ %s heading %s", cmd, at, sn.Heading()), 0)
	}
	return AppliedCommand{Actor: i, Command: cmd, Accepted: accepted, At: at, Layer: sn.Layer()}
}

func cmdKey(cmd Command) string {
	switch cmd.Kind {
	case CmdDirection:
		return "turn"
	case CmdLayer:
		return "layer"
	case CmdKill:
		return "kill"
	}
	return "none"
}

// advance moves every live snake and collects display updates. Erases are
// listed before paints so a tail never blanks a head that entered the same
// cell this tick.
func (s *Session) advance(r *TickReport) {
	var paints []Cell
	for i := 0; i < s.n; i++ {
		sn := &s.actors[i]
		if !sn.Alive() {
			continue
		}
		m := sn.Update()
		if m.HeadLayer == s.cfg.VisibleLayer {
			paints = append(paints, Cell{Pos: m.Head, Color: sn.Color, Layer: m.HeadLayer, Actor: i})
		}
		if m.TailMoved && m.TailLayer == s.cfg.VisibleLayer {
			r.Cells = append(r.Cells, Cell{Pos: m.Tail, Layer: m.TailLayer, Erase: true, Actor: i})
		}
		if m.Replayed > 0 {
			s.log.AddVerbose(s.tick, sn.Label(), "move", "replay",
				fmt.Sprintf("tail %s now %s", m.Tail, sn.TailHeading()), float64(m.Replayed))
		}
		s.log.AddVerbose(s.tick, sn.Label(), "move", "head",
			fmt.Sprintf("%s %s L%d", m.Head, sn.Heading(), m.HeadLayer), 0)
	}
	r.Cells = append(r.Cells, paints...)
}

func (s *Session) resolveCollisions(r *TickReport) {
	hits := DetectCollisions(s.actors[:s.n])
	for _, h := range hits {
		sn := &s.actors[h.Victim]
		sn.Kill()
		r.Deaths = append(r.Deaths, h)
		s.deaths = append(s.deaths, DeathRecord{
			Tick:    s.tick,
			Actor:   h.Victim,
			At:      h.At,
			Cause:   "collision",
			Segment: h.Segment,
		})
		s.log.Add(s.tick, sn.Label(), "collision", "death", h.String(), float64(h.Segment.Owner))
	}
}

func (s *Session) noteOverflow() {
	for i := 0; i < s.n; i++ {
		d := s.actors[i].log.Dropped()
		if d > s.dropped[i] {
			s.log.Add(s.tick, s.actors[i].Label(), "log", "overflow",
				fmt.Sprintf("%d events dropped", d-s.dropped[i]), float64(d-s.dropped[i]))
			s.dropped[i] = d
		}
	}
}

func (s *Session) allDead() bool {
	for i := 0; i < s.n; i++ {
		if s.actors[i].Alive() {
			return false
		}
	}
	return true
}

// Run ticks the session whenever gate opens until it ends or ctx is done.
func (s *Session) Run(ctx context.Context, gate *Gate) error {
	for !s.Ended() {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		default:
		}
		if !gate.Ready() {
			time.Sleep(pollInterval)
			continue
		}
		s.Tick()
	}
	return nil
}
