package game

import (
	"fmt"
	"strings"
)

// DebugReport renders a plain-text dump of the session: configuration,
// outcome, every actor's geometry and the log of the last lastTicks ticks.
// It is what the UI copies to the clipboard and what the headless runner
// prints.
func DebugReport(s *Session, lastTicks int) string {
	if s == nil {
		return ""
	}
	if lastTicks <= 0 {
		lastTicks = 120
	}
	toTick := s.tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- layer-snake debug report ---\n")
	fmt.Fprintf(&b, "session=%s tick=%d state=%s tick_range=[%d..%d]\n", s.ID, s.tick, s.state, fromTick, toTick)
	fmt.Fprintf(&b, "tps=%d length=%d visible=L%d authoritative=%v\n\n",
		s.cfg.TicksPerSecond, s.cfg.StartLength, s.cfg.VisibleLayer, s.cfg.Authoritative)

	out := DetermineMatchOutcome(s)
	fmt.Fprintf(&b, "outcome=%s survivors=%d/%d last_death=T%d (%s)\n\n",
		out.Outcome, out.Survivors, out.Total, out.LastDeath, out.Description)

	for i := 0; i < s.n; i++ {
		sn := &s.actors[i]
		st := sn.State()
		state := "alive"
		if !st.Alive {
			state = "dead"
		}
		fmt.Fprintf(&b, "== %s (%s) ==\n", sn.Label(), state)
		fmt.Fprintf(&b, "head=%s %s L%d  tail=%s %s L%d  growth=%d pending=%d dropped=%d lost=%d tail_lost=%v\n",
			st.Head, st.HeadDir, st.HeadLayer, st.Tail, st.TailDir, st.TailLayer,
			st.Growth, st.Pending, sn.log.Dropped(), s.log.Lost(sn.Label()), sn.tailLost)
		fmt.Fprintf(&b, "commands: accepted=%d rejected=%d\n", s.accepted[i], s.rejected[i])
		b.WriteString("segments:\n")
		sn.Segments(func(sg Segment) bool {
			fmt.Fprintf(&b, "  - %-7s %s len=%d\n", sg.Kind, sg, sg.Len)
			return true
		})
		b.WriteByte('\n')
	}

	if len(s.deaths) > 0 {
		b.WriteString("== deaths ==\n")
		for _, d := range s.deaths {
			fmt.Fprintf(&b, "  T=%03d S%d at %s by %s", d.Tick, d.Actor, d.At, d.Cause)
			if d.Cause == "collision" {
				fmt.Fprintf(&b, " (%s)", d.Segment)
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString("== log ==\n")
	log := s.log.FormatRange(fromTick, toTick)
	if log == "" {
		b.WriteString("(no entries)\n")
	} else {
		b.WriteString(log)
	}
	return b.String()
}
