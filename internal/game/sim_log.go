package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded event during a session.
type SimLogEntry struct {
	Tick     int
	Actor    string  // "S0".."S2", or "--" for session-wide events
	Category string  // input, move, log, collision, session, sync
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // killer id for deaths, events lost for overflows
}

// String formats the entry as one report line.
//
//	[T=042] S1 input/turn       turn right @ (23,100)
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %s %-16s %s", e.Tick, e.Actor, e.Category+"/"+e.Key, e.Value)
}

func (e SimLogEntry) is(category, key string) bool {
	return (category == "" || e.Category == category) && (key == "" || e.Key == key)
}

// SimLog collects structured events during a session. It is unbounded; the
// on-screen feed keeps only the latest lines.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. Per-tick move entries are only kept when
// verbose is true.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(tick int, actor, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Actor:    actor,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, actor, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, actor, category, key, value, numVal)
	}
}

func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }
func (sl *SimLog) Len() int { return len(sl.entries) }

// Count is the number of entries under category/key. An empty string
// matches anything.
func (sl *SimLog) Count(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.is(category, key) {
			n++
		}
	}
	return n
}

// Mentions reports whether some category/key entry has detail in its value.
func (sl *SimLog) Mentions(category, key, detail string) bool {
	for _, e := range sl.entries {
		if e.is(category, key) && strings.Contains(e.Value, detail) {
			return true
		}
	}
	return false
}

// Deaths returns the collision deaths in the order they happened.
func (sl *SimLog) Deaths() []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.is("collision", "death") {
			out = append(out, e)
		}
	}
	return out
}

// Commands counts the accepted and rejected commands for one actor label,
// or for every actor when label is empty.
func (sl *SimLog) Commands(label string) (accepted, rejected int) {
	for _, e := range sl.entries {
		if e.Category != "input" || (label != "" && e.Actor != label) {
			continue
		}
		if e.Key == "rejected" {
			rejected++
		} else {
			accepted++
		}
	}
	return accepted, rejected
}

// Lost is how many trail events an actor has lost to overflow over the
// whole session, placements included.
func (sl *SimLog) Lost(label string) int {
	n := 0
	for _, e := range sl.entries {
		if e.is("log", "overflow") && e.Actor == label {
			n += int(e.NumVal)
		}
	}
	return n
}

// FormatRange renders the entries of ticks fromTick..toTick, one per line.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.entries {
		if e.Tick < fromTick || e.Tick > toTick {
			continue
		}
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
