package game

// EventLogCapacity is the number of slots in an actor's trail log. At most
// EventLogCapacity-1 events can be pending; one more overwrites the oldest.
const EventLogCapacity = 128

// EventKind says what a TrailEvent changes when the tail reaches it.
type EventKind uint8

const (
	EventTurn EventKind = iota
	EventLayerOn
	EventLayerOff
)

func (k EventKind) String() string {
	switch k {
	case EventTurn:
		return "turn"
	case EventLayerOn:
		return "layer_on"
	case EventLayerOff:
		return "layer_off"
	}
	return "unknown"
}

// TrailEvent records a direction or layer change at the cell where the head
// was standing when the command was accepted.
type TrailEvent struct {
	Pos   Position
	Kind  EventKind
	Dir   Direction // heading in effect after the event
	Layer Layer     // layer in effect after the event
	Step  uint32    // head step count when the event was written
}

// apply changes the cursor's heading or layer to match the event.
func (e TrailEvent) apply(c *cursor) {
	switch e.Kind {
	case EventTurn:
		c.Dir = e.Dir
	case EventLayerOn, EventLayerOff:
		c.Layer = e.Layer
	}
}

// EventLog is a fixed-capacity circular buffer of trail events. The write
// cursor points at the next free slot, the read cursor at the oldest event the
// tail has not reached yet.
type EventLog struct {
	events  [EventLogCapacity]TrailEvent
	write   int
	read    int
	dropped int
}

// Append stores ev at the write cursor. When the buffer is full the oldest
// pending event is dropped to make room.
func (l *EventLog) Append(ev TrailEvent) {
	l.events[l.write] = ev
	l.write = (l.write + 1) % EventLogCapacity
	if l.write == l.read {
		l.read = (l.read + 1) % EventLogCapacity
		l.dropped++
	}
}

// Empty reports whether every written event has been consumed.
func (l *EventLog) Empty() bool {
	return l.read == l.write
}

// Len is the number of pending events.
func (l *EventLog) Len() int {
	return (l.write - l.read + EventLogCapacity) % EventLogCapacity
}

// Dropped counts events lost to overflow since the log was created.
func (l *EventLog) Dropped() int {
	return l.dropped
}

// Oldest returns the event at the read cursor without consuming it.
func (l *EventLog) Oldest() (TrailEvent, bool) {
	if l.Empty() {
		return TrailEvent{}, false
	}
	return l.events[l.read], true
}

// Newest returns the most recently appended pending event.
func (l *EventLog) Newest() (TrailEvent, bool) {
	if l.Empty() {
		return TrailEvent{}, false
	}
	return l.events[(l.write+EventLogCapacity-1)%EventLogCapacity], true
}

// Consume advances the read cursor past the oldest event.
func (l *EventLog) Consume() {
	if l.Empty() {
		return
	}
	l.read = (l.read + 1) % EventLogCapacity
}

// Pending calls fn for every unconsumed event, oldest first, until fn
// returns false.
func (l *EventLog) Pending(fn func(TrailEvent) bool) {
	for i := l.read; i != l.write; i = (i + 1) % EventLogCapacity {
		if !fn(l.events[i]) {
			return
		}
	}
}
