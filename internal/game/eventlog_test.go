package game

import "testing"

func turnAt(x, y int, d Direction) TrailEvent {
	return TrailEvent{Pos: Normalize(x, y), Kind: EventTurn, Dir: d}
}

func TestEventLog_FIFO(t *testing.T) {
	var l EventLog
	if !l.Empty() {
		t.Fatal("new log should be empty")
	}
	l.Append(turnAt(1, 1, Up))
	l.Append(turnAt(2, 2, Right))
	l.Append(turnAt(3, 3, Down))

	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	if ev, _ := l.Oldest(); ev.Pos != (Position{1, 1}) {
		t.Errorf("Oldest = %s, want (1,1)", ev.Pos)
	}
	if ev, _ := l.Newest(); ev.Pos != (Position{3, 3}) {
		t.Errorf("Newest = %s, want (3,3)", ev.Pos)
	}
	l.Consume()
	if ev, _ := l.Oldest(); ev.Pos != (Position{2, 2}) {
		t.Errorf("after Consume Oldest = %s, want (2,2)", ev.Pos)
	}

	var seen []Position
	l.Pending(func(ev TrailEvent) bool {
		seen = append(seen, ev.Pos)
		return true
	})
	if len(seen) != 2 || seen[0] != (Position{2, 2}) || seen[1] != (Position{3, 3}) {
		t.Errorf("Pending order = %v", seen)
	}
}

func TestEventLog_ConsumeEmpty(t *testing.T) {
	var l EventLog
	l.Consume()
	if !l.Empty() || l.Len() != 0 {
		t.Fatal("consuming an empty log must be a no-op")
	}
	if _, ok := l.Oldest(); ok {
		t.Fatal("Oldest on empty log should report false")
	}
}

func TestEventLog_OverflowDropsOldest(t *testing.T) {
	var l EventLog
	for i := 0; i < EventLogCapacity; i++ {
		l.Append(turnAt(i, 0, Right))
	}
	if l.Dropped() != 1 {
		t.Fatalf("Dropped = %d, want 1", l.Dropped())
	}
	if l.Len() != EventLogCapacity-1 {
		t.Fatalf("Len = %d, want %d", l.Len(), EventLogCapacity-1)
	}
	ev, _ := l.Oldest()
	if ev.Pos.X != 1 {
		t.Errorf("Oldest X = %d, want 1 (event 0 dropped)", ev.Pos.X)
	}
	ev, _ = l.Newest()
	if int(ev.Pos.X) != EventLogCapacity-1 {
		t.Errorf("Newest X = %d, want %d", ev.Pos.X, EventLogCapacity-1)
	}
}

func TestEventLog_PendingStopsEarly(t *testing.T) {
	var l EventLog
	for i := 0; i < 5; i++ {
		l.Append(turnAt(i, 0, Right))
	}
	n := 0
	l.Pending(func(TrailEvent) bool {
		n++
		return n < 2
	})
	if n != 2 {
		t.Fatalf("visited %d events, want 2", n)
	}
}
