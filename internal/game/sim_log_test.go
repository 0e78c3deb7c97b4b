package game

import "testing"

func TestSimLog_SnakeQueries(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "S0", "input", "turn", "turn up @ (1,1)", 0)
	sl.Add(2, "S0", "input", "rejected", "turn down @ (1,0) heading up", 0)
	sl.Add(2, "S1", "input", "layer", "layer @ (5,5)", 0)
	sl.Add(3, "S1", "collision", "death", "S1 at (5,6) hit S0/head", 0)
	sl.Add(4, "S0", "log", "overflow", "2 events dropped", 2)
	sl.Add(9, "S0", "log", "overflow", "1 events dropped", 1)
	sl.AddVerbose(9, "S0", "move", "head", "(2,2)", 0)

	if acc, rej := sl.Commands("S0"); acc != 1 || rej != 1 {
		t.Errorf("S0 commands = %d/%d", acc, rej)
	}
	if acc, rej := sl.Commands(""); acc != 2 || rej != 1 {
		t.Errorf("all commands = %d/%d", acc, rej)
	}
	if d := sl.Deaths(); len(d) != 1 || d[0].Actor != "S1" {
		t.Errorf("deaths = %v", d)
	}
	if got := sl.Lost("S0"); got != 3 {
		t.Errorf("Lost(S0) = %d", got)
	}
	if sl.Count("move", "") != 0 {
		t.Error("verbose entry kept with verbose off")
	}
	if !sl.Mentions("collision", "", "hit S0") || sl.Mentions("input", "turn", "left") {
		t.Error("Mentions mismatch")
	}
	if got := sl.FormatRange(3, 4); got != sl.Entries()[3].String()+"\n"+sl.Entries()[4].String()+"\n" {
		t.Errorf("FormatRange:\n%s", got)
	}
}
