package bot

import (
	"testing"
	"time"
)

func TestIsDue_InactiveNeverDue(t *testing.T) {
	a := Agent{ID: "a", Active: false, CycleMinutes: 60, WindowMinutes: 60}
	if IsDue(a, time.Now()) {
		t.Fatalf("inactive agent must never be due")
	}
}

func TestIsDue_FullWindowAlwaysDue(t *testing.T) {
	a := Agent{ID: "a", Active: true, CycleMinutes: 60, WindowMinutes: 60}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 120 {
		if !IsDue(a, base.Add(time.Duration(i)*time.Minute)) {
			t.Fatalf("full-window agent not due at minute %d", i)
		}
	}
	if !IsDue(Agent{ID: "b", Active: true}, base) {
		t.Fatalf("agent without a cycle should be due")
	}
}

func TestIsDue_WindowFractionOfCycle(t *testing.T) {
	a := Agent{ID: "bot-42", Active: true, CycleMinutes: 60, WindowMinutes: 15}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	due := 0
	for i := range 60 {
		if IsDue(a, base.Add(time.Duration(i)*time.Minute)) {
			due++
		}
	}
	if due != 15 {
		t.Fatalf("due minutes per cycle = %d, want 15", due)
	}
	if IsDue(Agent{ID: "c", Active: true, CycleMinutes: 60, WindowMinutes: 0}, base) {
		t.Fatalf("zero window must never be due")
	}
}

func TestWindowOffset_StableAndInRange(t *testing.T) {
	for _, id := range []string{"a", "bot-1", "bot-2", "some-long-agent-identifier"} {
		off := WindowOffset(id, 37)
		if off < 0 || off >= 37 {
			t.Fatalf("offset for %s = %d, out of [0,37)", id, off)
		}
		if again := WindowOffset(id, 37); again != off {
			t.Fatalf("offset for %s not stable: %d vs %d", id, off, again)
		}
	}
	if WindowOffset("a", 0) != 0 {
		t.Fatalf("offset with empty cycle should be 0")
	}
}
