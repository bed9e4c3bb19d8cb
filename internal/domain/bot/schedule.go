package bot

import (
	"hash/fnv"
	"time"
)

// WindowOffset spreads agents across their cycle so windows do not all align.
func WindowOffset(agentID string, cycleMinutes int) int {
	if cycleMinutes <= 0 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(agentID))
	return int(h.Sum32() % uint32(cycleMinutes))
}

// IsDue reports whether now falls inside the agent's active window.
// A window covering the whole cycle, or a missing cycle, is always due.
func IsDue(a Agent, now time.Time) bool {
	if !a.Active {
		return false
	}
	cycle := a.CycleMinutes
	window := a.WindowMinutes
	if cycle <= 0 || window >= cycle {
		return true
	}
	if window <= 0 {
		return false
	}
	minute := now.Unix() / 60
	slot := (minute + int64(WindowOffset(a.ID, cycle))) % int64(cycle)
	return slot < int64(window)
}

// DueFunc selects agents for a tick.
type DueFunc func(a Agent, now time.Time) bool
