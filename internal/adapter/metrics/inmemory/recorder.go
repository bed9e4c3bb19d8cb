package inmemory

import (
	"sync"
	"time"

	"starbots/internal/domain/bot"
)

type Snapshot struct {
	Ticks          uint64                       `json:"ticks"`
	LastTickMillis int64                        `json:"last_tick_ms"`
	AgentTotal     uint64                       `json:"agent_total"`
	Applied        uint64                       `json:"applied"`
	Skipped        uint64                       `json:"skipped"`
	Failed         uint64                       `json:"failed"`
	ByClass        map[string]map[string]uint64 `json:"by_class"`
}

type Recorder struct {
	mu        sync.Mutex
	ticks     uint64
	lastTick  time.Duration
	byOutcome map[bot.Outcome]uint64
	byClass   map[bot.ActionClass]map[bot.Outcome]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byOutcome: map[bot.Outcome]uint64{},
		byClass:   map[bot.ActionClass]map[bot.Outcome]uint64{},
	}
}

func (r *Recorder) RecordOutcome(class bot.ActionClass, outcome bot.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if class == "" {
		class = bot.ActionNone
	}
	r.byOutcome[outcome]++
	if r.byClass[class] == nil {
		r.byClass[class] = map[bot.Outcome]uint64{}
	}
	r.byClass[class][outcome]++
}

func (r *Recorder) RecordTick(duration time.Duration, _, _, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	r.lastTick = duration
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		Ticks:          r.ticks,
		LastTickMillis: r.lastTick.Milliseconds(),
		Applied:        r.byOutcome[bot.OutcomeApplied],
		Skipped:        r.byOutcome[bot.OutcomeSkipped],
		Failed:         r.byOutcome[bot.OutcomeFailed],
		ByClass:        make(map[string]map[string]uint64, len(r.byClass)),
	}
	out.AgentTotal = out.Applied + out.Skipped + out.Failed
	for class, outcomes := range r.byClass {
		m := make(map[string]uint64, len(outcomes))
		for o, n := range outcomes {
			m[string(o)] = n
		}
		out.ByClass[string(class)] = m
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
