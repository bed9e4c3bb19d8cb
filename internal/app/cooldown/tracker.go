package cooldown

import (
	"context"
	"fmt"
	"time"

	"starbots/internal/app/ports"
	"starbots/internal/domain/bot"
)

const CounterAlliancesCreated = "alliances_created"

// Tracker gates action classes per agent and reserves population caps.
type Tracker struct {
	Store     ports.CooldownStore
	Counters  ports.CounterStore
	Durations map[bot.ActionClass]time.Duration
}

func NewTracker(store ports.CooldownStore, counters ports.CounterStore, durations map[bot.ActionClass]time.Duration) Tracker {
	return Tracker{Store: store, Counters: counters, Durations: durations}
}

func (t Tracker) Remaining(ctx context.Context, agentID string, class bot.ActionClass, now time.Time) (time.Duration, error) {
	cooldown, ok := t.Durations[class]
	if !ok || cooldown <= 0 {
		return 0, nil
	}
	lastAt, found, err := t.Store.LastPerformed(ctx, agentID, class)
	if err != nil {
		return 0, fmt.Errorf("%w: load cooldown %s/%s: %v", ports.ErrCollaboratorUnavailable, agentID, class, err)
	}
	if !found || lastAt.IsZero() {
		return 0, nil
	}
	remaining := cooldown - now.Sub(lastAt)
	if remaining <= 0 {
		return 0, nil
	}
	return remaining, nil
}

func (t Tracker) Allowed(ctx context.Context, agentID string, class bot.ActionClass, now time.Time) (bool, error) {
	remaining, err := t.Remaining(ctx, agentID, class, now)
	if err != nil {
		return false, err
	}
	return remaining == 0, nil
}

func (t Tracker) Record(ctx context.Context, agentID string, class bot.ActionClass, now time.Time) error {
	if class == bot.ActionNone || class == "" {
		return nil
	}
	return t.Store.SetLastPerformed(ctx, agentID, class, now)
}

// TryReserve takes one slot of a population counter. A full counter is not an error.
func (t Tracker) TryReserve(ctx context.Context, counter string, max int64) (bool, error) {
	ok, err := t.Counters.TryIncrement(ctx, counter, max)
	if err != nil {
		return false, fmt.Errorf("%w: reserve %s: %v", ports.ErrCollaboratorUnavailable, counter, err)
	}
	return ok, nil
}

func (t Tracker) Release(ctx context.Context, counter string) error {
	return t.Counters.Decrement(ctx, counter)
}

// RemainingSeconds rounds up so a blocked action never reports zero.
func RemainingSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
