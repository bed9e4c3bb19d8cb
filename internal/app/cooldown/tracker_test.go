package cooldown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"starbots/internal/adapter/repo/memory"
	"starbots/internal/app/ports"
	"starbots/internal/domain/bot"

	"github.com/stretchr/testify/require"
)

func newTracker() (Tracker, *memory.Store) {
	store := memory.NewStore()
	return NewTracker(memory.NewCooldownRepo(store), memory.NewCounterRepo(store), bot.DefaultTuning().Cooldowns), store
}

func TestTracker_AttackSpacedByCooldown(t *testing.T) {
	tr, _ := newTracker()
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	ok, err := tr.Allowed(ctx, "a", bot.ActionAttack, start)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, tr.Record(ctx, "a", bot.ActionAttack, start))

	ok, err = tr.Allowed(ctx, "a", bot.ActionAttack, start.Add(59*time.Minute))
	require.NoError(t, err)
	require.False(t, ok)

	remaining, err := tr.Remaining(ctx, "a", bot.ActionAttack, start.Add(59*time.Minute+30*time.Second))
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, remaining)

	ok, err = tr.Allowed(ctx, "a", bot.ActionAttack, start.Add(time.Hour))
	require.NoError(t, err)
	require.True(t, ok)

	// other agents and classes are unaffected
	ok, err = tr.Allowed(ctx, "b", bot.ActionAttack, start.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = tr.Allowed(ctx, "a", bot.ActionBuild, start.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTracker_RecordNoneIsNoop(t *testing.T) {
	tr, _ := newTracker()
	now := time.Now()
	require.NoError(t, tr.Record(context.Background(), "a", bot.ActionNone, now))
	_, found, err := tr.Store.LastPerformed(context.Background(), "a", bot.ActionNone)
	require.NoError(t, err)
	require.False(t, found)
}

func TestTracker_StoreErrorIsCollaboratorUnavailable(t *testing.T) {
	tr := NewTracker(failingCooldowns{}, nil, map[bot.ActionClass]time.Duration{bot.ActionBuild: time.Minute})
	_, err := tr.Allowed(context.Background(), "a", bot.ActionBuild, time.Now())
	require.ErrorIs(t, err, ports.ErrCollaboratorUnavailable)
}

func TestTracker_ReserveNeverExceedsCap(t *testing.T) {
	tr, store := newTracker()
	ctx := context.Background()
	const limit = 5

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := tr.TryReserve(ctx, CounterAlliancesCreated, limit)
			if err == nil && ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, limit, granted)
	n, err := memory.NewCounterRepo(store).Get(ctx, CounterAlliancesCreated)
	require.NoError(t, err)
	require.Equal(t, int64(limit), n)

	require.NoError(t, tr.Release(ctx, CounterAlliancesCreated))
	ok, err := tr.TryReserve(ctx, CounterAlliancesCreated, limit)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRemainingSeconds_RoundsUp(t *testing.T) {
	require.Equal(t, 0, RemainingSeconds(0))
	require.Equal(t, 1, RemainingSeconds(time.Millisecond))
	require.Equal(t, 2, RemainingSeconds(1500*time.Millisecond))
	require.Equal(t, 60, RemainingSeconds(time.Minute))
}

type failingCooldowns struct{}

func (failingCooldowns) LastPerformed(context.Context, string, bot.ActionClass) (time.Time, bool, error) {
	return time.Time{}, false, errors.New("kv down")
}

func (failingCooldowns) SetLastPerformed(context.Context, string, bot.ActionClass, time.Time) error {
	return errors.New("kv down")
}
