package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"starbots/internal/domain/bot"

	"github.com/stretchr/testify/require"
)

func TestGame_CandidateTargetsExcludesOwnAndSortsByDistance(t *testing.T) {
	g := NewGame()
	g.AddTarget(bot.Target{ID: "far", OwnerID: "x", Coordinates: bot.Coordinates{Galaxy: 2, System: 1, Position: 1}})
	g.AddTarget(bot.Target{ID: "own", OwnerID: "me", Coordinates: bot.Coordinates{Galaxy: 1, System: 1, Position: 2}})
	g.AddTarget(bot.Target{ID: "near", OwnerID: "y", Coordinates: bot.Coordinates{Galaxy: 1, System: 1, Position: 5}})
	g.AddTarget(bot.Target{ID: "mid", OwnerID: "z", Coordinates: bot.Coordinates{Galaxy: 1, System: 4, Position: 1}})

	me := bot.Agent{ID: "me", Home: bot.Coordinates{Galaxy: 1, System: 1, Position: 1}}
	got, err := g.CandidateTargets(context.Background(), me, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "near", got[0].ID)
	require.Equal(t, "mid", got[1].ID)
}

func TestGame_ApplyTracksAlliancesAndFailures(t *testing.T) {
	g := NewGame()
	ctx := context.Background()

	create := bot.Directive{AgentID: "a", Class: bot.ActionAlliance, Params: bot.DirectiveParams{AllianceOp: bot.AllianceCreate, AllianceID: "al-1", AllianceName: "x"}}
	require.NoError(t, g.Apply(ctx, create))
	require.Error(t, g.Apply(ctx, create))

	join := bot.Directive{AgentID: "b", Class: bot.ActionAlliance, Params: bot.DirectiveParams{AllianceOp: bot.AllianceJoin, AllianceID: "al-1"}}
	require.NoError(t, g.Apply(ctx, join))
	alliances, err := g.EligibleAlliances(ctx, bot.Agent{})
	require.NoError(t, err)
	require.Len(t, alliances, 1)
	require.Equal(t, 2, alliances[0].Members)

	boom := errors.New("game down")
	g.FailFor("c", boom)
	require.ErrorIs(t, g.Apply(ctx, bot.Directive{AgentID: "c", Class: bot.ActionBuild}), boom)
	g.FailFor("c", nil)
	require.NoError(t, g.Apply(ctx, bot.Directive{AgentID: "c", Class: bot.ActionBuild}))
	require.Len(t, g.Applied(), 3)
}

func TestGame_ScanReturnsRegisteredFleets(t *testing.T) {
	g := NewGame()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g.AddIncoming("p1", bot.IncomingFleet{OwnerID: "def", Defensive: true, ArrivesAt: at})

	got, err := g.Scan(context.Background(), bot.Agent{}, bot.Target{ID: "p1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Defensive)

	none, err := g.Scan(context.Background(), bot.Agent{}, bot.Target{ID: "p2"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSeedWorld_AssignsEveryPersonality(t *testing.T) {
	g := NewGame()
	agents := SeedWorld(g, 8, time.Now())
	require.Len(t, agents, 8)
	seen := map[bot.Personality]bool{}
	for _, a := range agents {
		require.True(t, a.Personality.Valid())
		seen[a.Personality] = true
	}
	require.Len(t, seen, 4)

	targets, err := g.CandidateTargets(context.Background(), agents[0], 0)
	require.NoError(t, err)
	require.Len(t, targets, 7)
}
