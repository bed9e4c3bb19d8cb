// Package mock is an in-process stand-in for the game server. It backs the
// intel, alliance, phalanx and mutation collaborators for local runs and tests.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"starbots/internal/domain/bot"
)

type Game struct {
	mu        sync.RWMutex
	targets   []bot.Target
	alliances map[string]bot.Alliance
	incoming  map[string][]bot.IncomingFleet
	applied   []bot.Directive
	failures  map[string]error
}

func NewGame() *Game {
	return &Game{
		alliances: map[string]bot.Alliance{},
		incoming:  map[string][]bot.IncomingFleet{},
		failures:  map[string]error{},
	}
}

func (g *Game) AddTarget(t bot.Target) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.targets = append(g.targets, t)
}

func (g *Game) AddAlliance(a bot.Alliance) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.alliances[a.ID] = a
}

// AddIncoming registers a fleet heading for the target's planet.
func (g *Game) AddIncoming(targetID string, f bot.IncomingFleet) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.incoming[targetID] = append(g.incoming[targetID], f)
}

// FailFor makes every mutation for agentID return err. A nil err clears it.
func (g *Game) FailFor(agentID string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failures, agentID)
		return
	}
	g.failures[agentID] = err
}

func (g *Game) Applied() []bot.Directive {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]bot.Directive, len(g.applied))
	copy(out, g.applied)
	return out
}

func (g *Game) Apply(ctx context.Context, d bot.Directive) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failures[d.AgentID]; err != nil {
		return err
	}
	if d.Class == bot.ActionAlliance {
		switch d.Params.AllianceOp {
		case bot.AllianceCreate:
			if _, exists := g.alliances[d.Params.AllianceID]; exists {
				return fmt.Errorf("alliance %s already exists", d.Params.AllianceID)
			}
			g.alliances[d.Params.AllianceID] = bot.Alliance{
				ID:      d.Params.AllianceID,
				Name:    d.Params.AllianceName,
				Members: 1,
			}
		case bot.AllianceJoin:
			a, ok := g.alliances[d.Params.AllianceID]
			if !ok {
				return fmt.Errorf("alliance %s not found", d.Params.AllianceID)
			}
			a.Members++
			g.alliances[a.ID] = a
		}
	}
	g.applied = append(g.applied, d)
	return nil
}

// CandidateTargets returns targets owned by someone else, nearest first.
func (g *Game) CandidateTargets(ctx context.Context, agent bot.Agent, limit int) ([]bot.Target, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]bot.Target, 0, len(g.targets))
	for _, t := range g.targets {
		if t.OwnerID == agent.ID {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return gap(agent.Home, out[i].Coordinates) < gap(agent.Home, out[j].Coordinates)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *Game) EligibleAlliances(ctx context.Context, _ bot.Agent) ([]bot.Alliance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]bot.Alliance, 0, len(g.alliances))
	for _, a := range g.alliances {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *Game) Scan(ctx context.Context, _ bot.Agent, target bot.Target) ([]bot.IncomingFleet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	fleets := g.incoming[target.ID]
	out := make([]bot.IncomingFleet, len(fleets))
	copy(out, fleets)
	return out, nil
}

func gap(a, b bot.Coordinates) int {
	d := func(x, y int) int {
		if x > y {
			return x - y
		}
		return y - x
	}
	return d(a.Galaxy, b.Galaxy)*1_000_000 + d(a.System, b.System)*100 + d(a.Position, b.Position)
}

// SeedWorld builds a small demo population for local runs.
func SeedWorld(g *Game, agents int, now time.Time) []bot.Agent {
	personalities := bot.AllPersonalities()
	out := make([]bot.Agent, 0, agents)
	for i := range agents {
		home := bot.Coordinates{Galaxy: 1, System: 1 + i/15, Position: 1 + i%15}
		a := bot.Agent{
			ID:            fmt.Sprintf("bot-%03d", i+1),
			Personality:   personalities[i%len(personalities)],
			CycleMinutes:  60,
			WindowMinutes: 60,
			Active:        true,
			Home:          home,
			Power:         int64(2000 + 500*(i%7)),
			Buildings:     map[string]int{"metal_mine": 1 + i%5},
			Research:      map[string]int{},
			Resources: map[bot.Resource]int64{
				bot.ResourceMetal:     int64(50_000 + 20_000*(i%4)),
				bot.ResourceCrystal:   int64(20_000 + 5_000*(i%3)),
				bot.ResourceDeuterium: 10_000,
			},
			Units:           map[string]int{"small_cargo": 10 + i%5, "large_cargo": 2, "light_fighter": 20},
			LastProcessedAt: now.Add(-time.Duration(i) * time.Minute),
		}
		out = append(out, a)
		g.AddTarget(bot.Target{
			ID:           "planet-" + a.ID,
			OwnerID:      a.ID,
			Coordinates:  home,
			Power:        a.Power,
			DefensePower: int64(500 * (1 + i%4)),
			Resources:    a.Clone().Resources,
			HasEspionage: true,
			EspionageAt:  now,
			IntelAt:      now,
		})
	}
	return out
}
