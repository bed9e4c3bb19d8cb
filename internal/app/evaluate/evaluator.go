// Package evaluate decides whether an attack on a scouted target is worth launching.
package evaluate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"starbots/internal/app/ports"
	"starbots/internal/domain/bot"
)

type RejectReason string

const (
	RejectNone           RejectReason = ""
	RejectNoCandidates   RejectReason = "no_candidates"
	RejectStaleIntel     RejectReason = "stale_intel"
	RejectStaleEspionage RejectReason = "stale_espionage"
	RejectTooStrong      RejectReason = "target_too_strong"
	RejectNoFleet        RejectReason = "no_fleet_available"
	RejectLowLoot        RejectReason = "loot_below_capacity_ratio"
	RejectUnprofitable   RejectReason = "profit_below_threshold"
	RejectPhalanxAbort   RejectReason = "phalanx_defender_incoming"
)

// Verdict is the evaluation of one candidate. Rejections are not errors.
type Verdict struct {
	Viable           bool
	Reason           RejectReason
	Target           bot.Target
	Fleet            map[string]int
	ExpectedLoot     int64
	SentCapacity     int64
	LootRatio        float64
	LossProbability  float64
	ExpectedLossCost float64
	Consumption      float64
	ProfitRatio      float64
	Scanned          bool
}

func (v Verdict) Rationale() string {
	if v.Viable {
		return fmt.Sprintf("target %s viable: loot %d, loot/capacity %.2f, profit ratio %.2f", v.Target.ID, v.ExpectedLoot, v.LootRatio, v.ProfitRatio)
	}
	if v.Target.ID == "" {
		return fmt.Sprintf("no viable target: %s", v.Reason)
	}
	return fmt.Sprintf("target %s rejected: %s", v.Target.ID, v.Reason)
}

type Evaluator struct {
	Tuning  bot.Tuning
	Phalanx ports.PhalanxScanner
}

func NewEvaluator(t bot.Tuning, phalanx ports.PhalanxScanner) Evaluator {
	return Evaluator{Tuning: t, Phalanx: phalanx}
}

// Evaluate runs the profitability checks for one candidate. It never scans.
func (e Evaluator) Evaluate(agent bot.Agent, profile bot.Profile, target bot.Target, now time.Time) Verdict {
	t := e.Tuning
	v := Verdict{Target: target}

	if target.IntelAt.IsZero() || now.Sub(target.IntelAt) > t.AttackMaxIntelAge {
		v.Reason = RejectStaleIntel
		return v
	}
	if target.HasEspionage && now.Sub(target.EspionageAt) > t.AttackMaxEspionageAge {
		v.Reason = RejectStaleEspionage
		return v
	}
	if float64(target.Power) > float64(agent.Power)*t.AvoidStrongerRatio {
		v.Reason = RejectTooStrong
		return v
	}

	lootable := int64(float64(sumResources(target.Resources)) * t.LootShare)
	available := SendableUnits(agent.Units, profile.FleetSendRatio())
	if countUnits(available) == 0 {
		v.Reason = RejectNoFleet
		return v
	}
	v.Fleet = e.composeFleet(available, lootable)
	v.SentCapacity = e.capacity(v.Fleet)
	if v.SentCapacity <= 0 {
		v.Reason = RejectLowLoot
		return v
	}
	v.ExpectedLoot = min(lootable, v.SentCapacity)
	v.LootRatio = float64(v.ExpectedLoot) / float64(v.SentCapacity)
	if v.LootRatio < t.MinLootRatioCapacity {
		v.Reason = RejectLowLoot
		return v
	}

	sentPower := e.power(v.Fleet)
	if denom := float64(target.DefensePower + sentPower); denom > 0 {
		v.LossProbability = float64(target.DefensePower) / denom
	}
	v.ExpectedLossCost = v.LossProbability * float64(e.replacementCost(v.Fleet)) * t.LossCostMultiplier
	v.Consumption = e.consumption(v.Fleet, Distance(agent.Home, target.Coordinates))
	v.ProfitRatio = (float64(v.ExpectedLoot) - v.ExpectedLossCost) / v.Consumption
	// Rejected only when below both thresholds.
	if v.ProfitRatio < math.Min(t.MinProfitRatio, t.MinProfitConsumption) {
		v.Reason = RejectUnprofitable
		return v
	}
	v.Viable = true
	return v
}

// SelectTarget evaluates the candidates and returns the most profitable viable one,
// optionally confirmed by a phalanx scan.
func (e Evaluator) SelectTarget(ctx context.Context, agent bot.Agent, profile bot.Profile, candidates []bot.Target, now time.Time, rng bot.Rand) (Verdict, error) {
	if len(candidates) == 0 {
		return Verdict{Reason: RejectNoCandidates}, nil
	}
	var best, firstReject Verdict
	found := false
	for i, c := range candidates {
		v := e.Evaluate(agent, profile, c, now)
		if !v.Viable {
			if i == 0 {
				firstReject = v
			}
			continue
		}
		if !found || v.ProfitRatio > best.ProfitRatio {
			best = v
			found = true
		}
	}
	if !found {
		return firstReject, nil
	}

	if !e.Tuning.PhalanxEnabled || e.Phalanx == nil || rng.Float64() >= e.Tuning.PhalanxChance {
		return best, nil
	}
	incoming, err := e.Phalanx.Scan(ctx, agent, best.Target)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: phalanx scan %s: %v", ports.ErrCollaboratorUnavailable, best.Target.ID, err)
	}
	best.Scanned = true
	if DefenderWithin(incoming, now, e.Tuning.PhalanxAbortWindow) {
		best.Viable = false
		best.Reason = RejectPhalanxAbort
	}
	return best, nil
}

func DefenderWithin(incoming []bot.IncomingFleet, now time.Time, window time.Duration) bool {
	for _, f := range incoming {
		if !f.Defensive {
			continue
		}
		until := f.ArrivesAt.Sub(now)
		if until >= 0 && until <= window {
			return true
		}
	}
	return false
}

// SendableUnits caps every unit type at ratio of what is available.
func SendableUnits(units map[string]int, ratio float64) map[string]int {
	out := make(map[string]int, len(units))
	for name, n := range units {
		capped := int(math.Floor(float64(n) * ratio))
		if capped > 0 {
			out[name] = capped
		}
	}
	return out
}

// composeFleet sends escorts (power above cargo capacity) and adds cargo ships,
// largest first, until the lootable amount is covered.
func (e Evaluator) composeFleet(available map[string]int, lootable int64) map[string]int {
	fleet := map[string]int{}
	var capacity int64
	cargo := []string{}
	for _, name := range sortedKeys(available) {
		spec, ok := e.Tuning.Units[name]
		if !ok {
			continue
		}
		if spec.Power > spec.Capacity {
			fleet[name] = available[name]
			capacity += spec.Capacity * int64(available[name])
			continue
		}
		cargo = append(cargo, name)
	}
	sort.SliceStable(cargo, func(i, j int) bool {
		return e.Tuning.Units[cargo[i]].Capacity > e.Tuning.Units[cargo[j]].Capacity
	})
	for _, name := range cargo {
		spec := e.Tuning.Units[name]
		if spec.Capacity <= 0 {
			continue
		}
		for n := 0; n < available[name] && capacity < lootable; n++ {
			fleet[name]++
			capacity += spec.Capacity
		}
	}
	return fleet
}

func (e Evaluator) capacity(fleet map[string]int) int64 {
	var total int64
	for name, n := range fleet {
		total += e.Tuning.Units[name].Capacity * int64(n)
	}
	return total
}

func (e Evaluator) power(fleet map[string]int) int64 {
	var total int64
	for name, n := range fleet {
		total += e.Tuning.Units[name].Power * int64(n)
	}
	return total
}

func (e Evaluator) replacementCost(fleet map[string]int) int64 {
	var total int64
	for name, n := range fleet {
		total += e.Tuning.Units[name].Cost * int64(n)
	}
	return total
}

// consumption is the deuterium burned by the fleet for the round trip at full
// speed. Each leg costs 1 + base*distance/35000*(speed+1)^2 with speed 1, so
// the profit thresholds read as resources gained per deuterium spent.
func (e Evaluator) consumption(fleet map[string]int, distance int) float64 {
	var base float64
	for name, n := range fleet {
		base += e.Tuning.Units[name].FuelConsumption * float64(n)
	}
	const fullSpeed = (1 + 1) * (1 + 1)
	oneWay := 1 + base*float64(distance)/35000*fullSpeed
	return 2 * oneWay
}

// Distance between two coordinates in game distance units.
func Distance(a, b bot.Coordinates) int {
	switch {
	case a.Galaxy != b.Galaxy:
		return 20000 * absInt(a.Galaxy-b.Galaxy)
	case a.System != b.System:
		return 2700 + 95*absInt(a.System-b.System)
	case a.Position != b.Position:
		return 1000 + 5*absInt(a.Position-b.Position)
	}
	return 5
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sumResources(r map[bot.Resource]int64) int64 {
	var total int64
	for _, v := range r {
		total += v
	}
	return total
}

func countUnits(units map[string]int) int {
	total := 0
	for _, n := range units {
		total += n
	}
	return total
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
