package decide

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starbots/internal/app/cooldown"
	"starbots/internal/app/evaluate"
	"starbots/internal/app/ports"
	"starbots/internal/domain/bot"

	"github.com/google/uuid"
)

// Decision is the engine output for one agent in one tick. A skipped decision
// carries a none directive and the reason it was skipped.
type Decision struct {
	Directive bot.Directive
	Drawn     bot.ActionClass
	Skip      error
	Verdict   *evaluate.Verdict
}

func (d Decision) Skipped() bool {
	return d.Directive.IsNone()
}

type Engine struct {
	Tuning    bot.Tuning
	Profiles  bot.Profiles
	Tracker   cooldown.Tracker
	Evaluator evaluate.Evaluator
	Intel     ports.IntelSource
	Alliances ports.AllianceDirectory
	NewID     func() string
}

func (e Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

// Decide draws one action class for the agent and resolves it into a directive.
// Only collaborator failures are returned as errors; gated classes are skips.
func (e Engine) Decide(ctx context.Context, agent bot.Agent, now time.Time, rng bot.Rand) (Decision, error) {
	profile, ok := e.Profiles.For(agent.Personality)
	if !ok {
		return Decision{}, &bot.ConfigurationError{Field: "personality", Reason: fmt.Sprintf("agent %s has unknown personality %q", agent.ID, agent.Personality)}
	}
	drawn := profile.Distribution().Draw(rng)

	switch drawn {
	case bot.ActionBuild:
		return e.decideUpgrade(ctx, agent, now, drawn, agent.Buildings, e.Tuning.BuildOrder, e.Tuning.BuildingMaxLevel)
	case bot.ActionResearch:
		return e.decideUpgrade(ctx, agent, now, drawn, agent.Research, e.Tuning.ResearchOrder, e.Tuning.ResearchMaxLevel)
	case bot.ActionFleet:
		return e.decideExpedition(ctx, agent, profile, now, drawn, "")
	case bot.ActionAttack:
		return e.decideAttack(ctx, agent, profile, now, rng)
	case bot.ActionAlliance:
		return e.decideAlliance(ctx, agent, now, rng)
	case bot.ActionTrade:
		return e.decideTrade(ctx, agent, now)
	}
	return e.skip(agent, now, drawn, ports.ErrNoViableAction, "nothing drawn"), nil
}

func (e Engine) skip(agent bot.Agent, now time.Time, drawn bot.ActionClass, reason error, rationale string) Decision {
	return Decision{
		Directive: bot.Directive{
			ID:        e.newID(),
			AgentID:   agent.ID,
			Class:     bot.ActionNone,
			Rationale: rationale,
			DecidedAt: now,
		},
		Drawn: drawn,
		Skip:  reason,
	}
}

func (e Engine) directive(agent bot.Agent, now time.Time, class bot.ActionClass, params bot.DirectiveParams, rationale string, confidence float64) bot.Directive {
	return bot.Directive{
		ID:         e.newID(),
		AgentID:    agent.ID,
		Class:      class,
		Params:     params,
		Rationale:  rationale,
		Confidence: confidence,
		DecidedAt:  now,
	}
}

// gate returns a skip decision when the class is cooling down for the agent.
func (e Engine) gate(ctx context.Context, agent bot.Agent, now time.Time, drawn, class bot.ActionClass) (*Decision, error) {
	remaining, err := e.Tracker.Remaining(ctx, agent.ID, class, now)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		d := e.skip(agent, now, drawn, ports.ErrCapacityExceeded,
			fmt.Sprintf("%s cooldown active for %ds", class, cooldown.RemainingSeconds(remaining)))
		return &d, nil
	}
	return nil, nil
}

func (e Engine) decideUpgrade(ctx context.Context, agent bot.Agent, now time.Time, class bot.ActionClass, levels map[string]int, order []string, maxLevel int) (Decision, error) {
	if blocked, err := e.gate(ctx, agent, now, class, class); err != nil || blocked != nil {
		return derefDecision(blocked), err
	}
	name, level, ok := NextBelowCap(levels, order, maxLevel)
	if !ok {
		return e.skip(agent, now, class, ports.ErrNoViableAction, fmt.Sprintf("every %s target is at max level %d", class, maxLevel)), nil
	}
	params := bot.DirectiveParams{}
	if class == bot.ActionBuild {
		params.Building = name
	} else {
		params.Research = name
	}
	rationale := fmt.Sprintf("%s %s from level %d to %d", class, name, level, level+1)
	return Decision{Directive: e.directive(agent, now, class, params, rationale, 1), Drawn: class}, nil
}

// NextBelowCap picks the lowest-level entry still below maxLevel, ties by order.
func NextBelowCap(levels map[string]int, order []string, maxLevel int) (string, int, bool) {
	best, bestLevel, found := "", 0, false
	for _, name := range order {
		level := levels[name]
		if level >= maxLevel {
			continue
		}
		if !found || level < bestLevel {
			best, bestLevel, found = name, level, true
		}
	}
	return best, bestLevel, found
}

func (e Engine) fleetSlotFree(agent bot.Agent) bool {
	return agent.ActiveFleets < e.Tuning.FleetMaxPerAgent
}

func (e Engine) decideExpedition(ctx context.Context, agent bot.Agent, profile bot.Profile, now time.Time, drawn bot.ActionClass, why string) (Decision, error) {
	if !e.fleetSlotFree(agent) {
		return e.skip(agent, now, drawn, ports.ErrCapacityExceeded, fmt.Sprintf("all %d fleet slots in use", e.Tuning.FleetMaxPerAgent)), nil
	}
	if blocked, err := e.gate(ctx, agent, now, drawn, bot.ActionFleet); err != nil || blocked != nil {
		return derefDecision(blocked), err
	}
	fleet := evaluate.SendableUnits(agent.Units, profile.FleetSendRatio())
	if len(fleet) == 0 {
		return e.skip(agent, now, drawn, ports.ErrNoViableAction, "no units available for an expedition"), nil
	}
	dest := bot.Coordinates{Galaxy: agent.Home.Galaxy, System: agent.Home.System, Position: 16}
	rationale := fmt.Sprintf("expedition with %.0f%% of available units", profile.FleetSendRatio()*100)
	if why != "" {
		rationale = why + "; " + rationale
	}
	params := bot.DirectiveParams{Mission: bot.MissionExpedition, Destination: &dest, Fleet: fleet}
	return Decision{Directive: e.directive(agent, now, bot.ActionFleet, params, rationale, 0.5), Drawn: drawn}, nil
}

func (e Engine) decideAttack(ctx context.Context, agent bot.Agent, profile bot.Profile, now time.Time, rng bot.Rand) (Decision, error) {
	drawn := bot.ActionAttack
	if !e.fleetSlotFree(agent) {
		return e.skip(agent, now, drawn, ports.ErrCapacityExceeded, fmt.Sprintf("all %d fleet slots in use", e.Tuning.FleetMaxPerAgent)), nil
	}
	if blocked, err := e.gate(ctx, agent, now, drawn, bot.ActionAttack); err != nil || blocked != nil {
		return derefDecision(blocked), err
	}

	var verdict evaluate.Verdict
	if profile.AttackEligible() {
		candidates, err := e.Intel.CandidateTargets(ctx, agent, e.Tuning.AttackCandidates)
		if err != nil {
			return Decision{}, fmt.Errorf("%w: intel for %s: %v", ports.ErrCollaboratorUnavailable, agent.ID, err)
		}
		verdict, err = e.Evaluator.SelectTarget(ctx, agent, profile, candidates, now, rng)
		if err != nil {
			return Decision{}, err
		}
		if verdict.Viable {
			dest := verdict.Target.Coordinates
			params := bot.DirectiveParams{
				Mission:     bot.MissionAttack,
				TargetID:    verdict.Target.ID,
				Destination: &dest,
				Fleet:       verdict.Fleet,
			}
			d := Decision{
				Directive: e.directive(agent, now, bot.ActionAttack, params, verdict.Rationale(), 1-verdict.LossProbability),
				Drawn:     drawn,
				Verdict:   &verdict,
			}
			return d, nil
		}
	} else {
		verdict = evaluate.Verdict{Reason: "personality_not_attack_eligible"}
	}

	if rng.Float64() < e.Tuning.ExpeditionChance {
		d, err := e.decideExpedition(ctx, agent, profile, now, drawn, "attack downgraded ("+verdict.Rationale()+")")
		if err == nil {
			d.Verdict = &verdict
		}
		return d, err
	}
	d := e.skip(agent, now, drawn, ports.ErrNoViableAction, verdict.Rationale())
	d.Verdict = &verdict
	return d, nil
}

func (e Engine) decideAlliance(ctx context.Context, agent bot.Agent, now time.Time, rng bot.Rand) (Decision, error) {
	drawn := bot.ActionAlliance
	if agent.InAlliance() {
		return e.skip(agent, now, drawn, ports.ErrNoViableAction, "already member of alliance "+agent.AllianceID), nil
	}
	if blocked, err := e.gate(ctx, agent, now, drawn, bot.ActionAlliance); err != nil || blocked != nil {
		return derefDecision(blocked), err
	}

	if rng.Float64() < e.Tuning.AllianceApplyChance {
		alliances, err := e.Alliances.EligibleAlliances(ctx, agent)
		if err != nil {
			return Decision{}, fmt.Errorf("%w: alliances for %s: %v", ports.ErrCollaboratorUnavailable, agent.ID, err)
		}
		if target, op, ok := e.pickAlliance(alliances); ok {
			params := bot.DirectiveParams{AllianceOp: op, AllianceID: target.ID, AllianceName: target.Name}
			rationale := fmt.Sprintf("%s alliance %s (%d members)", op, target.Name, target.Members)
			return Decision{Directive: e.directive(agent, now, drawn, params, rationale, 1), Drawn: drawn}, nil
		}
	}

	if rng.Float64() >= e.Tuning.AllianceCreateChance {
		return e.skip(agent, now, drawn, ports.ErrNoViableAction, "no alliance to join and creation roll failed"), nil
	}
	reserved, err := e.Tracker.TryReserve(ctx, cooldown.CounterAlliancesCreated, e.Tuning.AllianceMaxCreated)
	if err != nil {
		return Decision{}, err
	}
	if !reserved {
		return e.skip(agent, now, drawn, ports.ErrCapacityExceeded,
			fmt.Sprintf("alliance creation cap %d reached", e.Tuning.AllianceMaxCreated)), nil
	}
	id := e.newID()
	params := bot.DirectiveParams{AllianceOp: bot.AllianceCreate, AllianceID: id, AllianceName: allianceName(agent, id)}
	d := Decision{Directive: e.directive(agent, now, drawn, params, "create alliance "+params.AllianceName, 1), Drawn: drawn}
	d.Directive.Reservation = cooldown.CounterAlliancesCreated
	return d, nil
}

// pickAlliance prefers an auto-accepting alliance below the member soft cap,
// then any alliance below it for a pending application.
func (e Engine) pickAlliance(alliances []bot.Alliance) (bot.Alliance, bot.AllianceOp, bool) {
	var pending *bot.Alliance
	for i := range alliances {
		a := alliances[i]
		if a.Members >= e.Tuning.AllianceMemberSoftCap {
			continue
		}
		if a.AutoAccept {
			return a, bot.AllianceJoin, true
		}
		if pending == nil {
			pending = &alliances[i]
		}
	}
	if pending != nil {
		return *pending, bot.AllianceApply, true
	}
	return bot.Alliance{}, "", false
}

func allianceName(agent bot.Agent, id string) string {
	tag := id
	if len(tag) > 6 {
		tag = tag[:6]
	}
	return fmt.Sprintf("%s-%s", agent.Personality, tag)
}

func (e Engine) decideTrade(ctx context.Context, agent bot.Agent, now time.Time) (Decision, error) {
	drawn := bot.ActionTrade
	if blocked, err := e.gate(ctx, agent, now, drawn, bot.ActionTrade); err != nil || blocked != nil {
		return derefDecision(blocked), err
	}
	order, ok := PlanTrade(agent.Resources, e.Tuning)
	if !ok {
		return e.skip(agent, now, drawn, ports.ErrNoViableAction, "resource imbalance below trade threshold"), nil
	}
	params := bot.DirectiveParams{Trade: &order}
	rationale := fmt.Sprintf("trade %d %s for %s", order.Amount, order.From, order.To)
	return Decision{Directive: e.directive(agent, now, drawn, params, rationale, 1), Drawn: drawn}, nil
}

// PlanTrade moves resources from the richest to the poorest holding when the
// gap between them reaches the minimum imbalance.
func PlanTrade(holdings map[bot.Resource]int64, t bot.Tuning) (bot.TradeOrder, bool) {
	resources := bot.AllResources()
	richest, poorest := resources[0], resources[0]
	var total int64
	for _, r := range resources {
		v := holdings[r]
		total += v
		if v > holdings[richest] {
			richest = r
		}
		if v < holdings[poorest] {
			poorest = r
		}
	}
	imbalance := holdings[richest] - holdings[poorest]
	if richest == poorest || imbalance <= 0 || imbalance < t.TradeMinImbalance {
		return bot.TradeOrder{}, false
	}
	amount := max(t.TradeMinAmount, int64(t.TradeRatio*float64(imbalance)))
	if limit := int64(t.TradeMaxRatio * float64(total)); amount > limit {
		amount = limit
	}
	if amount <= 0 {
		return bot.TradeOrder{}, false
	}
	return bot.TradeOrder{From: richest, To: poorest, Amount: amount}, true
}

func derefDecision(d *Decision) Decision {
	if d == nil {
		return Decision{}
	}
	return *d
}

// IsSkip reports whether err is a normal skip reason rather than a failure.
func IsSkip(err error) bool {
	return errors.Is(err, ports.ErrCapacityExceeded) || errors.Is(err, ports.ErrNoViableAction)
}
