package bot

import (
	"testing"
	"time"
)

func sampleAgent() Agent {
	return Agent{
		ID:        "a",
		Buildings: map[string]int{"metal_mine": 3},
		Research:  map[string]int{},
		Resources: map[Resource]int64{ResourceMetal: 1000, ResourceCrystal: 10},
		Units:     map[string]int{"small_cargo": 4, "light_fighter": 2},
		Version:   5,
	}
}

func TestApplyEffects_DoesNotMutateInput(t *testing.T) {
	a := sampleAgent()
	at := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	out := ApplyEffects(a, Directive{Class: ActionBuild, Params: DirectiveParams{Building: "metal_mine"}, DecidedAt: at})

	if out.Buildings["metal_mine"] != 4 {
		t.Fatalf("metal_mine = %d, want 4", out.Buildings["metal_mine"])
	}
	if a.Buildings["metal_mine"] != 3 {
		t.Fatalf("input agent mutated: metal_mine = %d", a.Buildings["metal_mine"])
	}
	if out.Version != 6 || !out.LastProcessedAt.Equal(at) {
		t.Fatalf("version/processed = %d/%s", out.Version, out.LastProcessedAt)
	}
}

func TestApplyEffects_FleetDeductsUnits(t *testing.T) {
	out := ApplyEffects(sampleAgent(), Directive{
		Class:  ActionAttack,
		Params: DirectiveParams{Mission: MissionAttack, Fleet: map[string]int{"small_cargo": 3, "light_fighter": 5}},
	})
	if out.ActiveFleets != 1 {
		t.Fatalf("active fleets = %d, want 1", out.ActiveFleets)
	}
	if out.Units["small_cargo"] != 1 || out.Units["light_fighter"] != 0 {
		t.Fatalf("units after send = %v", out.Units)
	}
}

func TestApplyEffects_TradeCappedByHoldings(t *testing.T) {
	out := ApplyEffects(sampleAgent(), Directive{
		Class:  ActionTrade,
		Params: DirectiveParams{Trade: &TradeOrder{From: ResourceCrystal, To: ResourceMetal, Amount: 500}},
	})
	if out.Resources[ResourceCrystal] != 0 || out.Resources[ResourceMetal] != 1010 {
		t.Fatalf("resources after trade = %v", out.Resources)
	}
}

func TestApplyEffects_AllianceApplyDoesNotJoin(t *testing.T) {
	out := ApplyEffects(sampleAgent(), Directive{
		Class:  ActionAlliance,
		Params: DirectiveParams{AllianceOp: AllianceApply, AllianceID: "al-1"},
	})
	if out.InAlliance() {
		t.Fatalf("applying must not set membership")
	}
	out = ApplyEffects(out, Directive{
		Class:  ActionAlliance,
		Params: DirectiveParams{AllianceOp: AllianceCreate, AllianceID: "al-2"},
	})
	if out.AllianceID != "al-2" {
		t.Fatalf("alliance id = %q, want al-2", out.AllianceID)
	}
}
