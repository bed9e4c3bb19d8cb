package bot

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
)

func TestDistribution_EconomicBuildIsHalf(t *testing.T) {
	profiles, err := NewProfiles(DefaultTuning())
	if err != nil {
		t.Fatalf("NewProfiles error: %v", err)
	}
	economic, ok := profiles.For(PersonalityEconomic)
	if !ok {
		t.Fatalf("economic profile missing")
	}
	if got := economic.Distribution().Probability(ActionBuild); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("economic build probability = %v, want 0.5", got)
	}
}

func TestDistribution_DrawConvergesToWeights(t *testing.T) {
	w := Weights{Build: 50, Fleet: 10, Attack: 5, Research: 25, Alliance: 5, Trade: 5}
	dist, err := NewDistribution(w)
	if err != nil {
		t.Fatalf("NewDistribution error: %v", err)
	}
	rng := rand.New(rand.NewPCG(7, 11))
	const draws = 200000
	counts := map[ActionClass]int{}
	for range draws {
		counts[dist.Draw(rng)]++
	}
	for _, c := range WeightedClasses() {
		want := float64(w.For(c)) / float64(w.Total())
		got := float64(counts[c]) / draws
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("%s frequency = %.4f, want %.4f±0.01", c, got, want)
		}
	}
}

func TestDistribution_SampleBoundaries(t *testing.T) {
	dist, err := NewDistribution(Weights{Build: 1, Research: 1})
	if err != nil {
		t.Fatalf("NewDistribution error: %v", err)
	}
	cases := []struct {
		u    float64
		want ActionClass
	}{
		{0, ActionBuild},
		{0.4999, ActionBuild},
		{0.5, ActionResearch},
		{0.9999999, ActionResearch},
	}
	for _, tc := range cases {
		if got := dist.Sample(tc.u); got != tc.want {
			t.Fatalf("Sample(%v) = %s, want %s", tc.u, got, tc.want)
		}
	}
	if p := dist.Probability(ActionAttack); p != 0 {
		t.Fatalf("zero-weight class probability = %v, want 0", p)
	}
}

func TestNewDistribution_RejectsZeroAndNegative(t *testing.T) {
	if _, err := NewDistribution(Weights{}); err == nil {
		t.Fatalf("expected error for all-zero weights")
	}
	if _, err := NewDistribution(Weights{Build: 10, Fleet: -1}); err == nil {
		t.Fatalf("expected error for negative weight")
	}
}

func TestNewProfiles_MissingPersonality(t *testing.T) {
	tun := DefaultTuning()
	delete(tun.Personalities, PersonalityBalanced)
	_, err := NewProfiles(tun)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "personalities.balanced" {
		t.Fatalf("expected personalities.balanced configuration error, got %v", err)
	}
}

func TestProfiles_AttackEligibility(t *testing.T) {
	profiles, err := NewProfiles(DefaultTuning())
	if err != nil {
		t.Fatalf("NewProfiles error: %v", err)
	}
	want := map[Personality]bool{
		PersonalityAggressive: true,
		PersonalityBalanced:   true,
		PersonalityDefensive:  false,
		PersonalityEconomic:   false,
	}
	for p, eligible := range want {
		profile, _ := profiles.For(p)
		if profile.AttackEligible() != eligible {
			t.Fatalf("%s attack eligible = %v, want %v", p, profile.AttackEligible(), eligible)
		}
	}
}
