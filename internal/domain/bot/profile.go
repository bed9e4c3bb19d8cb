package bot

import "fmt"

// Rand is the random source consumed by decisions. *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Distribution is a discrete distribution over action classes.
type Distribution struct {
	classes    []ActionClass
	cumulative []float64
	probs      map[ActionClass]float64
}

func NewDistribution(w Weights) (Distribution, error) {
	total := w.Total()
	if total <= 0 {
		return Distribution{}, fmt.Errorf("%w: weights sum to zero", ErrConfiguration)
	}
	d := Distribution{probs: make(map[ActionClass]float64)}
	acc := 0.0
	for _, c := range WeightedClasses() {
		weight := w.For(c)
		if weight < 0 {
			return Distribution{}, fmt.Errorf("%w: negative weight for %s", ErrConfiguration, c)
		}
		if weight == 0 {
			continue
		}
		p := float64(weight) / float64(total)
		acc += p
		d.classes = append(d.classes, c)
		d.cumulative = append(d.cumulative, acc)
		d.probs[c] = p
	}
	d.cumulative[len(d.cumulative)-1] = 1
	return d, nil
}

func (d Distribution) Probability(c ActionClass) float64 {
	return d.probs[c]
}

// Sample maps u in [0,1) onto a class.
func (d Distribution) Sample(u float64) ActionClass {
	for i, edge := range d.cumulative {
		if u < edge {
			return d.classes[i]
		}
	}
	if len(d.classes) == 0 {
		return ActionNone
	}
	return d.classes[len(d.classes)-1]
}

func (d Distribution) Draw(r Rand) ActionClass {
	return d.Sample(r.Float64())
}

type Profile interface {
	Personality() Personality
	Distribution() Distribution
	FleetSendRatio() float64
	AttackEligible() bool
}

type tunedProfile struct {
	personality Personality
	dist        Distribution
	sendRatio   float64
	attack      bool
}

func (p tunedProfile) Personality() Personality   { return p.personality }
func (p tunedProfile) Distribution() Distribution { return p.dist }
func (p tunedProfile) FleetSendRatio() float64    { return p.sendRatio }
func (p tunedProfile) AttackEligible() bool       { return p.attack }

// Profiles resolves every personality once so lookups during a tick never fail.
type Profiles map[Personality]Profile

func NewProfiles(t Tuning) (Profiles, error) {
	out := make(Profiles, len(t.Personalities))
	for _, p := range AllPersonalities() {
		pt, ok := t.Profile(p)
		if !ok {
			return nil, &ConfigurationError{Field: "personalities." + string(p), Reason: "missing"}
		}
		dist, err := NewDistribution(pt.Weights)
		if err != nil {
			return nil, &ConfigurationError{Field: "personalities." + string(p) + ".weights", Reason: err.Error()}
		}
		out[p] = tunedProfile{
			personality: p,
			dist:        dist,
			sendRatio:   pt.FleetSendRatio,
			attack:      pt.AttackEligible,
		}
	}
	return out, nil
}

func (ps Profiles) For(p Personality) (Profile, bool) {
	profile, ok := ps[p]
	return profile, ok
}
