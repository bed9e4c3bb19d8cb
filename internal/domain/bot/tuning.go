package bot

import (
	"errors"
	"fmt"
	"time"
)

var ErrConfiguration = errors.New("invalid configuration")

type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration.Error(), e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// Weights are the relative draw weights of one personality.
type Weights struct {
	Build    int `yaml:"build"`
	Fleet    int `yaml:"fleet"`
	Attack   int `yaml:"attack"`
	Research int `yaml:"research"`
	Alliance int `yaml:"alliance"`
	Trade    int `yaml:"trade"`
}

func (w Weights) For(class ActionClass) int {
	switch class {
	case ActionBuild:
		return w.Build
	case ActionFleet:
		return w.Fleet
	case ActionAttack:
		return w.Attack
	case ActionResearch:
		return w.Research
	case ActionAlliance:
		return w.Alliance
	case ActionTrade:
		return w.Trade
	}
	return 0
}

func (w Weights) Total() int {
	total := 0
	for _, c := range WeightedClasses() {
		total += w.For(c)
	}
	return total
}

type PersonalityTuning struct {
	Weights        Weights `yaml:"weights"`
	FleetSendRatio float64 `yaml:"fleet_send_ratio"`
	AttackEligible bool    `yaml:"attack_eligible"`
}

type UnitSpec struct {
	Capacity        int64   `yaml:"capacity"`
	Power           int64   `yaml:"power"`
	Cost            int64   `yaml:"cost"`
	FuelConsumption float64 `yaml:"fuel_consumption"`
}

type Tuning struct {
	TickInterval       time.Duration `yaml:"tick_interval"`
	TickCron           string        `yaml:"tick_cron"`
	BatchSize          int           `yaml:"batch_size"`
	Workers            int           `yaml:"workers"`
	AgentTimeout       time.Duration `yaml:"agent_timeout"`
	MutationsPerSecond float64       `yaml:"mutations_per_second"`

	Personalities map[Personality]PersonalityTuning `yaml:"personalities"`
	Cooldowns     map[ActionClass]time.Duration     `yaml:"cooldowns"`

	BuildOrder       []string `yaml:"build_order"`
	BuildingMaxLevel int      `yaml:"building_max_level"`
	ResearchOrder    []string `yaml:"research_order"`
	ResearchMaxLevel int      `yaml:"research_max_level"`

	FleetMaxPerAgent      int                 `yaml:"fleet_max_per_agent"`
	ExpeditionChance      float64             `yaml:"expedition_chance"`
	Units                 map[string]UnitSpec `yaml:"units"`
	AttackCandidates      int                 `yaml:"attack_candidates"`
	AttackMaxIntelAge     time.Duration       `yaml:"attack_max_intel_age"`
	AttackMaxEspionageAge time.Duration       `yaml:"attack_max_espionage_age"`
	AvoidStrongerRatio    float64             `yaml:"avoid_stronger_ratio"`
	LootShare             float64             `yaml:"loot_share"`
	MinLootRatioCapacity  float64             `yaml:"attack_min_loot_ratio_capacity"`
	LossCostMultiplier    float64             `yaml:"loss_cost_multiplier"`
	MinProfitRatio        float64             `yaml:"attack_min_profit_ratio"`
	MinProfitConsumption  float64             `yaml:"attack_min_profit_consumption_multiplier"`
	PhalanxEnabled        bool                `yaml:"phalanx_enabled"`
	PhalanxChance         float64             `yaml:"phalanx_chance"`
	PhalanxAbortWindow    time.Duration       `yaml:"phalanx_abort_window"`

	AllianceApplyChance   float64 `yaml:"alliance_apply_chance"`
	AllianceCreateChance  float64 `yaml:"alliance_create_chance"`
	AllianceMaxCreated    int64   `yaml:"alliance_max_created"`
	AllianceMemberSoftCap int     `yaml:"alliance_member_soft_cap"`

	TradeMinImbalance int64   `yaml:"trade_min_imbalance"`
	TradeMinAmount    int64   `yaml:"trade_min_amount"`
	TradeRatio        float64 `yaml:"trade_ratio"`
	TradeMaxRatio     float64 `yaml:"trade_max_ratio"`
}

func DefaultTuning() Tuning {
	return Tuning{
		TickInterval:       5 * time.Minute,
		BatchSize:          50,
		Workers:            8,
		AgentTimeout:       10 * time.Second,
		MutationsPerSecond: 0,
		Personalities: map[Personality]PersonalityTuning{
			PersonalityAggressive: {
				Weights:        Weights{Build: 20, Fleet: 20, Attack: 40, Research: 10, Alliance: 5, Trade: 5},
				FleetSendRatio: 0.9,
				AttackEligible: true,
			},
			PersonalityDefensive: {
				Weights:        Weights{Build: 40, Fleet: 10, Attack: 5, Research: 35, Alliance: 5, Trade: 5},
				FleetSendRatio: 0.5,
				AttackEligible: false,
			},
			PersonalityEconomic: {
				Weights:        Weights{Build: 50, Fleet: 10, Attack: 5, Research: 25, Alliance: 5, Trade: 5},
				FleetSendRatio: 0.3,
				AttackEligible: false,
			},
			PersonalityBalanced: {
				Weights:        Weights{Build: 30, Fleet: 20, Attack: 20, Research: 20, Alliance: 5, Trade: 5},
				FleetSendRatio: 0.7,
				AttackEligible: true,
			},
		},
		Cooldowns: map[ActionClass]time.Duration{
			ActionBuild:    10 * time.Minute,
			ActionResearch: 10 * time.Minute,
			ActionFleet:    30 * time.Minute,
			ActionAttack:   60 * time.Minute,
			ActionAlliance: 24 * time.Hour,
			ActionTrade:    2 * time.Hour,
		},
		BuildOrder:       []string{"metal_mine", "crystal_mine", "deuterium_synthesizer", "solar_plant", "robotics_factory", "shipyard", "research_lab"},
		BuildingMaxLevel: 30,
		ResearchOrder:    []string{"energy", "combustion_drive", "espionage", "computer", "weapons", "shielding", "armour"},
		ResearchMaxLevel: 20,

		FleetMaxPerAgent: 3,
		ExpeditionChance: 0.3,
		Units: map[string]UnitSpec{
			"small_cargo":   {Capacity: 5000, Power: 5, Cost: 4000, FuelConsumption: 10},
			"large_cargo":   {Capacity: 25000, Power: 5, Cost: 12000, FuelConsumption: 50},
			"light_fighter": {Capacity: 50, Power: 50, Cost: 4000, FuelConsumption: 20},
			"cruiser":       {Capacity: 800, Power: 400, Cost: 29000, FuelConsumption: 300},
		},
		AttackCandidates:      5,
		AttackMaxIntelAge:     6 * time.Hour,
		AttackMaxEspionageAge: 30 * time.Minute,
		AvoidStrongerRatio:    1.5,
		LootShare:             0.5,
		MinLootRatioCapacity:  0.3,
		LossCostMultiplier:    1.0,
		MinProfitRatio:        50,
		MinProfitConsumption:  25,
		PhalanxEnabled:        false,
		PhalanxChance:         0.5,
		PhalanxAbortWindow:    120 * time.Second,

		AllianceApplyChance:   0.5,
		AllianceCreateChance:  0.2,
		AllianceMaxCreated:    10,
		AllianceMemberSoftCap: 20,

		TradeMinImbalance: 100000,
		TradeMinAmount:    10000,
		TradeRatio:        0.25,
		TradeMaxRatio:     0.1,
	}
}

func (t Tuning) Profile(p Personality) (PersonalityTuning, bool) {
	pt, ok := t.Personalities[p]
	return pt, ok
}

func (t Tuning) CooldownFor(class ActionClass) time.Duration {
	return t.Cooldowns[class]
}

func (t Tuning) Validate() error {
	if t.TickInterval <= 0 && t.TickCron == "" {
		return &ConfigurationError{Field: "tick_interval", Reason: "must be positive when no cron is set"}
	}
	if t.BatchSize <= 0 {
		return &ConfigurationError{Field: "batch_size", Reason: "must be positive"}
	}
	if t.Workers <= 0 {
		return &ConfigurationError{Field: "workers", Reason: "must be positive"}
	}
	if t.AgentTimeout <= 0 {
		return &ConfigurationError{Field: "agent_timeout", Reason: "must be positive"}
	}
	if t.MutationsPerSecond < 0 {
		return &ConfigurationError{Field: "mutations_per_second", Reason: "must not be negative"}
	}
	for _, p := range AllPersonalities() {
		pt, ok := t.Personalities[p]
		if !ok {
			return &ConfigurationError{Field: "personalities." + string(p), Reason: "missing"}
		}
		for _, c := range WeightedClasses() {
			if pt.Weights.For(c) < 0 {
				return &ConfigurationError{Field: "personalities." + string(p) + ".weights." + string(c), Reason: "must not be negative"}
			}
		}
		if pt.Weights.Total() == 0 {
			return &ConfigurationError{Field: "personalities." + string(p) + ".weights", Reason: "all weights are zero"}
		}
		if pt.FleetSendRatio <= 0 || pt.FleetSendRatio > 1 {
			return &ConfigurationError{Field: "personalities." + string(p) + ".fleet_send_ratio", Reason: "must be in (0,1]"}
		}
	}
	for class, d := range t.Cooldowns {
		if d < 0 {
			return &ConfigurationError{Field: "cooldowns." + string(class), Reason: "must not be negative"}
		}
	}
	if len(t.BuildOrder) == 0 {
		return &ConfigurationError{Field: "build_order", Reason: "must not be empty"}
	}
	if len(t.ResearchOrder) == 0 {
		return &ConfigurationError{Field: "research_order", Reason: "must not be empty"}
	}
	if t.BuildingMaxLevel <= 0 || t.ResearchMaxLevel <= 0 {
		return &ConfigurationError{Field: "max_level", Reason: "building and research max level must be positive"}
	}
	if t.FleetMaxPerAgent <= 0 {
		return &ConfigurationError{Field: "fleet_max_per_agent", Reason: "must be positive"}
	}
	if len(t.Units) == 0 {
		return &ConfigurationError{Field: "units", Reason: "must not be empty"}
	}
	for name, u := range t.Units {
		if u.Capacity < 0 || u.Power < 0 || u.Cost < 0 || u.FuelConsumption < 0 {
			return &ConfigurationError{Field: "units." + name, Reason: "values must not be negative"}
		}
	}
	for field, v := range map[string]float64{
		"expedition_chance":      t.ExpeditionChance,
		"phalanx_chance":         t.PhalanxChance,
		"alliance_apply_chance":  t.AllianceApplyChance,
		"alliance_create_chance": t.AllianceCreateChance,
		"loot_share":             t.LootShare,
		"trade_max_ratio":        t.TradeMaxRatio,
	} {
		if v < 0 || v > 1 {
			return &ConfigurationError{Field: field, Reason: "must be in [0,1]"}
		}
	}
	if t.AvoidStrongerRatio <= 0 {
		return &ConfigurationError{Field: "avoid_stronger_ratio", Reason: "must be positive"}
	}
	if t.AttackMaxIntelAge <= 0 || t.AttackMaxEspionageAge <= 0 {
		return &ConfigurationError{Field: "attack_max_intel_age", Reason: "intel ages must be positive"}
	}
	if t.AllianceMaxCreated < 0 {
		return &ConfigurationError{Field: "alliance_max_created", Reason: "must not be negative"}
	}
	if t.TradeMinImbalance < 0 || t.TradeMinAmount < 0 || t.TradeRatio < 0 {
		return &ConfigurationError{Field: "trade", Reason: "values must not be negative"}
	}
	return nil
}
