package bot

import "time"

type Personality string

const (
	PersonalityAggressive Personality = "aggressive"
	PersonalityDefensive  Personality = "defensive"
	PersonalityEconomic   Personality = "economic"
	PersonalityBalanced   Personality = "balanced"
)

func (p Personality) Valid() bool {
	switch p {
	case PersonalityAggressive, PersonalityDefensive, PersonalityEconomic, PersonalityBalanced:
		return true
	}
	return false
}

func AllPersonalities() []Personality {
	return []Personality{
		PersonalityAggressive,
		PersonalityDefensive,
		PersonalityEconomic,
		PersonalityBalanced,
	}
}

type ActionClass string

const (
	ActionNone     ActionClass = "none"
	ActionBuild    ActionClass = "build"
	ActionFleet    ActionClass = "fleet"
	ActionAttack   ActionClass = "attack"
	ActionResearch ActionClass = "research"
	ActionAlliance ActionClass = "alliance"
	ActionTrade    ActionClass = "trade"
)

// WeightedClasses is the draw order of the personality distribution.
func WeightedClasses() []ActionClass {
	return []ActionClass{
		ActionBuild,
		ActionFleet,
		ActionAttack,
		ActionResearch,
		ActionAlliance,
		ActionTrade,
	}
}

type Resource string

const (
	ResourceMetal     Resource = "metal"
	ResourceCrystal   Resource = "crystal"
	ResourceDeuterium Resource = "deuterium"
)

func AllResources() []Resource {
	return []Resource{ResourceMetal, ResourceCrystal, ResourceDeuterium}
}

type Coordinates struct {
	Galaxy   int `json:"galaxy"`
	System   int `json:"system"`
	Position int `json:"position"`
}

type Agent struct {
	ID              string             `json:"id"`
	Personality     Personality        `json:"personality"`
	CycleMinutes    int                `json:"cycle_minutes"`
	WindowMinutes   int                `json:"window_minutes"`
	AllianceID      string             `json:"alliance_id,omitempty"`
	ActiveFleets    int                `json:"active_fleets"`
	Active          bool               `json:"active"`
	Home            Coordinates        `json:"home"`
	Power           int64              `json:"power"`
	Buildings       map[string]int     `json:"buildings"`
	Research        map[string]int     `json:"research"`
	Resources       map[Resource]int64 `json:"resources"`
	Units           map[string]int     `json:"units"`
	LastProcessedAt time.Time          `json:"last_processed_at"`
	Version         int64              `json:"version"`
}

func (a Agent) InAlliance() bool {
	return a.AllianceID != ""
}

func (a Agent) TotalResources() int64 {
	var total int64
	for _, v := range a.Resources {
		total += v
	}
	return total
}

type Target struct {
	ID           string             `json:"id"`
	OwnerID      string             `json:"owner_id"`
	Coordinates  Coordinates        `json:"coordinates"`
	Power        int64              `json:"power"`
	DefensePower int64              `json:"defense_power"`
	Resources    map[Resource]int64 `json:"resources"`
	HasEspionage bool               `json:"has_espionage"`
	EspionageAt  time.Time          `json:"espionage_at"`
	IntelAt      time.Time          `json:"intel_at"`
}

type Alliance struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Members    int    `json:"members"`
	AutoAccept bool   `json:"auto_accept"`
}

type IncomingFleet struct {
	OwnerID   string    `json:"owner_id"`
	Defensive bool      `json:"defensive"`
	ArrivesAt time.Time `json:"arrives_at"`
}
