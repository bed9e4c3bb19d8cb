package bot

import "time"

type Mission string

const (
	MissionAttack     Mission = "attack"
	MissionExpedition Mission = "expedition"
)

type AllianceOp string

const (
	AllianceJoin   AllianceOp = "join"
	AllianceApply  AllianceOp = "apply"
	AllianceCreate AllianceOp = "create"
)

type TradeOrder struct {
	From   Resource `json:"from"`
	To     Resource `json:"to"`
	Amount int64    `json:"amount"`
}

type DirectiveParams struct {
	Building     string         `json:"building,omitempty"`
	Research     string         `json:"research,omitempty"`
	Mission      Mission        `json:"mission,omitempty"`
	TargetID     string         `json:"target_id,omitempty"`
	Destination  *Coordinates   `json:"destination,omitempty"`
	Fleet        map[string]int `json:"fleet,omitempty"`
	AllianceOp   AllianceOp     `json:"alliance_op,omitempty"`
	AllianceID   string         `json:"alliance_id,omitempty"`
	AllianceName string         `json:"alliance_name,omitempty"`
	Trade        *TradeOrder    `json:"trade,omitempty"`
}

// Directive is the single action chosen for an agent in one tick.
type Directive struct {
	ID         string          `json:"id"`
	AgentID    string          `json:"agent_id"`
	Class      ActionClass     `json:"class"`
	Params     DirectiveParams `json:"params"`
	Rationale  string          `json:"rationale"`
	Confidence float64         `json:"confidence"`
	DecidedAt  time.Time       `json:"decided_at"`
	// Reservation names a population counter held for this directive.
	Reservation string `json:"reservation,omitempty"`
}

func (d Directive) IsNone() bool {
	return d.Class == ActionNone || d.Class == ""
}

type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

type AuditEntry struct {
	ID          string         `json:"id"`
	TickID      string         `json:"tick_id"`
	AgentID     string         `json:"agent_id"`
	Class       ActionClass    `json:"class"`
	Description string         `json:"description"`
	Result      Outcome        `json:"result"`
	Details     map[string]any `json:"details,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
