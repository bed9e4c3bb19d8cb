package ports

import (
	"context"
	"time"

	"starbots/internal/domain/bot"
)

//go:generate go tool mockgen -destination=./mocks/collaborators_mock.go -package=mocks . MutationService,IntelSource,AllianceDirectory,PhalanxScanner,AuditSink

type AgentStateStore interface {
	ListActiveDueAgents(ctx context.Context, now time.Time, due bot.DueFunc) ([]bot.Agent, error)
	ApplyDirective(ctx context.Context, agent bot.Agent, directive bot.Directive) (bot.Agent, error)
	MarkProcessed(ctx context.Context, agentID string, at time.Time) error
}

type CooldownStore interface {
	LastPerformed(ctx context.Context, agentID string, class bot.ActionClass) (time.Time, bool, error)
	SetLastPerformed(ctx context.Context, agentID string, class bot.ActionClass, at time.Time) error
}

type CounterStore interface {
	// TryIncrement increments name only while its value is below max.
	TryIncrement(ctx context.Context, name string, max int64) (bool, error)
	Decrement(ctx context.Context, name string) error
	Get(ctx context.Context, name string) (int64, error)
}

type MutationService interface {
	Apply(ctx context.Context, directive bot.Directive) error
}

type IntelSource interface {
	CandidateTargets(ctx context.Context, agent bot.Agent, limit int) ([]bot.Target, error)
}

type AllianceDirectory interface {
	EligibleAlliances(ctx context.Context, agent bot.Agent) ([]bot.Alliance, error)
}

type PhalanxScanner interface {
	Scan(ctx context.Context, agent bot.Agent, target bot.Target) ([]bot.IncomingFleet, error)
}

type AuditSink interface {
	Append(ctx context.Context, entry bot.AuditEntry) error
}
