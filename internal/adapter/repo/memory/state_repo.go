package memory

import (
	"context"
	"time"

	"starbots/internal/app/ports"
	"starbots/internal/domain/bot"
)

type AgentStateRepo struct {
	store *Store
}

func NewAgentStateRepo(store *Store) AgentStateRepo {
	return AgentStateRepo{store: store}
}

func (r AgentStateRepo) ListActiveDueAgents(_ context.Context, now time.Time, due bot.DueFunc) ([]bot.Agent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []bot.Agent{}
	for _, id := range r.store.sortedAgentIDs() {
		a := r.store.agents[id]
		if !a.Active {
			continue
		}
		if due != nil && !due(a, now) {
			continue
		}
		out = append(out, a.Clone())
	}
	return out, nil
}

func (r AgentStateRepo) ApplyDirective(_ context.Context, agent bot.Agent, directive bot.Directive) (bot.Agent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.agents[agent.ID]
	if !ok {
		return bot.Agent{}, ports.ErrNotFound
	}
	if current.Version != agent.Version {
		return bot.Agent{}, ports.ErrConflict
	}
	next := bot.ApplyEffects(current, directive)
	r.store.agents[agent.ID] = next
	return next.Clone(), nil
}

func (r AgentStateRepo) MarkProcessed(_ context.Context, agentID string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.agents[agentID]
	if !ok {
		return ports.ErrNotFound
	}
	current.LastProcessedAt = at
	r.store.agents[agentID] = current
	return nil
}
