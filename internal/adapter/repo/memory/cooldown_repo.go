package memory

import (
	"context"
	"time"

	"starbots/internal/domain/bot"
)

type CooldownRepo struct {
	store *Store
}

func NewCooldownRepo(store *Store) CooldownRepo {
	return CooldownRepo{store: store}
}

func (r CooldownRepo) LastPerformed(_ context.Context, agentID string, class bot.ActionClass) (time.Time, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	at, ok := r.store.cooldowns[cooldownKey{agentID: agentID, class: class}]
	return at, ok, nil
}

func (r CooldownRepo) SetLastPerformed(_ context.Context, agentID string, class bot.ActionClass, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.cooldowns[cooldownKey{agentID: agentID, class: class}] = at
	return nil
}
