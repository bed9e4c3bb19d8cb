package memory

import (
	"context"

	"starbots/internal/domain/bot"
)

type AuditRepo struct {
	store *Store
}

func NewAuditRepo(store *Store) AuditRepo {
	return AuditRepo{store: store}
}

func (r AuditRepo) Append(_ context.Context, entry bot.AuditEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audit = append(r.store.audit, entry)
	return nil
}
