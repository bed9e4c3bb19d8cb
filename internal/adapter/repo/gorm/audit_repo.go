package gormrepo

import (
	"context"
	"fmt"

	"starbots/internal/adapter/repo/gorm/model"
	"starbots/internal/domain/bot"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

type AuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) AuditRepo {
	return AuditRepo{db: db}
}

func (r AuditRepo) Append(ctx context.Context, entry bot.AuditEntry) error {
	row := model.BotAuditEntry{
		ID:          entry.ID,
		TickID:      entry.TickID,
		AgentID:     entry.AgentID,
		ActionClass: string(entry.Class),
		Description: entry.Description,
		Result:      string(entry.Result),
		OccurredAt:  entry.OccurredAt,
	}
	if len(entry.Details) > 0 {
		b, err := sonic.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("encode audit details: %w", err)
		}
		row.Details = b
	}
	return dbFromCtx(ctx, r.db).Create(&row).Error
}

func (r AuditRepo) ListByAgentID(ctx context.Context, agentID string, limit int) ([]bot.AuditEntry, error) {
	rows := []model.BotAuditEntry{}
	query := dbFromCtx(ctx, r.db).
		Where(&model.BotAuditEntry{AgentID: agentID}).
		Order("occurred_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]bot.AuditEntry, 0, len(rows))
	for _, row := range rows {
		var details map[string]any
		if len(row.Details) > 0 {
			_ = sonic.Unmarshal(row.Details, &details)
		}
		out = append(out, bot.AuditEntry{
			ID:          row.ID,
			TickID:      row.TickID,
			AgentID:     row.AgentID,
			Class:       bot.ActionClass(row.ActionClass),
			Description: row.Description,
			Result:      bot.Outcome(row.Result),
			Details:     details,
			OccurredAt:  row.OccurredAt,
		})
	}
	return out, nil
}
