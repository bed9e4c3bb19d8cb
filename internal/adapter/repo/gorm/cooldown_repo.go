package gormrepo

import (
	"context"
	"errors"
	"time"

	"starbots/internal/adapter/repo/gorm/model"
	"starbots/internal/domain/bot"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CooldownRepo struct {
	db *gorm.DB
}

func NewCooldownRepo(db *gorm.DB) CooldownRepo {
	return CooldownRepo{db: db}
}

func (r CooldownRepo) LastPerformed(ctx context.Context, agentID string, class bot.ActionClass) (time.Time, bool, error) {
	var row model.BotCooldown
	err := dbFromCtx(ctx, r.db).
		Where(&model.BotCooldown{AgentID: agentID, ActionClass: string(class)}).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return row.PerformedAt, true, nil
}

func (r CooldownRepo) SetLastPerformed(ctx context.Context, agentID string, class bot.ActionClass, at time.Time) error {
	row := model.BotCooldown{AgentID: agentID, ActionClass: string(class), PerformedAt: at}
	return dbFromCtx(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "agent_id"}, {Name: "action_class"}},
			DoUpdates: clause.AssignmentColumns([]string{"performed_at"}),
		}).
		Create(&row).Error
}
