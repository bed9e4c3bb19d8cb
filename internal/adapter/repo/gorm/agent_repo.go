package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starbots/internal/adapter/repo/gorm/model"
	"starbots/internal/app/ports"
	"starbots/internal/domain/bot"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

const defaultListPageSize = 500

// dueWindowSQL mirrors bot.IsDue using the stored window offset.
const dueWindowSQL = `(cycle_minutes <= 0 OR window_minutes >= cycle_minutes OR
	(window_minutes > 0 AND MOD(CAST(? AS BIGINT) + window_offset, cycle_minutes) < window_minutes))`

type AgentStateRepo struct {
	db       *gorm.DB
	pageSize int
}

func NewAgentStateRepo(db *gorm.DB) AgentStateRepo {
	return AgentStateRepo{db: db, pageSize: defaultListPageSize}
}

// ListActiveDueAgents pages through active agents whose window is open, oldest
// processed first. The due func is applied on top of the window filter.
func (r AgentStateRepo) ListActiveDueAgents(ctx context.Context, now time.Time, due bot.DueFunc) ([]bot.Agent, error) {
	pageSize := r.pageSize
	if pageSize <= 0 {
		pageSize = defaultListPageSize
	}
	minute := now.Unix() / 60
	out := []bot.Agent{}
	var last *model.BotAgent
	for {
		query := dbFromCtx(ctx, r.db).
			Where("active = ?", true).
			Where(dueWindowSQL, minute)
		if last != nil {
			query = query.Where("(last_processed_at, agent_id) > (?, ?)", last.LastProcessedAt, last.AgentID)
		}
		rows := []model.BotAgent{}
		err := query.
			Order("last_processed_at ASC, agent_id ASC").
			Limit(pageSize).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			a, err := toAgent(row)
			if err != nil {
				return nil, err
			}
			if due != nil && !due(a, now) {
				continue
			}
			out = append(out, a)
		}
		if len(rows) < pageSize {
			return out, nil
		}
		last = &rows[len(rows)-1]
	}
}

func (r AgentStateRepo) Get(ctx context.Context, agentID string) (bot.Agent, error) {
	var row model.BotAgent
	if err := dbFromCtx(ctx, r.db).Where("agent_id = ?", agentID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return bot.Agent{}, ports.ErrNotFound
		}
		return bot.Agent{}, err
	}
	return toAgent(row)
}

// Save inserts a new agent when expectedVersion is 0, otherwise updates it
// only if the stored version still matches.
func (r AgentStateRepo) Save(ctx context.Context, a bot.Agent, expectedVersion int64) error {
	row, err := fromAgent(a)
	if err != nil {
		return err
	}
	if expectedVersion == 0 {
		return dbFromCtx(ctx, r.db).Create(&row).Error
	}
	return r.update(ctx, row, expectedVersion)
}

func (r AgentStateRepo) update(ctx context.Context, row model.BotAgent, expectedVersion int64) error {
	res := dbFromCtx(ctx, r.db).Model(&model.BotAgent{}).
		Where("agent_id = ? AND version = ?", row.AgentID, expectedVersion).
		Updates(map[string]any{
			"alliance_id":       row.AllianceID,
			"active_fleets":     row.ActiveFleets,
			"active":            row.Active,
			"power":             row.Power,
			"buildings":         row.Buildings,
			"research":          row.Research,
			"resources":         row.Resources,
			"units":             row.Units,
			"last_processed_at": row.LastProcessedAt,
			"version":           row.Version,
			"updated_at":        time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r AgentStateRepo) ApplyDirective(ctx context.Context, agent bot.Agent, directive bot.Directive) (bot.Agent, error) {
	current, err := r.Get(ctx, agent.ID)
	if err != nil {
		return bot.Agent{}, err
	}
	if current.Version != agent.Version {
		return bot.Agent{}, ports.ErrConflict
	}
	next := bot.ApplyEffects(current, directive)
	row, err := fromAgent(next)
	if err != nil {
		return bot.Agent{}, err
	}
	if err := r.update(ctx, row, current.Version); err != nil {
		return bot.Agent{}, err
	}
	return next, nil
}

func (r AgentStateRepo) MarkProcessed(ctx context.Context, agentID string, at time.Time) error {
	res := dbFromCtx(ctx, r.db).Model(&model.BotAgent{}).
		Where("agent_id = ?", agentID).
		Updates(map[string]any{"last_processed_at": at, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func toAgent(row model.BotAgent) (bot.Agent, error) {
	a := bot.Agent{
		ID:              row.AgentID,
		Personality:     bot.Personality(row.Personality),
		CycleMinutes:    int(row.CycleMinutes),
		WindowMinutes:   int(row.WindowMinutes),
		AllianceID:      row.AllianceID,
		ActiveFleets:    int(row.ActiveFleets),
		Active:          row.Active,
		Home:            bot.Coordinates{Galaxy: int(row.Galaxy), System: int(row.System), Position: int(row.Position)},
		Power:           row.Power,
		Buildings:       map[string]int{},
		Research:        map[string]int{},
		Resources:       map[bot.Resource]int64{},
		Units:           map[string]int{},
		LastProcessedAt: row.LastProcessedAt,
		Version:         row.Version,
	}
	for _, f := range []struct {
		raw []byte
		out any
	}{
		{row.Buildings, &a.Buildings},
		{row.Research, &a.Research},
		{row.Resources, &a.Resources},
		{row.Units, &a.Units},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := sonic.Unmarshal(f.raw, f.out); err != nil {
			return bot.Agent{}, fmt.Errorf("decode agent %s: %w", row.AgentID, err)
		}
	}
	return a, nil
}

func fromAgent(a bot.Agent) (model.BotAgent, error) {
	row := model.BotAgent{
		AgentID:         a.ID,
		Personality:     string(a.Personality),
		CycleMinutes:    int32(a.CycleMinutes),
		WindowMinutes:   int32(a.WindowMinutes),
		WindowOffset:    int32(bot.WindowOffset(a.ID, a.CycleMinutes)),
		AllianceID:      a.AllianceID,
		ActiveFleets:    int32(a.ActiveFleets),
		Active:          a.Active,
		Galaxy:          int32(a.Home.Galaxy),
		System:          int32(a.Home.System),
		Position:        int32(a.Home.Position),
		Power:           a.Power,
		LastProcessedAt: a.LastProcessedAt,
		Version:         a.Version,
		UpdatedAt:       time.Now(),
	}
	var err error
	if row.Buildings, err = marshalOrEmpty(a.Buildings); err != nil {
		return row, err
	}
	if row.Research, err = marshalOrEmpty(a.Research); err != nil {
		return row, err
	}
	if row.Resources, err = marshalOrEmpty(a.Resources); err != nil {
		return row, err
	}
	if row.Units, err = marshalOrEmpty(a.Units); err != nil {
		return row, err
	}
	return row, nil
}

func marshalOrEmpty(v any) ([]byte, error) {
	b, err := sonic.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode agent field: %w", err)
	}
	if string(b) == "null" {
		return []byte("{}"), nil
	}
	return b, nil
}
