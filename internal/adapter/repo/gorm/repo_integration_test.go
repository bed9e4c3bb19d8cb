package gormrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"starbots/db/migrations"
	"starbots/internal/app/ports"
	"starbots/internal/domain/bot"

	"gorm.io/gorm"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("STARBOTS_DB_DSN")
	if dsn == "" {
		t.Skip("STARBOTS_DB_DSN is required for integration test")
	}
	return dsn
}

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenPostgres(requireDSN(t), PoolOptions{MaxOpenConns: 16})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if err := ApplyMigrations(context.Background(), db, migrations.FS); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAgentStateRepo_RoundTripAndVersionConflict(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()
	agentID := "it-agent-roundtrip"
	_ = db.Exec("DELETE FROM bot_agents WHERE agent_id = ?", agentID).Error

	repo := NewAgentStateRepo(db)
	seed := bot.Agent{
		ID:            agentID,
		Personality:   bot.PersonalityEconomic,
		CycleMinutes:  60,
		WindowMinutes: 60,
		Active:        true,
		Home:          bot.Coordinates{Galaxy: 2, System: 40, Position: 8},
		Power:         1200,
		Buildings:     map[string]int{"metal_mine": 4},
		Resources:     map[bot.Resource]int64{bot.ResourceMetal: 5000},
		Units:         map[string]int{"small_cargo": 3},
	}
	if err := repo.Save(ctx, seed, 0); err != nil {
		t.Fatalf("save: %v", err)
	}

	due, err := repo.ListActiveDueAgents(ctx, time.Now(), func(a bot.Agent, _ time.Time) bool { return a.ID == agentID })
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(due) != 1 || due[0].Buildings["metal_mine"] != 4 || due[0].Home.System != 40 {
		t.Fatalf("unexpected due agents: %+v", due)
	}

	d := bot.Directive{Class: bot.ActionBuild, Params: bot.DirectiveParams{Building: "metal_mine"}, DecidedAt: time.Now().UTC()}
	next, err := repo.ApplyDirective(ctx, due[0], d)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if next.Buildings["metal_mine"] != 5 || next.Version != 1 {
		t.Fatalf("unexpected agent after apply: %+v", next)
	}
	if _, err := repo.ApplyDirective(ctx, due[0], d); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict on stale version, got %v", err)
	}
	if err := repo.MarkProcessed(ctx, "it-missing-agent", time.Now()); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAgentStateRepo_ListFiltersWindowInSQLAndPages(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()
	_ = db.Exec("DELETE FROM bot_agents WHERE agent_id LIKE ?", "it-window-%").Error

	now := time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC)
	repo := NewAgentStateRepo(db)
	want := map[string]bool{}
	for i := range 12 {
		a := bot.Agent{
			ID:              fmt.Sprintf("it-window-%02d", i),
			Personality:     bot.PersonalityBalanced,
			CycleMinutes:    60,
			WindowMinutes:   20,
			Active:          true,
			LastProcessedAt: now.Add(-time.Duration(i) * time.Minute),
		}
		if i == 0 {
			a.WindowMinutes = 0
		}
		if err := repo.Save(ctx, a, 0); err != nil {
			t.Fatalf("save %s: %v", a.ID, err)
		}
		if bot.IsDue(a, now) {
			want[a.ID] = true
		}
	}

	repo.pageSize = 5
	var seen []bot.Agent
	got, err := repo.ListActiveDueAgents(ctx, now, func(a bot.Agent, at time.Time) bool {
		seen = append(seen, a)
		return true
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	matched := 0
	for i, a := range got {
		if !strings.HasPrefix(a.ID, "it-window-") {
			continue
		}
		matched++
		if !want[a.ID] {
			t.Fatalf("agent %s returned outside its window", a.ID)
		}
		if i > 0 && got[i-1].LastProcessedAt.After(a.LastProcessedAt) {
			t.Fatalf("agents out of order at %d", i)
		}
	}
	if matched != len(want) {
		t.Fatalf("expected %d due agents, got %d", len(want), matched)
	}
	for _, a := range seen {
		if a.ID == "it-window-00" {
			t.Fatalf("never-due agent reached the due func")
		}
	}
}

func TestCooldownRepo_Upsert(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()
	agentID := "it-cooldown"
	_ = db.Exec("DELETE FROM bot_cooldowns WHERE agent_id = ?", agentID).Error

	repo := NewCooldownRepo(db)
	if _, found, err := repo.LastPerformed(ctx, agentID, bot.ActionAttack); err != nil || found {
		t.Fatalf("expected no cooldown yet, found=%v err=%v", found, err)
	}
	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	if err := repo.SetLastPerformed(ctx, agentID, bot.ActionAttack, first); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.SetLastPerformed(ctx, agentID, bot.ActionAttack, second); err != nil {
		t.Fatalf("set again: %v", err)
	}
	got, found, err := repo.LastPerformed(ctx, agentID, bot.ActionAttack)
	if err != nil || !found || !got.Equal(second) {
		t.Fatalf("expected %s, got %s found=%v err=%v", second, got, found, err)
	}
}

func TestCounterRepo_ConcurrentIncrementRespectsMax(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()
	name := "it-counter"
	_ = db.Exec("DELETE FROM population_counters WHERE name = ?", name).Error

	repo := NewCounterRepo(db)
	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for range 24 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.TryIncrement(ctx, name, 5)
			if err != nil {
				t.Errorf("increment: %v", err)
				return
			}
			if ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if granted != 5 {
		t.Fatalf("expected 5 grants, got %d", granted)
	}
	if err := repo.Decrement(ctx, name); err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if n, err := repo.Get(ctx, name); err != nil || n != 4 {
		t.Fatalf("expected counter 4, got %d err=%v", n, err)
	}
}

func TestTxManager_RollsBackAuditOnError(t *testing.T) {
	db := openMigrated(t)
	ctx := context.Background()
	entryID := "it-audit-rollback"
	_ = db.Exec("DELETE FROM bot_audit_entries WHERE id = ?", entryID).Error

	audit := NewAuditRepo(db)
	tx := NewTxManager(db)
	boom := errors.New("boom")
	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := audit.Append(txCtx, bot.AuditEntry{
			ID: entryID, TickID: "t", AgentID: "it-audit", Class: bot.ActionTrade,
			Result: bot.OutcomeApplied, Details: map[string]any{"k": "v"}, OccurredAt: time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	entries, err := audit.ListByAgentID(ctx, "it-audit", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, e := range entries {
		if e.ID == entryID {
			t.Fatalf("entry should have been rolled back")
		}
	}
}
