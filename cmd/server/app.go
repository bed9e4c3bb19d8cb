package main

import (
	"io"
	"time"

	"starbots/internal/adapter/audit"
	auditsqlite "starbots/internal/adapter/audit/sqlite"
	"starbots/internal/adapter/game/mock"
	metricsinmem "starbots/internal/adapter/metrics/inmemory"
	gormrepo "starbots/internal/adapter/repo/gorm"
	"starbots/internal/adapter/repo/memory"
	"starbots/internal/app/cooldown"
	"starbots/internal/app/decide"
	"starbots/internal/app/evaluate"
	"starbots/internal/app/ports"
	"starbots/internal/app/tick"
	"starbots/internal/config"
	"starbots/internal/domain/bot"
)

type app struct {
	Runner    *tick.Runner
	KPI       *metricsinmem.Recorder
	Game      *mock.Game
	StoreName string
	closers   []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

type stores struct {
	agents    ports.AgentStateStore
	cooldowns ports.CooldownStore
	counters  ports.CounterStore
	audit     ports.AuditSink
	tx        ports.TxManager
}

func buildApp(cfg config.Config) (*app, error) {
	profiles, err := bot.NewProfiles(cfg.Tuning)
	if err != nil {
		return nil, err
	}

	a := &app{KPI: metricsinmem.NewRecorder(), Game: mock.NewGame()}
	var st stores
	if cfg.UsePostgres() {
		db, err := gormrepo.OpenPostgres(cfg.DBDSN, gormrepo.PoolOptions{
			MaxOpenConns:    poolSize(cfg),
			MaxIdleConns:    poolSize(cfg),
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			return nil, err
		}
		st = stores{
			agents:    gormrepo.NewAgentStateRepo(db),
			cooldowns: gormrepo.NewCooldownRepo(db),
			counters:  gormrepo.NewCounterRepo(db),
			audit:     gormrepo.NewAuditRepo(db),
			tx:        gormrepo.NewTxManager(db),
		}
		a.StoreName = "postgres"
	} else {
		mem := memory.NewStore()
		for _, agent := range mock.SeedWorld(a.Game, cfg.DemoAgents, time.Now()) {
			mem.SeedAgent(agent)
		}
		st = stores{
			agents:    memory.NewAgentStateRepo(mem),
			cooldowns: memory.NewCooldownRepo(mem),
			counters:  memory.NewCounterRepo(mem),
			audit:     memory.NewAuditRepo(mem),
			tx:        memory.NewTxManager(mem),
		}
		a.StoreName = "memory"
	}

	sink := st.audit
	if cfg.AuditSQLitePath != "" {
		local, err := auditsqlite.Open(cfg.AuditSQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, local)
		sink = audit.Fanout{st.audit, local}
	}

	var phalanx ports.PhalanxScanner
	if cfg.Tuning.PhalanxEnabled {
		phalanx = a.Game
	}
	tracker := cooldown.NewTracker(st.cooldowns, st.counters, cfg.Tuning.Cooldowns)
	engine := decide.Engine{
		Tuning:    cfg.Tuning,
		Profiles:  profiles,
		Tracker:   tracker,
		Evaluator: evaluate.NewEvaluator(cfg.Tuning, phalanx),
		Intel:     a.Game,
		Alliances: a.Game,
	}
	scheduler := &tick.Scheduler{
		BatchSize:    cfg.Tuning.BatchSize,
		Workers:      cfg.Tuning.Workers,
		AgentTimeout: cfg.Tuning.AgentTimeout,
		Store:        st.agents,
		Engine:       engine,
		Tracker:      tracker,
		Mutator:      a.Game,
		Audit:        sink,
		Tx:           st.tx,
		Metrics:      a.KPI,
		Limiter:      tick.NewLimiter(cfg.Tuning.MutationsPerSecond),
	}
	a.Runner, err = tick.NewRunner(scheduler, cfg.Tuning.TickInterval, cfg.Tuning.TickCron)
	if err != nil {
		a.Close()
		return nil, &bot.ConfigurationError{Field: "tick_cron", Reason: err.Error()}
	}
	return a, nil
}

// poolSize leaves headroom over the worker count for the runner and ops reads.
func poolSize(cfg config.Config) int {
	if cfg.DBMaxOpenConns > 0 {
		return cfg.DBMaxOpenConns
	}
	return cfg.Tuning.Workers + 4
}
