// Package tick runs batches of due agents through the decision engine.
package tick

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"starbots/internal/app/cooldown"
	"starbots/internal/app/decide"
	"starbots/internal/app/ports"
	"starbots/internal/domain/bot"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const auditTimeout = 5 * time.Second

type AgentResult struct {
	AgentID   string          `json:"agent_id"`
	Class     bot.ActionClass `json:"class"`
	Outcome   bot.Outcome     `json:"outcome"`
	Directive bot.Directive   `json:"directive"`
	Reason    string          `json:"reason,omitempty"`
	Err       error           `json:"-"`
}

type Summary struct {
	TickID    string        `json:"tick_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Due       int           `json:"due"`
	Selected  int           `json:"selected"`
	Applied   int           `json:"applied"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Cancelled int           `json:"cancelled"`
	Results   []AgentResult `json:"results"`
}

type Scheduler struct {
	BatchSize    int
	Workers      int
	AgentTimeout time.Duration

	Store   ports.AgentStateStore
	Engine  decide.Engine
	Tracker cooldown.Tracker
	Mutator ports.MutationService
	Audit   ports.AuditSink
	Tx      ports.TxManager
	Metrics ports.TickMetrics
	Limiter *rate.Limiter

	Due     bot.DueFunc
	Now     func() time.Time
	NewRand func(agentID string, at time.Time) bot.Rand
	NewID   func() string
}

func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (s *Scheduler) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scheduler) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Scheduler) rng(agentID string, at time.Time) bot.Rand {
	if s.NewRand != nil {
		return s.NewRand(agentID, at)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(agentID))
	return rand.New(rand.NewPCG(uint64(at.UnixNano()), h.Sum64()))
}

// RunTick processes one batch. Per-agent failures end up in the summary; the
// returned error is reserved for failing to load the batch at all.
func (s *Scheduler) RunTick(ctx context.Context) (Summary, error) {
	now := s.now()
	summary := Summary{TickID: s.newID(), StartedAt: now}

	due := s.Due
	if due == nil {
		due = bot.IsDue
	}
	agents, err := s.Store.ListActiveDueAgents(ctx, now, due)
	if err != nil {
		return summary, fmt.Errorf("%w: list due agents: %v", ports.ErrCollaboratorUnavailable, err)
	}
	batch := SelectBatch(agents, s.BatchSize)
	summary.Due = len(agents)
	summary.Selected = len(batch)

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	results := make([]AgentResult, len(batch))
	started := make([]bool, len(batch))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, agent := range batch {
		if ctx.Err() != nil {
			break
		}
		started[i] = true
		g.Go(func() error {
			results[i] = s.processAgent(ctx, summary.TickID, agent, now)
			return nil
		})
	}
	_ = g.Wait()

	for i, r := range results {
		if !started[i] || r.Outcome == "" {
			summary.Cancelled++
			continue
		}
		switch r.Outcome {
		case bot.OutcomeApplied:
			summary.Applied++
		case bot.OutcomeSkipped:
			summary.Skipped++
		case bot.OutcomeFailed:
			summary.Failed++
		}
		summary.Results = append(summary.Results, r)
	}
	summary.Duration = s.now().Sub(now)
	if s.Metrics != nil {
		s.Metrics.RecordTick(summary.Duration, summary.Applied, summary.Skipped, summary.Failed)
	}
	hlog.CtxInfof(ctx, "tick %s: due=%d selected=%d applied=%d skipped=%d failed=%d cancelled=%d in %s",
		summary.TickID, summary.Due, summary.Selected, summary.Applied, summary.Skipped, summary.Failed, summary.Cancelled, summary.Duration)
	return summary, nil
}

// processAgent decides and applies at most one directive for the agent. Once the
// apply step has started it runs to completion even if ctx is cancelled.
// Skipped and failed agents are marked processed so they rotate to the back of
// the next batch.
func (s *Scheduler) processAgent(ctx context.Context, tickID string, agent bot.Agent, now time.Time) AgentResult {
	if ctx.Err() != nil {
		return AgentResult{AgentID: agent.ID}
	}
	timeout := s.AgentTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	deadline := time.Now().Add(timeout)
	decideCtx, cancelDecide := context.WithDeadline(ctx, deadline)
	defer cancelDecide()

	decision, err := s.Engine.Decide(decideCtx, agent, now, s.rng(agent.ID, now))
	if err != nil {
		if ctx.Err() != nil {
			return AgentResult{AgentID: agent.ID}
		}
		res := AgentResult{AgentID: agent.ID, Class: bot.ActionNone, Outcome: bot.OutcomeFailed, Reason: err.Error(), Err: err}
		s.markProcessed(ctx, agent.ID, now)
		s.finish(ctx, tickID, res, now)
		return res
	}

	if decision.Skipped() {
		res := AgentResult{
			AgentID:   agent.ID,
			Class:     decision.Drawn,
			Outcome:   bot.OutcomeSkipped,
			Directive: decision.Directive,
			Reason:    decision.Directive.Rationale,
			Err:       decision.Skip,
		}
		s.markProcessed(ctx, agent.ID, now)
		s.finish(ctx, tickID, res, now)
		return res
	}

	applyCtx, cancelApply := context.WithDeadline(context.WithoutCancel(ctx), deadline)
	defer cancelApply()
	res := AgentResult{AgentID: agent.ID, Class: decision.Drawn, Directive: decision.Directive}
	if err := s.apply(applyCtx, agent, decision.Directive); err != nil {
		res.Outcome = bot.OutcomeFailed
		res.Reason = err.Error()
		res.Err = err
		s.markProcessed(ctx, agent.ID, now)
	} else {
		res.Outcome = bot.OutcomeApplied
		res.Reason = decision.Directive.Rationale
	}
	s.finish(ctx, tickID, res, now)
	return res
}

// markProcessed runs on its own timeout, detached from the tick and the agent deadline.
func (s *Scheduler) markProcessed(ctx context.Context, agentID string, now time.Time) {
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := s.Store.MarkProcessed(markCtx, agentID, now); err != nil {
		hlog.CtxWarnf(ctx, "mark processed %s: %v", agentID, err)
	}
}

// apply hands the directive to the game, then records the new agent view and
// cooldown together. A held population reservation is returned only when the
// game never accepted the directive.
func (s *Scheduler) apply(ctx context.Context, agent bot.Agent, d bot.Directive) error {
	if err := s.mutate(ctx, d); err != nil {
		if d.Reservation != "" {
			if relErr := s.Tracker.Release(ctx, d.Reservation); relErr != nil {
				hlog.CtxErrorf(ctx, "release %s for %s: %v", d.Reservation, agent.ID, relErr)
			}
		}
		return err
	}

	run := func(txCtx context.Context) error {
		if _, err := s.Store.ApplyDirective(txCtx, agent, d); err != nil {
			return fmt.Errorf("%w: store directive: %v", ports.ErrCollaboratorUnavailable, err)
		}
		if err := s.Tracker.Record(txCtx, agent.ID, d.Class, d.DecidedAt); err != nil {
			return fmt.Errorf("%w: record cooldown: %v", ports.ErrCollaboratorUnavailable, err)
		}
		return nil
	}
	var err error
	if s.Tx == nil {
		err = run(ctx)
	} else {
		err = s.Tx.RunInTx(ctx, run)
	}
	if err != nil {
		// The game state already changed, so any reservation stays held.
		hlog.CtxErrorf(ctx, "directive %s accepted by game but not stored for %s: %v", d.ID, agent.ID, err)
	}
	return err
}

func (s *Scheduler) mutate(ctx context.Context, d bot.Directive) error {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: mutation rate limit: %v", ports.ErrCollaboratorUnavailable, err)
		}
	}
	if err := s.Mutator.Apply(ctx, d); err != nil {
		return fmt.Errorf("%w: apply %s: %v", ports.ErrCollaboratorUnavailable, d.Class, err)
	}
	return nil
}

func (s *Scheduler) finish(ctx context.Context, tickID string, res AgentResult, now time.Time) {
	if s.Metrics != nil {
		s.Metrics.RecordOutcome(res.Class, res.Outcome)
	}
	if s.Audit == nil {
		return
	}
	entry := bot.AuditEntry{
		ID:          s.newID(),
		TickID:      tickID,
		AgentID:     res.AgentID,
		Class:       res.Class,
		Description: res.Reason,
		Result:      res.Outcome,
		OccurredAt:  now,
	}
	if !res.Directive.IsNone() {
		entry.Details = map[string]any{
			"directive_id": res.Directive.ID,
			"class":        string(res.Directive.Class),
			"params":       res.Directive.Params,
			"confidence":   res.Directive.Confidence,
		}
	}
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := s.Audit.Append(auditCtx, entry); err != nil {
		hlog.CtxErrorf(ctx, "audit append for %s: %v", res.AgentID, err)
	}
}
