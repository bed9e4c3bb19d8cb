package tick

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

var ErrTickInProgress = errors.New("tick already in progress")

// Runner triggers the scheduler on a fixed interval or a cron expression and
// never lets two ticks overlap.
type Runner struct {
	Scheduler *Scheduler
	Interval  time.Duration
	Cron      string

	running sync.Mutex
	mu      sync.RWMutex
	last    *Summary
}

func NewRunner(s *Scheduler, interval time.Duration, cron string) (*Runner, error) {
	if cron != "" && !gronx.New().IsValid(cron) {
		return nil, fmt.Errorf("invalid tick cron %q", cron)
	}
	if cron == "" && interval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive")
	}
	return &Runner{Scheduler: s, Interval: interval, Cron: cron}, nil
}

// NextRun returns when the tick after ref is due.
func (r *Runner) NextRun(ref time.Time) (time.Time, error) {
	if r.Cron != "" {
		return gronx.NextTickAfter(r.Cron, ref, false)
	}
	return ref.Add(r.Interval), nil
}

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	for {
		next, err := r.NextRun(time.Now())
		if err != nil {
			return fmt.Errorf("schedule next tick: %w", err)
		}
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if _, err := r.Trigger(ctx); err != nil && !errors.Is(err, ErrTickInProgress) {
			hlog.CtxErrorf(ctx, "tick failed: %v", err)
		}
	}
}

// Trigger runs one tick now unless another one is still running.
func (r *Runner) Trigger(ctx context.Context) (Summary, error) {
	if !r.running.TryLock() {
		return Summary{}, ErrTickInProgress
	}
	defer r.running.Unlock()

	summary, err := r.Scheduler.RunTick(ctx)
	if err != nil {
		return summary, err
	}
	r.mu.Lock()
	r.last = &summary
	r.mu.Unlock()
	return summary, nil
}

func (r *Runner) LastSummary() (Summary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return Summary{}, false
	}
	return *r.last, true
}
