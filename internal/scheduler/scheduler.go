// Package scheduler runs the periodic housekeeping jobs of the quote service.
// Today that is the sweep of idle wizard sessions.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quoteflow/internal/clock"
	obsmetrics "github.com/smallbiznis/quoteflow/internal/observability/metrics"
	"github.com/smallbiznis/quoteflow/internal/session"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

// Sweeper evicts expired sessions.
type Sweeper interface {
	Sweep() int
	Len() int
}

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	GenID   *snowflake.Node
	Store   *session.Store
	Config  Config                       `optional:"true"`
	Metrics *obsmetrics.SchedulerMetrics `optional:"true"`
}

type Scheduler struct {
	log     *zap.Logger
	cfg     Config
	genID   *snowflake.Node
	clock   clock.Clock
	store   Sweeper
	metrics *obsmetrics.SchedulerMetrics
}

func New(p Params) (*Scheduler, error) {
	if p.Store == nil {
		return nil, ErrInvalidConfig
	}
	return newScheduler(p.Log, p.Clock, p.GenID, p.Store, p.Config, p.Metrics)
}

func newScheduler(log *zap.Logger, clk clock.Clock, genID *snowflake.Node, store Sweeper, cfg Config, metrics *obsmetrics.SchedulerMetrics) (*Scheduler, error) {
	if log == nil || clk == nil || genID == nil || store == nil {
		return nil, ErrInvalidConfig
	}
	if metrics == nil {
		metrics = obsmetrics.Scheduler()
	}
	return &Scheduler{
		log:     log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:     cfg.withDefaults(),
		genID:   genID,
		clock:   clk,
		store:   store,
		metrics: metrics,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	ctx, run, owner := s.ensureJobRun(ctx, name)
	if owner {
		s.logJobStart(ctx, run)
	}
	log := s.logger(ctx).With(
		zap.String("job", name),
		zap.String("run_id", run.runID),
	)
	s.metrics.IncJobRun(name)

	err := fn(ctx)
	s.metrics.ObserveJobDuration(name, s.clock.Now().Sub(start))
	if owner {
		if err != nil && run.errorCount == 0 {
			run.IncError()
		}
		s.logJobFinish(ctx, run)
	}
	if err == nil {
		return nil
	}

	// deadline is a soft timeout, the next tick retries
	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		s.metrics.IncJobTimeout(name)
	}
	s.metrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes every enabled job a single time.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{obsmetrics.JobSweepSessions, func(ctx context.Context) error {
			return s.runJob(ctx, obsmetrics.JobSweepSessions, s.cfg.SweepTimeout, s.SweepSessionsJob)
		}},
	}

	for _, job := range jobs {
		if s.isJobEnabled(job.Name) {
			err = errors.Join(err, job.Run(parent))
		}
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)

	for {
		if runLag := s.clock.Now().Sub(nextRun); runLag > 0 {
			s.metrics.ObserveRunLoopLag(runLag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// SweepSessionsJob evicts sessions idle past their TTL.
func (s *Scheduler) SweepSessionsJob(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	run := jobRunFromContext(ctx)
	removed := s.store.Sweep()
	run.AddProcessed(removed)

	if removed > 0 {
		s.logger(ctx).Info("sessions expired",
			zap.Int("removed", removed),
			zap.Int("active", s.store.Len()),
		)
	}
	return nil
}
