package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	catalogservice "github.com/smallbiznis/quoteflow/internal/catalog/service"
	"github.com/smallbiznis/quoteflow/internal/clock"
	"github.com/smallbiznis/quoteflow/internal/config"
	obsmetrics "github.com/smallbiznis/quoteflow/internal/observability/metrics"
	"github.com/smallbiznis/quoteflow/internal/session"
	wizarddomain "github.com/smallbiznis/quoteflow/internal/wizard/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	removed int
	active  int
	calls   int
}

func (f *fakeSweeper) Sweep() int {
	f.calls++
	return f.removed
}

func (f *fakeSweeper) Len() int { return f.active }

func newTestScheduler(t *testing.T, store Sweeper, cfg Config) (*Scheduler, *prometheus.Registry) {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	m := obsmetrics.NewSchedulerMetrics(registry, obsmetrics.Config{})
	fake := clock.NewFakeClock(time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC))
	s, err := newScheduler(zap.NewNop(), fake, node, store, cfg, m)
	require.NoError(t, err)
	return s, registry
}

func counterValue(t *testing.T, registry *prometheus.Registry, name, job string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "job" && label.GetValue() == job {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestNewRejectsMissingDependencies(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = newScheduler(zap.NewNop(), nil, nil, &fakeSweeper{}, Config{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, time.Minute, cfg.RunInterval)
	assert.Equal(t, 10*time.Second, cfg.SweepTimeout)

	provided := ProvideConfig(config.Config{Session: config.SessionConfig{SweepInterval: 15 * time.Second}})
	assert.Equal(t, 15*time.Second, provided.RunInterval)
}

func TestRunOnceSweepsSessions(t *testing.T) {
	sweeper := &fakeSweeper{removed: 3, active: 5}
	s, registry := newTestScheduler(t, sweeper, Config{})

	require.NoError(t, s.RunOnce(context.Background()))

	assert.Equal(t, 1, sweeper.calls)
	assert.Equal(t, float64(1), counterValue(t, registry, "quoteflow_scheduler_job_runs_total", obsmetrics.JobSweepSessions))
	assert.Zero(t, counterValue(t, registry, "quoteflow_scheduler_job_errors_total", obsmetrics.JobSweepSessions))
}

func TestRunOnceSkipsDisabledJobs(t *testing.T) {
	sweeper := &fakeSweeper{}
	s, _ := newTestScheduler(t, sweeper, Config{EnabledJobs: []string{"something_else"}})

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Zero(t, sweeper.calls)
}

func TestCanceledContextCountsAsTimeout(t *testing.T) {
	sweeper := &fakeSweeper{}
	s, registry := newTestScheduler(t, sweeper, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.RunOnce(ctx))
	assert.Zero(t, sweeper.calls)
	assert.Equal(t, float64(1), counterValue(t, registry, "quoteflow_scheduler_job_timeouts_total", obsmetrics.JobSweepSessions))
	assert.Equal(t, float64(1), counterValue(t, registry, "quoteflow_scheduler_job_errors_total", obsmetrics.JobSweepSessions))
}

func TestSweepEvictsIdleStoreSessions(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC))
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	store := session.NewStore(session.Params{
		Config: config.Config{Session: config.SessionConfig{TTL: time.Minute}},
		Clock:  fake,
		GenID:  node,
		Log:    zap.NewNop(),
	})
	build := func(id string) *wizarddomain.Session {
		return wizarddomain.NewSession(id, catalogservice.Default(), wizarddomain.Engines{})
	}
	store.Create(build)
	store.Create(build)

	s, err := newScheduler(zap.NewNop(), fake, node, store, Config{}, obsmetrics.NewSchedulerMetrics(prometheus.NewRegistry(), obsmetrics.Config{}))
	require.NoError(t, err)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 2, store.Len())

	fake.Advance(2 * time.Minute)
	require.NoError(t, s.RunOnce(context.Background()))
	assert.Zero(t, store.Len())
}

func TestRunForeverStopsOnCancel(t *testing.T) {
	sweeper := &fakeSweeper{}
	s, _ := newTestScheduler(t, sweeper, Config{RunInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.RunForever(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunForever did not return after cancel")
	}
}
