package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySchedulerJobReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: SchedulerJobReasonDeadlineExceeded},
		{name: "wrapped_deadline", err: fmt.Errorf("sweep: %w", context.DeadlineExceeded), want: SchedulerJobReasonDeadlineExceeded},
		{name: "canceled", err: context.Canceled, want: SchedulerJobReasonCanceled},
		{name: "unknown", err: errors.New("boom"), want: SchedulerJobReasonUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifySchedulerJobReason(tc.err))
		})
	}
}

func TestSessionGauges(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewSchedulerMetrics(registry, Config{ServiceName: "quoteflow", Environment: "test"})

	m.IncSessionsCreated()
	m.IncSessionsCreated()
	m.SetSessionsActive(2)
	m.AddSessionsExpired(1)
	m.SetSessionsActive(1)
	m.AddSessionsExpired(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsExpired))
}

func TestJobMetricsCarryConstLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewSchedulerMetrics(registry, Config{ServiceName: "quoteflow", Environment: "test"})

	m.IncJobRun(JobSweepSessions)
	m.ObserveJobDuration(JobSweepSessions, 20*time.Millisecond)
	m.IncJobError(JobSweepSessions, context.DeadlineExceeded)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues(JobSweepSessions)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobErrors.WithLabelValues(JobSweepSessions, SchedulerJobReasonDeadlineExceeded)))

	families, err := registry.Gather()
	require.NoError(t, err)
	var runs *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "quoteflow_scheduler_job_runs_total" {
			runs = f
		}
	}
	require.NotNil(t, runs)
	labels := map[string]string{}
	for _, lp := range runs.GetMetric()[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, "quoteflow", labels["service"])
	assert.Equal(t, "test", labels["env"])
	assert.Equal(t, JobSweepSessions, labels["job"])
}

func TestNilSchedulerMetricsAreSafe(t *testing.T) {
	var m *SchedulerMetrics
	m.IncJobRun("x")
	m.ObserveJobDuration("x", time.Second)
	m.IncJobTimeout("x")
	m.IncJobError("x", errors.New("boom"))
	m.ObserveRunLoopLag(time.Second)
	m.SetSessionsActive(3)
	m.IncSessionsCreated()
	m.AddSessionsExpired(2)
}
