package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	SchedulerJobReasonDeadlineExceeded = "deadline_exceeded"
	SchedulerJobReasonCanceled         = "canceled"
	SchedulerJobReasonUnknown          = "unknown"
)

const (
	JobSweepSessions = "sweep_sessions"
)

// SchedulerMetrics captures sweeper health and session store occupancy.
type SchedulerMetrics struct {
	jobRuns         *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	jobTimeouts     *prometheus.CounterVec
	jobErrors       *prometheus.CounterVec
	runLoopLag      prometheus.Observer
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsExpired prometheus.Counter
}

var (
	schedulerMetricsOnce sync.Once
	schedulerMetrics     *SchedulerMetrics
)

// Scheduler returns the singleton scheduler metrics registry.
func Scheduler() *SchedulerMetrics {
	return SchedulerWithConfig(Config{})
}

// SchedulerWithConfig returns the singleton scheduler metrics registry using config labels.
func SchedulerWithConfig(cfg Config) *SchedulerMetrics {
	schedulerMetricsOnce.Do(func() {
		schedulerMetrics = newSchedulerMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return schedulerMetrics
}

// NewSchedulerMetrics registers a fresh set of collectors on registerer.
// Tests use it with a private registry.
func NewSchedulerMetrics(registerer prometheus.Registerer, cfg Config) *SchedulerMetrics {
	return newSchedulerMetrics(registerer, cfg)
}

func newSchedulerMetrics(registerer prometheus.Registerer, cfg Config) *SchedulerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "quoteflow"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "quoteflow_scheduler_job_runs_total",
		Help:        "Scheduler job runs by name.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "quoteflow_scheduler_job_duration_seconds",
		Help:        "Scheduler job latency.",
		Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		ConstLabels: constLabels,
	}, []string{"job"})
	jobTimeouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "quoteflow_scheduler_job_timeouts_total",
		Help:        "Scheduler job timeouts.",
		ConstLabels: constLabels,
	}, []string{"job"})
	jobErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "quoteflow_scheduler_job_errors_total",
		Help:        "Scheduler job errors by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"job", "reason"})
	runLoopLag := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "quoteflow_scheduler_runloop_lag_seconds",
		Help:        "Scheduler run loop lag beyond the configured interval.",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		ConstLabels: constLabels,
	})
	sessionsActive := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "quoteflow_sessions_active",
		Help:        "Wizard sessions currently held in memory.",
		ConstLabels: constLabels,
	})
	sessionsCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "quoteflow_sessions_created_total",
		Help:        "Wizard sessions created.",
		ConstLabels: constLabels,
	})
	sessionsExpired := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "quoteflow_sessions_expired_total",
		Help:        "Wizard sessions removed after their idle TTL.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(
		jobRuns,
		jobDuration,
		jobTimeouts,
		jobErrors,
		runLoopLag,
		sessionsActive,
		sessionsCreated,
		sessionsExpired,
	)

	return &SchedulerMetrics{
		jobRuns:         jobRuns,
		jobDuration:     jobDuration,
		jobTimeouts:     jobTimeouts,
		jobErrors:       jobErrors,
		runLoopLag:      runLoopLag,
		sessionsActive:  sessionsActive,
		sessionsCreated: sessionsCreated,
		sessionsExpired: sessionsExpired,
	}
}

// IncJobRun increments the run counter for a scheduler job.
func (m *SchedulerMetrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

// ObserveJobDuration records scheduler job latency in seconds.
func (m *SchedulerMetrics) ObserveJobDuration(job string, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// IncJobTimeout increments the timeout counter for the scheduler job.
func (m *SchedulerMetrics) IncJobTimeout(job string) {
	if m == nil {
		return
	}
	m.jobTimeouts.WithLabelValues(job).Inc()
}

// IncJobError increments the scheduler job error counter with classification.
func (m *SchedulerMetrics) IncJobError(job string, err error) {
	if m == nil || err == nil {
		return
	}
	m.jobErrors.WithLabelValues(job, ClassifySchedulerJobReason(err)).Inc()
}

// ObserveRunLoopLag records lag between the scheduled tick and actual run start.
func (m *SchedulerMetrics) ObserveRunLoopLag(duration time.Duration) {
	if m == nil {
		return
	}
	lag := duration
	if lag < 0 {
		lag = 0
	}
	m.runLoopLag.Observe(lag.Seconds())
}

// SetSessionsActive records the current session store size.
func (m *SchedulerMetrics) SetSessionsActive(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}

func (m *SchedulerMetrics) IncSessionsCreated() {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
}

func (m *SchedulerMetrics) AddSessionsExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.sessionsExpired.Add(float64(n))
}

// ClassifySchedulerJobReason maps a job error onto a low-cardinality label.
func ClassifySchedulerJobReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return SchedulerJobReasonDeadlineExceeded
	case errors.Is(err, context.Canceled):
		return SchedulerJobReasonCanceled
	default:
		return SchedulerJobReasonUnknown
	}
}
