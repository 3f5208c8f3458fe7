package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/hostforge/internal/observability"
)

// Metrics collects run metrics on a private registry so they can be written
// as a node-exporter textfile when the run ends.
type Metrics struct {
	registry *prometheus.Registry

	taskRuns       *prometheus.CounterVec
	taskDuration   *prometheus.HistogramVec
	remoteCommands *prometheus.CounterVec
	transfers      *prometheus.CounterVec
	lastRunSuccess prometheus.Gauge
	lastRunTime    prometheus.Gauge
}

// Task results used as metric label values.
const (
	resultSuccess = "success"
	resultFailure = "failure"
	resultSkipped = "skipped"
)

// NewMetrics creates and registers the run metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		taskRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hostforge",
				Name:      "task_runs_total",
				Help:      "Total number of task executions by result",
			},
			[]string{"task", "result"},
		),
		taskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "hostforge",
				Name:      "task_duration_seconds",
				Help:      "Duration of task execution in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 500ms to ~4min
			},
			[]string{"task"},
		),
		remoteCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hostforge",
				Name:      "remote_commands_total",
				Help:      "Total number of remote commands by result",
			},
			[]string{"result"},
		),
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "hostforge",
				Name:      "transfers_total",
				Help:      "Total number of file transfers and probes by result",
			},
			[]string{"result"},
		),
		lastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hostforge",
			Name:      "last_run_success",
			Help:      "1 if the last run succeeded, 0 otherwise",
		}),
		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hostforge",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}

	m.registry.MustRegister(
		m.taskRuns,
		m.taskDuration,
		m.remoteCommands,
		m.transfers,
		m.lastRunSuccess,
		m.lastRunTime,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordTask records one task outcome.
func (m *Metrics) RecordTask(task, result string, duration time.Duration) {
	m.taskRuns.WithLabelValues(task, result).Inc()
	if result != resultSkipped {
		m.taskDuration.WithLabelValues(task).Observe(duration.Seconds())
	}
}

// RecordRun records the overall outcome of a run.
func (m *Metrics) RecordRun(success bool, finished time.Time) {
	if success {
		m.lastRunSuccess.Set(1)
	} else {
		m.lastRunSuccess.Set(0)
	}
	m.lastRunTime.Set(float64(finished.Unix()))
}

// WriteTextfile writes the metrics in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Observe returns an Observer that counts remote command and transfer
// events before forwarding them to next.
func (m *Metrics) Observe(next observability.Observer) observability.Observer {
	return &metricsObserver{Observer: next, metrics: m}
}

type metricsObserver struct {
	observability.Observer
	metrics *Metrics
}

func (o *metricsObserver) Event(event observability.Event) {
	switch event.Type {
	case observability.EventCommandRunning:
		o.metrics.remoteCommands.WithLabelValues("started").Inc()
	case observability.EventCommandFailed:
		o.metrics.remoteCommands.WithLabelValues(resultFailure).Inc()
	case observability.EventTransferCompleted:
		o.metrics.transfers.WithLabelValues(resultSuccess).Inc()
	case observability.EventTransferFailed:
		o.metrics.transfers.WithLabelValues(resultFailure).Inc()
	}
	o.Observer.Event(event)
}

func (o *metricsObserver) WithFields(fields map[string]string) observability.Observer {
	return &metricsObserver{Observer: o.Observer.WithFields(fields), metrics: o.metrics}
}
