package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pulse-dev/pulse/pkg/pulse"
)

// CollectorConfig configures the Prometheus collector.
type CollectorConfig struct {
	// Namespace is the metrics namespace (default: "pulse").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics. Useful when one
	// process registers collectors for several runtimes.
	ConstLabels prometheus.Labels
}

// CollectorOption configures the Prometheus collector.
type CollectorOption func(*CollectorConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) CollectorOption {
	return func(c *CollectorConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) CollectorOption {
	return func(c *CollectorConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) CollectorOption {
	return func(c *CollectorConfig) {
		c.ConstLabels = labels
	}
}

func defaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		Namespace: "pulse",
	}
}

// Collector is a prometheus.Collector reading Runtime.Stats on every scrape.
// The runtime's counters are monotonic, so every metric is a counter.
type Collector struct {
	rt *pulse.Runtime

	nodesCreated     *prometheus.Desc
	signalWrites     *prometheus.Desc
	notifications    *prometheus.Desc
	effectRuns       *prometheus.Desc
	memoRecomputes   *prometheus.Desc
	batchFlushes     *prometheus.Desc
	actionDispatches *prometheus.Desc
	staleDrops       *prometheus.Desc
}

// NewCollector creates a collector for rt. Register it on a Prometheus
// registry; it holds no state of its own.
func NewCollector(rt *pulse.Runtime, opts ...CollectorOption) *Collector {
	config := defaultCollectorConfig()
	for _, opt := range opts {
		opt(&config)
	}

	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(
			prometheus.BuildFQName(config.Namespace, config.Subsystem, name),
			help, nil, config.ConstLabels,
		)
	}

	return &Collector{
		rt:               rt,
		nodesCreated:     desc("nodes_created_total", "Reactive nodes (signals, memos, effects, actions) created"),
		signalWrites:     desc("signal_writes_total", "Signal writes"),
		notifications:    desc("notifications_total", "Subscriber notifications delivered"),
		effectRuns:       desc("effect_runs_total", "Effect executions"),
		memoRecomputes:   desc("memo_recomputes_total", "Memo recomputations"),
		batchFlushes:     desc("batch_flushes_total", "Batch flushes at outermost batch end"),
		actionDispatches: desc("action_dispatches_total", "Action and multi-action dispatches"),
		staleDrops:       desc("stale_drops_total", "Async results dropped because a newer dispatch superseded them"),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.nodesCreated
	ch <- c.signalWrites
	ch <- c.notifications
	ch <- c.effectRuns
	ch <- c.memoRecomputes
	ch <- c.batchFlushes
	ch <- c.actionDispatches
	ch <- c.staleDrops
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.rt.Stats()

	counter := func(desc *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
	}

	counter(c.nodesCreated, stats.IDsIssued)
	counter(c.signalWrites, stats.SignalNotifies)
	counter(c.notifications, stats.NotificationsDelivered)
	counter(c.effectRuns, stats.EffectRuns)
	counter(c.memoRecomputes, stats.MemoRecomputes)
	counter(c.batchFlushes, stats.BatchFlushes)
	counter(c.actionDispatches, stats.ActionDispatches)
	counter(c.staleDrops, stats.StaleResultsDropped)
}

var _ prometheus.Collector = (*Collector)(nil)
