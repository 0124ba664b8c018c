package pulse

import "sync/atomic"

// runtimeStats holds internal counters. Atomic because async completions
// increment some of them from other goroutines.
type runtimeStats struct {
	idsIssued        atomic.Uint64
	signalNotifies   atomic.Uint64
	notifications    atomic.Uint64
	effectRuns       atomic.Uint64
	memoRecomputes   atomic.Uint64
	batchFlushes     atomic.Uint64
	actionDispatches atomic.Uint64
	staleDrops       atomic.Uint64
}

// Stats is a point-in-time snapshot of a Runtime's internal counters, for
// observability exporters (see the telemetry package).
type Stats struct {
	// IDsIssued is the number of reactive primitives ever created.
	IDsIssued uint64

	// SignalNotifies counts write notifications (Set/Update/WithMut and
	// memo invalidations).
	SignalNotifies uint64

	// NotificationsDelivered counts subscriber callbacks actually invoked
	// outside batches.
	NotificationsDelivered uint64

	// EffectRuns counts effect body executions, including initial runs.
	EffectRuns uint64

	// MemoRecomputes counts memo computations actually performed.
	MemoRecomputes uint64

	// BatchFlushes counts non-empty batch flushes.
	BatchFlushes uint64

	// ActionDispatches counts Action and MultiAction dispatches.
	ActionDispatches uint64

	// StaleResultsDropped counts async results discarded because a newer
	// dispatch superseded them.
	StaleResultsDropped uint64
}

// Stats snapshots the Runtime's counters.
func (rt *Runtime) Stats() Stats {
	return Stats{
		IDsIssued:              rt.stats.idsIssued.Load(),
		SignalNotifies:         rt.stats.signalNotifies.Load(),
		NotificationsDelivered: rt.stats.notifications.Load(),
		EffectRuns:             rt.stats.effectRuns.Load(),
		MemoRecomputes:         rt.stats.memoRecomputes.Load(),
		BatchFlushes:           rt.stats.batchFlushes.Load(),
		ActionDispatches:       rt.stats.actionDispatches.Load(),
		StaleResultsDropped:    rt.stats.staleDrops.Load(),
	}
}
