// Package telemetry exposes pulse runtime activity to Prometheus and
// OpenTelemetry.
//
// Collector adapts Runtime.Stats into Prometheus metrics:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(telemetry.NewCollector(rt))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// Traced wraps a resource fetcher so every fetch runs inside a span:
//
//	users := resource.New(rt, source,
//	    telemetry.Traced("users.fetch", fetchUsers))
package telemetry
