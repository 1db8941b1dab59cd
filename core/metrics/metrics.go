// Package metrics provides the metric abstractions the runtime reports
// through, so the core stays independent of any instrumentation backend.
// adapters/prometheus supplies the Prometheus implementation.
package metrics

// Counter is a monotonically increasing metric.
type Counter interface {
	// Inc increments the counter by 1.
	Inc()
	// Add increments the counter by delta. delta must be >= 0.
	Add(delta float64)
}

// Gauge is a metric that can go up and down.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
}

// Histogram samples observations, e.g. sweep lengths.
type Histogram interface {
	Observe(value float64)
}

// Timer measures the duration of an operation. Call ObserveDuration when
// the operation completes:
//
//	defer m.SweepDuration().ObserveDuration()
type Timer interface {
	ObserveDuration()
}
