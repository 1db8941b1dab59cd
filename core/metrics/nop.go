package metrics

type nop struct{}

func (nop) Inc()             {}
func (nop) Dec()             {}
func (nop) Add(float64)      {}
func (nop) Set(float64)      {}
func (nop) Observe(float64)  {}
func (nop) ObserveDuration() {}

// NopCounter returns a Counter that discards everything.
func NopCounter() Counter { return nop{} }

// NopGauge returns a Gauge that discards everything.
func NopGauge() Gauge { return nop{} }

// NopHistogram returns a Histogram that discards everything.
func NopHistogram() Histogram { return nop{} }

// NopTimer returns a Timer that records nothing.
func NopTimer() Timer { return nop{} }
