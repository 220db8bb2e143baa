// Package metrics provides the small set of metric primitives the actor
// runtime reports through, so instrumentation backends (Prometheus, StatsD)
// can be plugged in without the core depending on any of them.
package metrics

// Timer measures the duration of an operation. Call ObserveDuration when
// the operation completes to record the elapsed time.
//
//	defer m.MessageDuration("bucket.Get").ObserveDuration()
type Timer interface {
	ObserveDuration()
}

// TimerFunc adapts a plain function to the Timer interface.
type TimerFunc func()

func (f TimerFunc) ObserveDuration() { f() }

type nopTimer struct{}

func (nopTimer) ObserveDuration() {}

// NopTimer returns a Timer that records nothing.
func NopTimer() Timer { return nopTimer{} }
