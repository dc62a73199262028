// Package stats accumulates per-execution outcomes and timings for a run.
package stats

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Accumulator is owned by a single loop and is not safe for concurrent use.
// total and the length of times always advance together.
type Accumulator struct {
	total  int
	failed int
	times  []time.Duration
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Record folds one completed execution into the totals.
func (a *Accumulator) Record(succeeded bool, elapsed time.Duration) {
	if elapsed < 0 {
		elapsed = 0
	}
	if !succeeded {
		a.failed++
	}
	a.times = append(a.times, elapsed)
	a.total++
}

// Counts is a cheap view of the running totals without the samples.
type Counts struct {
	Total   int
	Failed  int
	Samples int
}

func (a *Accumulator) Counts() Counts {
	return Counts{Total: a.total, Failed: a.failed, Samples: len(a.times)}
}

// Snapshot returns a copy of the current state; later records do not affect it.
func (a *Accumulator) Snapshot() Snapshot {
	times := make([]time.Duration, len(a.times))
	copy(times, a.times)
	return Snapshot{
		Total:  a.total,
		Failed: a.failed,
		Times:  times,
	}
}

// Snapshot is an immutable view of the accumulator. Derived values are
// computed from Times on every call.
type Snapshot struct {
	Total  int
	Failed int
	Times  []time.Duration
}

func (s Snapshot) Counts() Counts {
	return Counts{Total: s.Total, Failed: s.Failed, Samples: len(s.Times)}
}

// FailureRate returns the failure percentage and false when nothing ran.
func (s Snapshot) FailureRate() (float64, bool) {
	if s.Total == 0 {
		return 0, false
	}
	return 100 * float64(s.Failed) / float64(s.Total), true
}

func (s Snapshot) Mean() time.Duration {
	if len(s.Times) == 0 {
		return 0
	}
	var sum time.Duration
	for _, t := range s.Times {
		sum += t
	}
	return sum / time.Duration(len(s.Times))
}

func (s Snapshot) Min() time.Duration {
	if len(s.Times) == 0 {
		return 0
	}
	m := s.Times[0]
	for _, t := range s.Times[1:] {
		m = min(m, t)
	}
	return m
}

func (s Snapshot) Max() time.Duration {
	if len(s.Times) == 0 {
		return 0
	}
	m := s.Times[0]
	for _, t := range s.Times[1:] {
		m = max(m, t)
	}
	return m
}

// Percentiles holds latency quantiles derived from an HDR histogram.
type Percentiles struct {
	P50 time.Duration
	P90 time.Duration
	P99 time.Duration
}

// Percentiles tracks samples from 1µs up to one hour with 3 significant figures.
// Samples outside that range are clamped.
func (s Snapshot) Percentiles() Percentiles {
	if len(s.Times) == 0 {
		return Percentiles{}
	}

	h := hdrhistogram.New(1, int64(time.Hour/time.Microsecond), 3)
	for _, t := range s.Times {
		us := t.Microseconds()
		us = max(us, h.LowestTrackableValue())
		us = min(us, h.HighestTrackableValue())
		_ = h.RecordValue(us)
	}

	return Percentiles{
		P50: time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
		P90: time.Duration(h.ValueAtQuantile(90)) * time.Microsecond,
		P99: time.Duration(h.ValueAtQuantile(99)) * time.Microsecond,
	}
}
