// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package metrics

// Snapshot is an atomic, transmittable copy of a worker's metrics state
// at an instant. It is emitted periodically (every 1s) and once more on
// worker exit. All counters are deltas since the previous snapshot from
// the same worker; HistogramDelta likewise holds only newly recorded
// samples (see Histogram.Sub).
type Snapshot struct {
	WorkerID int

	Requests uint64
	Success  uint64
	Failed   uint64
	Bytes    uint64

	Timeouts        uint64
	ConnectionError uint64
	ByStatus        map[int]uint64

	HistogramDelta *Histogram
}

// Aggregator merges per-worker snapshots into one master Histogram and
// running totals. Its operations (histogram merge, counter addition,
// map union) are all commutative and associative, so the final result
// does not depend on the interleaving of snapshots across workers.
type Aggregator struct {
	master *Histogram

	requests uint64
	success  uint64
	failed   uint64
	bytes    uint64

	timeouts   uint64
	connErrors uint64
	byStatus   map[int]uint64
}

// NewAggregator builds an Aggregator whose master histogram uses the
// given bucket layout; it must match the layout used by every worker.
func NewAggregator(maxMicros int64, numBuckets int) *Aggregator {
	return &Aggregator{
		master:   NewHistogram(maxMicros, numBuckets),
		byStatus: make(map[int]uint64),
	}
}

// Merge folds one worker snapshot into the aggregate. Safe to call with
// snapshots arriving in any order, from any worker.
func (a *Aggregator) Merge(s Snapshot) {
	if s.HistogramDelta != nil {
		a.master.Merge(s.HistogramDelta)
	}
	a.requests += s.Requests
	a.success += s.Success
	a.failed += s.Failed
	a.bytes += s.Bytes
	a.timeouts += s.Timeouts
	a.connErrors += s.ConnectionError
	for code, n := range s.ByStatus {
		a.byStatus[code] += n
	}
}

// Totals holds the raw accumulated counters, pre latency-stats
// conversion.
type Totals struct {
	Requests        uint64
	Success         uint64
	Failed          uint64
	Bytes           uint64
	Timeouts        uint64
	ConnectionError uint64
	ByStatus        map[int]uint64
}

// Totals returns a copy of the current accumulated counters.
func (a *Aggregator) Totals() Totals {
	byStatus := make(map[int]uint64, len(a.byStatus))
	for k, v := range a.byStatus {
		byStatus[k] = v
	}
	return Totals{
		Requests:        a.requests,
		Success:         a.success,
		Failed:          a.failed,
		Bytes:           a.bytes,
		Timeouts:        a.timeouts,
		ConnectionError: a.connErrors,
		ByStatus:        byStatus,
	}
}

// Histogram returns the master histogram accumulated so far. Callers
// must not mutate it.
func (a *Aggregator) Histogram() *Histogram { return a.master }

// LatencyStats is the Result record's latency summary, all fields in
// milliseconds, rounded to two decimals.
type LatencyStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P50    float64
	P75    float64
	P90    float64
	P95    float64
	P99    float64
	P999   float64
}

func usToMs(us float64) float64 {
	ms := us / 1000
	return roundTo(ms, 2)
}

func roundTo(v float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int64(v*mult+0.5)) / mult
}

// LatencyStats computes the final latency summary from the master
// histogram, converting microseconds to milliseconds.
func (a *Aggregator) LatencyStats() LatencyStats {
	h := a.master
	return LatencyStats{
		Min:    usToMs(float64(h.Min())),
		Max:    usToMs(float64(h.Max())),
		Mean:   usToMs(h.Mean()),
		StdDev: usToMs(h.StdDev()),
		P50:    usToMs(h.Percentile(50)),
		P75:    usToMs(h.Percentile(75)),
		P90:    usToMs(h.Percentile(90)),
		P95:    usToMs(h.Percentile(95)),
		P99:    usToMs(h.Percentile(99)),
		P999:   usToMs(h.Percentile(99.9)),
	}
}
