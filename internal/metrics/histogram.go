// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package metrics implements the fixed-bucket latency histogram and the
// cross-worker aggregation built on top of it. Bucketing and merge
// semantics follow the contract in the system design: O(1) record, no
// allocation in the hot path, O(B) percentile and merge.
package metrics

import "math"

const (
	// DefaultMaxMicros is L_max, the upper bound of the histogram range,
	// in microseconds (10s).
	DefaultMaxMicros int64 = 10_000_000
	// DefaultBuckets is B, the number of fixed-width buckets.
	DefaultBuckets int = 10_000
)

// Histogram is a linear-bucket latency recorder over microseconds.
// Samples at or beyond maxMicros clamp into the last bucket. A zero
// value is not usable; construct with NewHistogram.
type Histogram struct {
	maxMicros int64
	width     int64
	buckets   []uint64

	count uint64
	sum   uint64
	min   int64
	max   int64
}

// NewHistogram builds a histogram covering [0, maxMicros) in numBuckets
// equal-width buckets.
func NewHistogram(maxMicros int64, numBuckets int) *Histogram {
	if maxMicros <= 0 {
		maxMicros = DefaultMaxMicros
	}
	if numBuckets <= 0 {
		numBuckets = DefaultBuckets
	}
	return &Histogram{
		maxMicros: maxMicros,
		width:     maxMicros / int64(numBuckets),
		buckets:   make([]uint64, numBuckets),
		min:       math.MaxInt64,
		max:       0,
	}
}

// Buckets returns the configured bucket count.
func (h *Histogram) Buckets() int { return len(h.buckets) }

// Width returns the bucket width in microseconds.
func (h *Histogram) Width() int64 { return h.width }

// Count returns the total number of recorded samples.
func (h *Histogram) Count() uint64 { return h.count }

// Record adds a single latency sample, in microseconds, to the
// histogram. Values outside [0, maxMicros) are clamped into range.
func (h *Histogram) Record(v int64) {
	if v < 0 {
		v = 0
	}
	if v >= h.maxMicros {
		v = h.maxMicros - 1
	}
	idx := v / h.width
	last := int64(len(h.buckets) - 1)
	if idx > last {
		idx = last
	}
	h.buckets[idx]++
	h.count++
	h.sum += uint64(v)
	if v < h.min {
		h.min = v
	}
	if v > h.max {
		h.max = v
	}
}

// Min returns the minimum recorded sample in microseconds, or 0 if
// empty.
func (h *Histogram) Min() int64 {
	if h.count == 0 {
		return 0
	}
	return h.min
}

// Max returns the maximum recorded sample in microseconds.
func (h *Histogram) Max() int64 { return h.max }

// Mean returns the mean latency in microseconds, or 0 when empty.
func (h *Histogram) Mean() float64 {
	if h.count == 0 {
		return 0
	}
	return float64(h.sum) / float64(h.count)
}

// StdDev returns the standard deviation in microseconds computed from
// bucket midpoints weighted by bucket counts. Returns 0 when count < 2.
func (h *Histogram) StdDev() float64 {
	if h.count < 2 {
		return 0
	}
	mean := h.Mean()
	var sumSq float64
	for i, c := range h.buckets {
		if c == 0 {
			continue
		}
		mid := (float64(i) + 0.5) * float64(h.width)
		d := mid - mean
		sumSq += d * d * float64(c)
	}
	return math.Sqrt(sumSq / float64(h.count))
}

// Percentile returns the midpoint of the first bucket whose cumulative
// count reaches p percent of samples, in microseconds, clamped to the
// recorded [Min, Max] so percentiles never fall outside the observed
// range. Returns 0 when empty.
func (h *Histogram) Percentile(p float64) float64 {
	if h.count == 0 {
		return 0
	}
	target := uint64(math.Ceil(p / 100 * float64(h.count)))
	if target == 0 {
		target = 1
	}
	v := (float64(len(h.buckets)-1) + 0.5) * float64(h.width)
	var cum uint64
	for i, c := range h.buckets {
		cum += c
		if cum >= target {
			v = (float64(i) + 0.5) * float64(h.width)
			break
		}
	}
	return math.Min(math.Max(v, float64(h.Min())), float64(h.Max()))
}

// Merge folds other into h. Both histograms must share the same bucket
// count and width. Merge is commutative and associative: it only adds
// counters and takes elementwise min/max.
func (h *Histogram) Merge(other *Histogram) {
	if other == nil || other.count == 0 {
		return
	}
	for i, c := range other.buckets {
		h.buckets[i] += c
	}
	h.count += other.count
	h.sum += other.sum
	if other.min < h.min {
		h.min = other.min
	}
	if other.max > h.max {
		h.max = other.max
	}
}

// Clone returns a deep copy of h.
func (h *Histogram) Clone() *Histogram {
	c := &Histogram{
		maxMicros: h.maxMicros,
		width:     h.width,
		buckets:   make([]uint64, len(h.buckets)),
		count:     h.count,
		sum:       h.sum,
		min:       h.min,
		max:       h.max,
	}
	copy(c.buckets, h.buckets)
	return c
}

// Sub returns a new histogram containing only the samples recorded in
// h since prior was captured: an elementwise subtraction used to build
// an O(B) snapshot delta without re-transmitting the full cumulative
// state every tick. prior must have been produced by an earlier Clone
// of the same histogram (same bucket layout).
func (h *Histogram) Sub(prior *Histogram) *Histogram {
	if prior == nil {
		return h.Clone()
	}
	d := NewHistogram(h.maxMicros, len(h.buckets))
	for i := range h.buckets {
		d.buckets[i] = h.buckets[i] - prior.buckets[i]
	}
	d.count = h.count - prior.count
	d.sum = h.sum - prior.sum
	if d.count > 0 {
		// min/max are not exactly decomposable across a delta window;
		// approximate with the cumulative bounds, which is safe since
		// the Aggregator only needs min/max across the whole run.
		d.min = h.min
		d.max = h.max
	} else {
		d.min = math.MaxInt64
		d.max = 0
	}
	return d
}
