// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package metrics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramEmpty(t *testing.T) {
	h := NewHistogram(0, 0)
	assert.Equal(t, uint64(0), h.Count())
	assert.Equal(t, float64(0), h.Mean())
	assert.Equal(t, float64(0), h.StdDev())
	assert.Equal(t, float64(0), h.Percentile(50))
	assert.Equal(t, float64(0), h.Percentile(99.9))
}

func TestHistogramRecordAndPercentiles(t *testing.T) {
	h := NewHistogram(DefaultMaxMicros, DefaultBuckets)
	for i := 1; i <= 100; i++ {
		h.Record(int64(i) * 1000) // 1ms .. 100ms
	}
	require.Equal(t, uint64(100), h.Count())
	assert.InDelta(t, 1000, h.Min(), 1)
	assert.InDelta(t, 100000, h.Max(), 1)

	p50 := h.Percentile(50)
	p99 := h.Percentile(99)
	assert.LessOrEqual(t, float64(h.Min()), p50)
	assert.LessOrEqual(t, p50, p99)
	assert.LessOrEqual(t, p99, float64(h.Max())+float64(h.Width()))
}

func TestHistogramClamping(t *testing.T) {
	h := NewHistogram(1000, 10) // width 100
	h.Record(-5)
	h.Record(100000) // way over max, clamps to last bucket
	assert.Equal(t, uint64(2), h.Count())
	last := h.Width() * int64(h.Buckets()-1)
	p999 := h.Percentile(99.9)
	assert.GreaterOrEqual(t, p999, float64(last))
	assert.Less(t, p999, float64(h.Width()*int64(h.Buckets())))
}

func TestHistogramMergeCommutativeAssociative(t *testing.T) {
	mk := func(seed int64) *Histogram {
		r := rand.New(rand.NewSource(seed))
		h := NewHistogram(DefaultMaxMicros, DefaultBuckets)
		for i := 0; i < 500; i++ {
			h.Record(int64(r.Intn(int(DefaultMaxMicros))))
		}
		return h
	}
	a := mk(1)
	b := mk(2)
	c := mk(3)

	ab := a.Clone()
	ab.Merge(b)
	abc1 := ab.Clone()
	abc1.Merge(c)

	cb := c.Clone()
	cb.Merge(b)
	abc2 := cb.Clone()
	abc2.Merge(a)

	assert.Equal(t, abc1.Count(), abc2.Count())
	assert.Equal(t, abc1.Percentile(50), abc2.Percentile(50))
	assert.Equal(t, abc1.Percentile(99.9), abc2.Percentile(99.9))
	assert.Equal(t, abc1.Min(), abc2.Min())
	assert.Equal(t, abc1.Max(), abc2.Max())
}

func TestHistogramSubDelta(t *testing.T) {
	h := NewHistogram(DefaultMaxMicros, DefaultBuckets)
	h.Record(1000)
	h.Record(2000)
	prior := h.Clone()

	h.Record(3000)
	h.Record(4000)

	delta := h.Sub(prior)
	assert.Equal(t, uint64(2), delta.Count())
}
