// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package loop implements the per-worker closed-loop request driver:
// acquire a rate-limiter token, issue a request, record the outcome,
// repeat until the lifecycle deadline or a stop signal. Concurrency
// within a worker comes from running cfg.Connections independent
// cooperative goroutines against the worker's shared connection pool
// (the alternative design the system allows in place of HTTP/1.1
// pipelining alone): all of them share one Histogram, whose Record path
// is serialized with a mutex, as the design permits.
package loop

import (
	"context"
	"sync"
	"time"

	"github.com/swiftbench/swiftbench/internal/client"
	"github.com/swiftbench/swiftbench/internal/config"
	"github.com/swiftbench/swiftbench/internal/lifecycle"
	"github.com/swiftbench/swiftbench/internal/metrics"
	"github.com/swiftbench/swiftbench/internal/ratelimit"
)

// snapshotInterval is how often a worker emits a periodic metrics
// snapshot while running.
const snapshotInterval = time.Second

// Loop drives closed-loop load for one worker.
type Loop struct {
	id      int
	cfg     config.WorkerConfig
	client  *client.Client
	limiter *ratelimit.Limiter
	lc      *lifecycle.Lifecycle

	mu        sync.Mutex
	hist      *metrics.Histogram
	priorHist *metrics.Histogram

	requests, success, failed, bytes uint64
	timeouts, connErrors             uint64
	byStatus                         map[int]uint64

	priorRequests, priorSuccess, priorFailed, priorBytes uint64
	priorTimeouts, priorConnErrors                       uint64
	priorByStatus                                        map[int]uint64
}

// New builds a Loop for worker id, owning c and limiter for its
// lifetime.
func New(id int, cfg config.WorkerConfig, c *client.Client, limiter *ratelimit.Limiter, lc *lifecycle.Lifecycle) *Loop {
	return &Loop{
		id:            id,
		cfg:           cfg,
		client:        c,
		limiter:       limiter,
		lc:            lc,
		hist:          metrics.NewHistogram(metrics.DefaultMaxMicros, metrics.DefaultBuckets),
		byStatus:      make(map[int]uint64),
		priorByStatus: make(map[int]uint64),
	}
}

// Run drives the loop until the lifecycle reaches cooldown/complete or
// stop is closed. emit is called with a periodic delta snapshot roughly
// once a second; the final delta snapshot is returned when Run exits.
func (l *Loop) Run(ctx context.Context, stop <-chan struct{}, emit func(metrics.Snapshot)) metrics.Snapshot {
	n := l.cfg.Connections
	if n < 1 {
		n = 1
	}

	// Start from an empty token bucket: a full initial bucket would add
	// one second of burst on top of rate × duration.
	if l.limiter != nil {
		for l.limiter.TryAcquire() {
		}
	}

	var wg sync.WaitGroup
	rampStep := time.Duration(0)
	if n > 1 {
		rampStep = l.rampStagger() / time.Duration(n)
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if rampStep > 0 {
				select {
				case <-time.After(rampStep * time.Duration(idx)):
				case <-stop:
					return
				}
			}
			l.runConnection(ctx, stop)
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	if l.limiter != nil && l.cfg.RampUpSec > 0 {
		go l.rampRate(done)
	}

	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			emit(l.delta())
		case <-done:
			return l.delta()
		}
	}
}

// rampStagger returns the ramp-up window configured on the benchmark,
// used to stagger each connection's first request across the ramp.
func (l *Loop) rampStagger() time.Duration {
	return time.Duration(l.cfg.RampUpSec) * time.Second
}

// rampRate linearly scales the limiter from near-zero up to its target
// rate over the configured ramp-up window, per the Open Question
// resolution in the design: 0->R over W_rampUp seconds.
func (l *Loop) rampRate(done <-chan struct{}) {
	target := l.limiter.Rate()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			frac := l.lc.RampFraction()
			l.limiter.SetRate(target * frac)
			if frac >= 1 {
				return
			}
		}
	}
}

func (l *Loop) runConnection(ctx context.Context, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		if l.lc.Done() {
			return
		}

		if l.limiter != nil {
			if err := l.limiter.Acquire(ctx); err != nil {
				return
			}
		}

		res := l.client.Execute(ctx, l.cfg.Method, l.cfg.URL, l.cfg.Header, l.cfg.Body)
		l.record(res)
	}
}

func (l *Loop) record(res client.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.requests++

	switch res.Kind {
	case client.KindTimeout:
		l.failed++
		l.timeouts++
	case client.KindConnection, client.KindProtocol:
		l.failed++
		l.connErrors++
	default:
		l.hist.Record(res.LatencyUs)
		l.bytes += uint64(res.BodyBytes)
		if config.SuccessStatusSet[res.StatusCode] {
			l.success++
		} else {
			l.failed++
			l.byStatus[res.StatusCode]++
		}
	}
}

// delta returns a Snapshot of everything recorded since the previous
// delta call, resetting the "prior" baseline.
func (l *Loop) delta() metrics.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	histDelta := l.hist.Sub(l.priorHist)
	l.priorHist = l.hist.Clone()

	byStatusDelta := make(map[int]uint64, len(l.byStatus))
	for code, n := range l.byStatus {
		byStatusDelta[code] = n - l.priorByStatus[code]
	}
	l.priorByStatus = make(map[int]uint64, len(l.byStatus))
	for code, n := range l.byStatus {
		l.priorByStatus[code] = n
	}

	snap := metrics.Snapshot{
		WorkerID:        l.id,
		Requests:        l.requests - l.priorRequests,
		Success:         l.success - l.priorSuccess,
		Failed:          l.failed - l.priorFailed,
		Bytes:           l.bytes - l.priorBytes,
		Timeouts:        l.timeouts - l.priorTimeouts,
		ConnectionError: l.connErrors - l.priorConnErrors,
		ByStatus:        byStatusDelta,
		HistogramDelta:  histDelta,
	}

	l.priorRequests = l.requests
	l.priorSuccess = l.success
	l.priorFailed = l.failed
	l.priorBytes = l.bytes
	l.priorTimeouts = l.timeouts
	l.priorConnErrors = l.connErrors

	return snap
}
