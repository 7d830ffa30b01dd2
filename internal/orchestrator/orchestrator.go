// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package orchestrator wires the Config, Lifecycle, Worker pool and
// Aggregator together: it normalizes configuration, computes the
// worker count, starts the run, collects per-worker snapshots into a
// single Aggregator, and assembles the final Result record.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swiftbench/swiftbench/internal/config"
	"github.com/swiftbench/swiftbench/internal/lifecycle"
	swlog "github.com/swiftbench/swiftbench/internal/log"
	"github.com/swiftbench/swiftbench/internal/metrics"
	"github.com/swiftbench/swiftbench/internal/worker"
)

// Progress is an optional periodic callback the console reporter uses
// to drive a live progress display. It receives the lifecycle phase,
// the fraction complete, and the aggregate totals observed so far.
type Progress func(phase lifecycle.Phase, fraction float64, totals metrics.Totals)

// Orchestrator drives one benchmark run end to end.
type Orchestrator struct {
	cfg      *config.Config
	onTick   Progress
	runID    string
	workerFn func(id int, out chan<- worker.Outbound) *worker.Worker
}

// New builds an Orchestrator for cfg. onTick may be nil.
func New(cfg *config.Config, onTick Progress) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		onTick:   onTick,
		runID:    uuid.NewString(),
		workerFn: worker.New,
	}
}

// Run executes the benchmark to completion (or the lifecycle's hard
// deadline) and returns the assembled Result.
func (o *Orchestrator) Run(ctx context.Context) (Result, error) {
	if err := o.cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("configuration error: %w", err)
	}

	n := o.cfg.WorkerCount()
	shares := o.cfg.Shares(n)

	log := swlog.WithRun(o.runID)
	log.Info().Int("workers", n).Str("url", o.cfg.URL).Msg("starting run")

	out := make(chan worker.Outbound, n*4)
	workers := make([]*worker.Worker, n)
	for i := 0; i < n; i++ {
		workers[i] = o.workerFn(i, out)
	}

	lc := lifecycle.New(
		time.Duration(o.cfg.WarmupSec)*time.Second,
		time.Duration(o.cfg.RampUpSec)*time.Second,
		time.Duration(o.cfg.DurationSec)*time.Second,
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, w := range workers {
		go w.Run(runCtx, lc)
	}

	ready := 0
	for ready < n {
		msg := <-out
		if _, ok := msg.(worker.Ready); ok {
			ready++
		}
	}

	lc.Start()
	for i, w := range workers {
		w.Inbox() <- worker.Start{Config: shares[i]}
	}

	agg := metrics.NewAggregator(metrics.DefaultMaxMicros, metrics.DefaultBuckets)
	timeout := time.Duration(o.cfg.TimeoutMS) * time.Millisecond
	hardDeadline := time.Until(lc.HardDeadline(timeout))
	hardTimer := time.NewTimer(hardDeadline)
	defer hardTimer.Stop()

	started := time.Now()
	done := 0
	var runErr error

collect:
	for done < n {
		select {
		case msg := <-out:
			switch m := msg.(type) {
			case worker.Metrics:
				agg.Merge(m.Snapshot)
				o.reportProgress(lc, agg)
			case worker.Done:
				agg.Merge(m.Snapshot)
				done++
			case worker.Error:
				log.Error().Int("worker", m.WorkerID).Str("message", m.Message).Msg("worker fault")
				runErr = fmt.Errorf("worker %d: %s", m.WorkerID, m.Message)
				break collect
			}
		case <-hardTimer.C:
			log.Warn().Msg("hard deadline reached, forcing termination")
			break collect
		}
	}

	lc.Complete()
	cancel()
	for _, w := range workers {
		select {
		case w.Inbox() <- worker.Stop{}:
		default:
		}
	}
	drainRemaining(out, n-done)

	if runErr != nil {
		return Result{}, runErr
	}

	wallClock := time.Since(started)
	result := buildResult(o.cfg, agg, wallClock, o.runID)
	log.Info().Uint64("total", result.Requests.Total).Float64("p99", result.Latency.P99).Msg("run complete")
	return result, nil
}

func (o *Orchestrator) reportProgress(lc *lifecycle.Lifecycle, agg *metrics.Aggregator) {
	if o.onTick == nil {
		return
	}
	o.onTick(lc.Phase(), lc.Progress(), agg.Totals())
}

// drainRemaining absorbs any in-flight Done/Error messages from workers
// that were still finishing when the collection loop exited, so their
// goroutines don't block forever on a send to out.
func drainRemaining(out <-chan worker.Outbound, n int) {
	if n <= 0 {
		return
	}
	deadline := time.After(2 * time.Second)
	seen := 0
	for seen < n {
		select {
		case msg := <-out:
			if _, ok := msg.(worker.Done); ok {
				seen++
			}
		case <-deadline:
			return
		}
	}
}
