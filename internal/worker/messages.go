// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package worker hosts the RequestLoop inside an isolated execution
// domain (one goroutine per worker, modeling the design's "OS-thread
// worker") that communicates with the Orchestrator solely by typed
// messages over owned channels.
package worker

import (
	"github.com/swiftbench/swiftbench/internal/config"
	"github.com/swiftbench/swiftbench/internal/metrics"
)

// Inbound is the closed set of messages the Orchestrator may send to a
// worker. The unexported marker method keeps the set closed, so a type
// switch over Inbound is exhaustive by construction: adding a new
// message kind without a matching case fails to compile wherever the
// marker is asserted.
type Inbound interface {
	inbound()
}

// Start tells a booted, waiting worker to begin its RequestLoop with
// the given per-worker configuration.
type Start struct {
	Config config.WorkerConfig
}

func (Start) inbound() {}

// Stop asks a worker to finish in-flight work and exit. Cooperative:
// honored at the next quiescence point (between requests), never
// mid-flight.
type Stop struct{}

func (Stop) inbound() {}

// Outbound is the closed set of messages a worker may send to the
// Orchestrator.
type Outbound interface {
	outbound()
}

// Ready is emitted once, immediately after boot, before any Start is
// processed.
type Ready struct {
	WorkerID int
}

func (Ready) outbound() {}

// Metrics carries a periodic (or final) snapshot of a worker's request
// counters and histogram delta.
type Metrics struct {
	Snapshot metrics.Snapshot
}

func (Metrics) outbound() {}

// Done is sent exactly once, as the worker's final message, carrying
// any metrics recorded since the last periodic Metrics snapshot.
type Done struct {
	Snapshot metrics.Snapshot
}

func (Done) outbound() {}

// Error reports an unrecoverable worker-runtime fault (not a
// request-layer failure, which is merely recorded). Receiving an Error
// is fatal to the run.
type Error struct {
	WorkerID int
	Message  string
}

func (Error) outbound() {}
