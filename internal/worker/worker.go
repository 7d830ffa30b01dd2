// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package worker

import (
	"context"
	"fmt"

	"github.com/swiftbench/swiftbench/internal/client"
	"github.com/swiftbench/swiftbench/internal/lifecycle"
	"github.com/swiftbench/swiftbench/internal/loop"
	swlog "github.com/swiftbench/swiftbench/internal/log"
	"github.com/swiftbench/swiftbench/internal/metrics"
	"github.com/swiftbench/swiftbench/internal/ratelimit"
)

// Worker is an isolated execution domain hosting one RequestLoop. It
// owns its HttpClient, RateLimiter and Histogram for its entire
// lifetime and communicates with the Orchestrator only via Inbound/
// Outbound messages.
type Worker struct {
	id  int
	in  chan Inbound
	out chan<- Outbound
}

// New builds a Worker that will publish Outbound messages on out.
func New(id int, out chan<- Outbound) *Worker {
	return &Worker{
		id:  id,
		in:  make(chan Inbound, 4),
		out: out,
	}
}

// Inbox returns the channel the Orchestrator uses to send this worker
// Start/Stop messages.
func (w *Worker) Inbox() chan<- Inbound { return w.in }

// Run boots the worker: it emits Ready, then waits for Start. It
// returns once the worker has sent its final Done or Error message, or,
// when Stop arrives before Start, right away without sending either.
func (w *Worker) Run(ctx context.Context, lc *lifecycle.Lifecycle) {
	defer func() {
		if r := recover(); r != nil {
			w.out <- Error{WorkerID: w.id, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	w.out <- Ready{WorkerID: w.id}

	for msg := range w.in {
		switch m := msg.(type) {
		case Start:
			w.runLoop(ctx, lc, m)
			return
		case Stop:
			return
		}
	}
}

func (w *Worker) runLoop(ctx context.Context, lc *lifecycle.Lifecycle, start Start) {
	cfg := start.Config
	log := swlog.WithWorker(w.id)

	c, err := client.New(client.Options{
		Connections: cfg.Connections,
		TimeoutMS:   cfg.TimeoutMS,
		HTTP2:       cfg.HTTP2,
		UserAgent:   "swiftbench/1.0",
	})
	if err != nil {
		w.out <- Error{WorkerID: w.id, Message: fmt.Sprintf("client init: %v", err)}
		return
	}
	defer c.Close()

	limiter := ratelimit.New(cfg.RateRPS)
	l := loop.New(w.id, cfg, c, limiter, lc)

	stop := make(chan struct{})
	stopOnce := make(chan struct{})
	go func() {
		defer close(stopOnce)
		for msg := range w.in {
			if _, ok := msg.(Stop); ok {
				select {
				case <-stop:
				default:
					close(stop)
				}
				return
			}
		}
	}()

	log.Debug().Msg("worker starting request loop")
	final := l.Run(ctx, stop, func(s metrics.Snapshot) {
		w.out <- Metrics{Snapshot: s}
	})
	w.out <- Done{Snapshot: final}
}
