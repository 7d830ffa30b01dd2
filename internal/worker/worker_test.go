// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftbench/swiftbench/internal/config"
	"github.com/swiftbench/swiftbench/internal/lifecycle"
)

func TestWorkerLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out := make(chan Outbound, 64)
	w := New(0, out)

	lc := lifecycle.New(0, 0, 150*time.Millisecond)
	lc.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(context.Background(), lc)
	}()

	select {
	case msg := <-out:
		_, ok := msg.(Ready)
		require.True(t, ok, "expected Ready first, got %T", msg)
	case <-time.After(time.Second):
		t.Fatal("worker never sent Ready")
	}

	cfg := config.WorkerConfig{Connections: 2}
	cfg.URL = srv.URL
	cfg.Method = http.MethodGet
	w.Inbox() <- Start{Config: cfg}

	var sawDone bool
	deadline := time.After(2 * time.Second)
	for !sawDone {
		select {
		case msg := <-out:
			switch m := msg.(type) {
			case Done:
				sawDone = true
				assert.GreaterOrEqual(t, m.Snapshot.Requests, uint64(0))
			case Error:
				t.Fatalf("unexpected worker error: %s", m.Message)
			}
		case <-deadline:
			t.Fatal("worker never sent Done")
		}
	}

	<-done
}

func TestWorkerStopBeforeStart(t *testing.T) {
	out := make(chan Outbound, 4)
	w := New(1, out)
	lc := lifecycle.New(0, 0, time.Hour)
	lc.Start()

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(context.Background(), lc)
	}()

	<-out // Ready
	w.Inbox() <- Stop{}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after Stop")
	}
}
