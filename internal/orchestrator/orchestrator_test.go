// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package orchestrator

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
	"github.com/swiftbench/swiftbench/internal/metrics"
)

func TestRunAgainstFastEcho(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.New(srv.URL)
	cfg.Connections = 10
	cfg.DurationSec = 2

	o := New(cfg, nil)
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Requests.Total, uint64(1000))
	assert.Equal(t, uint64(0), result.Requests.Failed)
	assert.Less(t, result.Latency.P50, 5.0)
	assert.Equal(t, result.Requests.Total, result.Requests.Successful+result.Requests.Failed)
}

func TestRunRespectsRateCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.New(srv.URL)
	cfg.Connections = 50
	cfg.DurationSec = 10
	cfg.RateRPS = 500

	o := New(cfg, nil)
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.Requests.Total, uint64(4500))
	assert.LessOrEqual(t, result.Requests.Total, uint64(5100))
}

func TestRunCountsErrorsOn500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := config.New(srv.URL)
	cfg.Connections = 10
	cfg.DurationSec = 2

	o := New(cfg, nil)
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(0), result.Requests.Successful)
	assert.Equal(t, result.Requests.Total, result.Requests.Failed)
	assert.Equal(t, result.Requests.Total, result.Errors.ByStatusCode["500"])
}

func TestRunExceedsP99Threshold(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.New(srv.URL)
	cfg.Connections = 10
	cfg.DurationSec = 2

	o := New(cfg, nil)
	result, err := o.Run(context.Background())
	require.NoError(t, err)

	threshold := Threshold{P99: 1, P99Set: true}
	assert.True(t, threshold.Exceeded(result))
}

func TestRunRejectsBadConfigBeforeSpawning(t *testing.T) {
	cfg := config.New("")
	o := New(cfg, nil)
	_, err := o.Run(context.Background())
	require.Error(t, err)
}

func TestRunInvokesProgressCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := config.New(srv.URL)
	cfg.Connections = 4
	cfg.DurationSec = 2

	var ticks int
	o := New(cfg, func(phase lifecycle.Phase, fraction float64, totals metrics.Totals) {
		ticks++
		_ = phase
		_ = fraction
		_ = totals
	})

	_, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Greater(t, ticks, 0)
}
