// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package orchestrator

import (
	"runtime"
	"strconv"
	"time"

	"github.com/swiftbench/swiftbench/internal/config"
	"github.com/swiftbench/swiftbench/internal/metrics"
)

// Version is the tool version stamped into every Result's meta block.
const Version = "1.0.0"

// Requests is the requests.{total,successful,failed} block.
type Requests struct {
	Total      uint64 `json:"total"`
	Successful uint64 `json:"successful"`
	Failed     uint64 `json:"failed"`
}

// Throughput is the throughput.{rps,bytesPerSecond,totalBytes} block.
type Throughput struct {
	RPS            float64 `json:"rps"`
	BytesPerSecond float64 `json:"bytesPerSecond"`
	TotalBytes     uint64  `json:"totalBytes"`
}

// Latency is the latency.* block, all values in milliseconds.
type Latency struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	P999   float64 `json:"p999"`
}

// Errors is the errors.* block. ByStatusCode is keyed by the numeric
// status code rendered as a string, per the wire contract.
type Errors struct {
	Timeouts         uint64            `json:"timeouts"`
	ConnectionErrors uint64            `json:"connectionErrors"`
	ByStatusCode     map[string]uint64 `json:"byStatusCode"`
}

// Meta is the run's metadata block. NodeVersion retains its historic
// key name for reporter compatibility; it is populated with the Go
// runtime version.
type Meta struct {
	Version     string `json:"version"`
	NodeVersion string `json:"nodeVersion"`
	Platform    string `json:"platform"`
	RunID       string `json:"runID"`
}

// Result is the stable, reporter-facing contract assembled once a run
// finishes: configuration echoed back, plus totals, throughput, latency
// distribution, and error tally.
type Result struct {
	URL         string   `json:"url"`
	Method      string   `json:"method"`
	Duration    int      `json:"duration"`
	Connections int      `json:"connections"`
	Rate        *float64 `json:"rate"`

	Requests   Requests   `json:"requests"`
	Throughput Throughput `json:"throughput"`
	Latency    Latency    `json:"latency"`
	Errors     Errors     `json:"errors"`

	Timestamp string `json:"timestamp"`
	Meta      Meta   `json:"meta"`
}

// buildResult assembles the Result record from the final aggregate and
// the configuration that produced it.
func buildResult(cfg *config.Config, agg *metrics.Aggregator, wallClock time.Duration, runID string) Result {
	totals := agg.Totals()
	stats := agg.LatencyStats()

	byStatus := make(map[string]uint64, len(totals.ByStatus))
	for code, n := range totals.ByStatus {
		byStatus[strconv.Itoa(code)] = n
	}

	var rate *float64
	if cfg.RateRPS > 0 {
		r := float64(cfg.RateRPS)
		rate = &r
	}

	seconds := wallClock.Seconds()
	var rps, bps float64
	if seconds > 0 {
		rps = float64(totals.Requests) / seconds
		bps = float64(totals.Bytes) / seconds
	}

	return Result{
		URL:         cfg.URL,
		Method:      cfg.Method,
		Duration:    cfg.DurationSec,
		Connections: cfg.Connections,
		Rate:        rate,
		Requests: Requests{
			Total:      totals.Requests,
			Successful: totals.Success,
			Failed:     totals.Failed,
		},
		Throughput: Throughput{
			RPS:            roundTo(rps, 2),
			BytesPerSecond: roundTo(bps, 2),
			TotalBytes:     totals.Bytes,
		},
		Latency: Latency{
			Min: stats.Min, Max: stats.Max, Mean: stats.Mean, StdDev: stats.StdDev,
			P50: stats.P50, P75: stats.P75, P90: stats.P90, P95: stats.P95,
			P99: stats.P99, P999: stats.P999,
		},
		Errors: Errors{
			Timeouts:         totals.Timeouts,
			ConnectionErrors: totals.ConnectionError,
			ByStatusCode:     byStatus,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Meta: Meta{
			Version:     Version,
			NodeVersion: runtime.Version(),
			Platform:    runtime.GOOS + "/" + runtime.GOARCH,
			RunID:       runID,
		},
	}
}

func roundTo(v float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int64(v*mult+0.5)) / mult
}
