// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/swiftbench/swiftbench/internal/orchestrator"
)

// CSVRenderer dumps the Result as a single aggregate row: one benchmark
// run produces one row, unlike per-request CSV dumps some load testers
// emit.
type CSVRenderer struct{}

var csvHeader = []string{
	"url", "method", "duration", "connections", "rate",
	"requests_total", "requests_successful", "requests_failed",
	"rps", "bytes_per_second", "total_bytes",
	"latency_min_ms", "latency_max_ms", "latency_mean_ms", "latency_stddev_ms",
	"p50_ms", "p75_ms", "p90_ms", "p95_ms", "p99_ms", "p999_ms",
	"timeouts", "connection_errors",
	"timestamp",
}

func (CSVRenderer) Render(w io.Writer, result orchestrator.Result) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	rate := "unlimited"
	if result.Rate != nil {
		rate = strconv.FormatFloat(*result.Rate, 'f', 0, 64)
	}

	row := []string{
		result.URL,
		result.Method,
		strconv.Itoa(result.Duration),
		strconv.Itoa(result.Connections),
		rate,
		strconv.FormatUint(result.Requests.Total, 10),
		strconv.FormatUint(result.Requests.Successful, 10),
		strconv.FormatUint(result.Requests.Failed, 10),
		fmt.Sprintf("%.2f", result.Throughput.RPS),
		fmt.Sprintf("%.2f", result.Throughput.BytesPerSecond),
		strconv.FormatUint(result.Throughput.TotalBytes, 10),
		fmt.Sprintf("%.2f", result.Latency.Min),
		fmt.Sprintf("%.2f", result.Latency.Max),
		fmt.Sprintf("%.2f", result.Latency.Mean),
		fmt.Sprintf("%.2f", result.Latency.StdDev),
		fmt.Sprintf("%.2f", result.Latency.P50),
		fmt.Sprintf("%.2f", result.Latency.P75),
		fmt.Sprintf("%.2f", result.Latency.P90),
		fmt.Sprintf("%.2f", result.Latency.P95),
		fmt.Sprintf("%.2f", result.Latency.P99),
		fmt.Sprintf("%.2f", result.Latency.P999),
		strconv.FormatUint(result.Errors.Timeouts, 10),
		strconv.FormatUint(result.Errors.ConnectionErrors, 10),
		result.Timestamp,
	}
	return cw.Write(row)
}
