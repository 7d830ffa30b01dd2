// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/swiftbench/swiftbench/internal/orchestrator"
)

// ConsoleRenderer prints a human-readable summary, coloring the
// success/failure split the way a terminal reporter should: green when
// clean, red once any request failed.
type ConsoleRenderer struct{}

func (ConsoleRenderer) Render(w io.Writer, result orchestrator.Result) error {
	bold := color.New(color.Bold)
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	bold.Fprintf(w, "swiftbench %s %s\n", result.Method, result.URL)
	fmt.Fprintf(w, "  connections: %d   duration: %ds   rate: %s\n",
		result.Connections, result.Duration, formatRate(result.Rate))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Requests\n")
	fmt.Fprintf(w, "  total:      %d\n", result.Requests.Total)
	ok.Fprintf(w, "  successful: %d\n", result.Requests.Successful)
	if result.Requests.Failed > 0 {
		bad.Fprintf(w, "  failed:     %d\n", result.Requests.Failed)
	} else {
		fmt.Fprintf(w, "  failed:     %d\n", result.Requests.Failed)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Throughput\n")
	fmt.Fprintf(w, "  %.2f req/s   %.2f bytes/s   %d bytes total\n",
		result.Throughput.RPS, result.Throughput.BytesPerSecond, result.Throughput.TotalBytes)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Latency (ms)\n")
	fmt.Fprintf(w, "  min %.2f  mean %.2f  max %.2f  stddev %.2f\n",
		result.Latency.Min, result.Latency.Mean, result.Latency.Max, result.Latency.StdDev)
	fmt.Fprintf(w, "  p50 %.2f  p75 %.2f  p90 %.2f  p95 %.2f  p99 %.2f  p99.9 %.2f\n",
		result.Latency.P50, result.Latency.P75, result.Latency.P90,
		result.Latency.P95, result.Latency.P99, result.Latency.P999)
	fmt.Fprintln(w)

	if result.Requests.Failed > 0 {
		fmt.Fprintf(w, "Errors\n")
		fmt.Fprintf(w, "  timeouts: %d   connection errors: %d\n",
			result.Errors.Timeouts, result.Errors.ConnectionErrors)
		for code, n := range result.Errors.ByStatusCode {
			fmt.Fprintf(w, "  status %s: %d\n", code, n)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "run %s at %s\n", result.Meta.RunID, result.Timestamp)
	return nil
}
