// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package compare runs the same benchmark configuration sequentially
// against two or more URLs and renders a side-by-side console table.
// It is a thin orchestration over the Orchestrator; its only dependency
// on the core is the Result record shape.
package compare

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/swiftbench/swiftbench/internal/config"
	"github.com/swiftbench/swiftbench/internal/orchestrator"
)

// Run benchmarks each URL in urls, in sequence (never concurrently: a
// concurrent compare would contend for the same client CPU and
// invalidate the comparison), using the same settings as base for
// everything except URL, and returns one Result per URL in the same
// order.
func Run(ctx context.Context, base *config.Config, urls []string) ([]orchestrator.Result, error) {
	if len(urls) < 2 {
		return nil, fmt.Errorf("compare requires at least 2 URLs, got %d", len(urls))
	}

	results := make([]orchestrator.Result, 0, len(urls))
	for _, u := range urls {
		cfg := *base
		cfg.URL = u
		o := orchestrator.New(&cfg, nil)
		result, err := o.Run(ctx)
		if err != nil {
			return nil, fmt.Errorf("run against %s: %w", u, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Render prints a side-by-side comparison table, highlighting the
// fastest p99 and lowest error rate in green.
func Render(w io.Writer, results []orchestrator.Result) {
	bold := color.New(color.Bold)
	best := color.New(color.FgGreen)

	bestP99 := bestP99Index(results)
	bestErrRate := bestErrorRateIndex(results)

	bold.Fprintf(w, "%-40s %10s %10s %10s %10s\n", "URL", "RPS", "p50 (ms)", "p99 (ms)", "errors")
	for i, r := range results {
		errRate := errorRate(r)
		p99Line := fmt.Sprintf("%10.2f", r.Latency.P99)
		errLine := fmt.Sprintf("%9.2f%%", errRate*100)

		fmt.Fprintf(w, "%-40s %10.2f %10.2f ", truncate(r.URL, 40), r.Throughput.RPS, r.Latency.P50)
		if i == bestP99 {
			best.Fprint(w, p99Line)
		} else {
			fmt.Fprint(w, p99Line)
		}
		fmt.Fprint(w, " ")
		if i == bestErrRate {
			best.Fprintln(w, errLine)
		} else {
			fmt.Fprintln(w, errLine)
		}
	}
}

func errorRate(r orchestrator.Result) float64 {
	if r.Requests.Total == 0 {
		return 0
	}
	return float64(r.Requests.Failed) / float64(r.Requests.Total)
}

func bestP99Index(results []orchestrator.Result) int {
	best := -1
	for i, r := range results {
		if best == -1 || r.Latency.P99 < results[best].Latency.P99 {
			best = i
		}
	}
	return best
}

func bestErrorRateIndex(results []orchestrator.Result) int {
	best := -1
	for i, r := range results {
		if best == -1 || errorRate(r) < errorRate(results[best]) {
			best = i
		}
	}
	return best
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
