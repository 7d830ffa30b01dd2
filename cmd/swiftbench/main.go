// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Command swiftbench is a closed-loop HTTP load generator: it drives a
// target with a configured concurrency and/or rate for a fixed
// duration and reports throughput, latency distribution, and error
// breakdown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/swiftbench/swiftbench/internal/compare"
	"github.com/swiftbench/swiftbench/internal/config"
	"github.com/swiftbench/swiftbench/internal/lifecycle"
	swlog "github.com/swiftbench/swiftbench/internal/log"
	"github.com/swiftbench/swiftbench/internal/metrics"
	"github.com/swiftbench/swiftbench/internal/orchestrator"
	"github.com/swiftbench/swiftbench/internal/probe"
	"github.com/swiftbench/swiftbench/internal/report"
)

// exit codes, per the CLI contract: 0 success, 1 threshold exceeded, 2
// configuration/runtime error.
const (
	exitOK        = 0
	exitThreshold = 1
	exitError     = 2
)

var (
	flagConnections int
	flagDuration    int
	flagRate        int
	flagTimeout     int
	flagRampUp      int
	flagWarmup      int
	flagMethod      string
	flagHeaders     []string
	flagBody        string
	flagJSONBody    string
	flagHTTP2       bool
	flagOutput      string
	flagOutFile     string
	flagP99         float64
	flagErrorRate   float64
	flagCompare     bool
	flagLogLevel    string
	flagLogJSON     bool

	p99Set       bool
	errorRateSet bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitError)
	}
}

var rootCmd = &cobra.Command{
	Use:     "swiftbench URL [URL...]",
	Short:   "Closed-loop HTTP load generator",
	Version: orchestrator.Version,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runBenchmark,
}

func init() {
	cobra.OnInitialize(initLogging)

	flags := rootCmd.Flags()
	flags.IntVarP(&flagConnections, "connections", "c", config.DefaultConnections, "aggregate concurrency")
	flags.IntVarP(&flagDuration, "duration", "d", config.DefaultDurationSec, "duration in seconds")
	flags.IntVar(&flagRate, "rate", 0, "aggregate requests/sec (0 = unlimited)")
	flags.IntVar(&flagTimeout, "timeout", config.DefaultTimeoutMS, "per-request timeout in ms")
	flags.IntVar(&flagRampUp, "ramp-up", 0, "ramp-up seconds (0->C, 0->R linear ramp)")
	flags.IntVar(&flagWarmup, "warmup", config.DefaultWarmupSec, "warmup seconds")
	flags.StringVarP(&flagMethod, "method", "m", config.DefaultMethod, "HTTP method")
	flags.StringArrayVarP(&flagHeaders, "header", "H", nil, `request header "Name: Value" (repeatable)`)
	flags.StringVar(&flagBody, "body", "", "raw request body")
	flags.StringVar(&flagJSONBody, "json", "", "request body, sets Content-Type: application/json")
	flags.BoolVar(&flagHTTP2, "http2", false, "prefer HTTP/2")
	flags.StringVar(&flagOutput, "output", string(report.FormatConsole), "reporter: console|json|html|csv")
	flags.StringVarP(&flagOutFile, "out", "o", "", "write rendered report to file instead of stdout")
	flags.Float64Var(&flagP99, "p99", 0, "fail if p99 latency (ms) exceeds threshold")
	flags.Float64Var(&flagErrorRate, "error-rate", 0, "fail if error fraction exceeds threshold")
	flags.BoolVar(&flagCompare, "compare", false, "run sequentially across all given URLs and compare")
	flags.StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&flagLogJSON, "log-json", false, "emit logs as JSON")
}

func initLogging() {
	swlog.Init(swlog.Config{Level: swlog.Level(flagLogLevel), JSONOutput: flagLogJSON})
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "p99":
			p99Set = true
		case "error-rate":
			errorRateSet = true
		}
	})

	cfg, err := buildConfig(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitError)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	if flagCompare {
		return runCompare(ctx, cfg, args)
	}
	return runSingle(ctx, cfg)
}

func runSingle(ctx context.Context, cfg *config.Config) error {
	probeResult := probe.Check(ctx, cfg.URL)
	if !probeResult.Reachable {
		fmt.Fprintf(os.Stderr, "target unreachable: %v\n", probeResult.Err)
		os.Exit(exitError)
	}

	var onTick orchestrator.Progress
	var lp *report.LiveProgress
	if flagOutput == string(report.FormatConsole) && isatty.IsTerminal(os.Stderr.Fd()) {
		lp = report.NewLiveProgress(os.Stderr, cfg.DurationSec)
		onTick = func(phase lifecycle.Phase, fraction float64, totals metrics.Totals) {
			lp.Tick(phase, fraction, totals)
		}
	}

	o := orchestrator.New(cfg, onTick)
	result, err := o.Run(ctx)
	if lp != nil {
		lp.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(exitError)
	}

	if err := writeResult(result); err != nil {
		return err
	}

	threshold := orchestrator.Threshold{
		P99: flagP99, P99Set: p99Set,
		ErrorRate: flagErrorRate, ErrorRateSet: errorRateSet,
	}
	if threshold.Exceeded(result) {
		os.Exit(exitThreshold)
	}
	return nil
}

func runCompare(ctx context.Context, cfg *config.Config, urls []string) error {
	results, err := compare.Run(ctx, cfg, urls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compare failed: %v\n", err)
		os.Exit(exitError)
	}
	compare.Render(os.Stdout, results)
	return nil
}

func writeResult(result orchestrator.Result) error {
	renderer := report.New(report.Format(flagOutput))

	out := os.Stdout
	if flagOutFile != "" {
		f, err := os.Create(flagOutFile)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer f.Close()
		return renderer.Render(f, result)
	}
	return renderer.Render(out, result)
}

func buildConfig(rawURL string) (*config.Config, error) {
	cfg := config.New(rawURL)
	cfg.Connections = flagConnections
	cfg.DurationSec = flagDuration
	cfg.RateRPS = flagRate
	cfg.TimeoutMS = flagTimeout
	cfg.RampUpSec = flagRampUp
	cfg.WarmupSec = flagWarmup
	cfg.Method = strings.ToUpper(flagMethod)
	cfg.HTTP2 = flagHTTP2

	for _, h := range flagHeaders {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return nil, fmt.Errorf("invalid header %q, expected \"Name: Value\"", h)
		}
		cfg.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	switch {
	case flagJSONBody != "":
		cfg.Body = []byte(flagJSONBody)
		cfg.Header.Set("Content-Type", "application/json")
	case flagBody != "":
		cfg.Body = []byte(flagBody)
	}

	if !report.ValidFormats(flagOutput) {
		return nil, fmt.Errorf("unknown output format %q", flagOutput)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
