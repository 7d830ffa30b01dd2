// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package config holds the immutable request configuration for a
// benchmark run, its defaulting/normalization rules, and the per-worker
// configuration derived from it.
package config

import (
	"fmt"
	"net/http"
	"net/url"
	"runtime"
)

// Defaults, per the CLI surface contract.
const (
	DefaultConnections = 50
	DefaultDurationSec = 10
	DefaultTimeoutMS   = 5000
	DefaultMethod      = http.MethodGet
	DefaultWarmupSec   = 0

	// MaxWorkers bounds the number of OS-thread workers the Orchestrator
	// spawns, regardless of requested concurrency.
	MaxWorkers = 8
)

// ValidMethods is the fixed set of HTTP methods the CLI accepts.
var ValidMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// SuccessStatusSet is the fixed contract of statuses counted as
// successful.
var SuccessStatusSet = map[int]bool{
	200: true, 201: true, 202: true, 204: true,
	301: true, 302: true, 304: true,
}

// Config is the immutable, per-benchmark request configuration.
type Config struct {
	URL    string
	Method string
	Header http.Header
	Body   []byte

	Connections int
	DurationSec int
	RateRPS     int // 0 means unlimited
	TimeoutMS   int
	WarmupSec   int
	RampUpSec   int
	HTTP2       bool
}

// New returns a Config with CLI defaults applied.
func New(rawURL string) *Config {
	return &Config{
		URL:         rawURL,
		Method:      DefaultMethod,
		Header:      make(http.Header),
		Connections: DefaultConnections,
		DurationSec: DefaultDurationSec,
		TimeoutMS:   DefaultTimeoutMS,
		WarmupSec:   DefaultWarmupSec,
	}
}

// Validate checks the configuration before any worker is spawned.
// Failures here are the "configuration errors" of the error taxonomy
// and must produce exit code 2.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("missing target URL")
	}
	if _, err := url.ParseRequestURI(c.URL); err != nil {
		return fmt.Errorf("invalid URL %q: %w", c.URL, err)
	}
	if !ValidMethods[c.Method] {
		return fmt.Errorf("unsupported method %q", c.Method)
	}
	if c.Connections < 1 {
		return fmt.Errorf("connections must be >= 1, got %d", c.Connections)
	}
	if c.DurationSec < 1 {
		return fmt.Errorf("duration must be >= 1s, got %d", c.DurationSec)
	}
	if c.RateRPS < 0 {
		return fmt.Errorf("rate must be > 0 when set, got %d", c.RateRPS)
	}
	if c.TimeoutMS < 1 {
		return fmt.Errorf("timeout must be > 0ms, got %d", c.TimeoutMS)
	}
	if c.WarmupSec < 0 {
		return fmt.Errorf("warmup must be >= 0, got %d", c.WarmupSec)
	}
	if c.RampUpSec < 0 {
		return fmt.Errorf("ramp-up must be >= 0, got %d", c.RampUpSec)
	}
	return nil
}

// WorkerCount computes N = min(MaxWorkers, CPU count, connections).
func (c *Config) WorkerCount() int {
	n := c.Connections
	if cpus := runtime.NumCPU(); cpus < n {
		n = cpus
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}

// WorkerConfig is the per-worker derived configuration: its share of
// connections and rate, plus everything inherited from Config.
type WorkerConfig struct {
	ID          int
	Connections int
	RateRPS     float64 // 0 means unlimited
	Config
}

// Shares splits the aggregate connections C and, if set, the aggregate
// rate R into N worker shares via ceiling division, ceil(C/N) and
// ceil(R/N), applied to every worker rather than drawn down from a
// remaining pool. The sum of shares can exceed C (or R) by up to N-1:
// the overshoot is intentional, so observed concurrency and rate are
// always at least what was requested.
func (c *Config) Shares(n int) []WorkerConfig {
	out := make([]WorkerConfig, n)
	connShare := ceilDiv(c.Connections, n)

	var rateShare float64
	hasRate := c.RateRPS > 0
	if hasRate {
		rateShare = float64(ceilDiv(c.RateRPS, n))
	}

	for i := 0; i < n; i++ {
		out[i] = WorkerConfig{
			ID:          i,
			Connections: connShare,
			RateRPS:     rateShare,
			Config:      *c,
		}
	}
	return out
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	return (a + b - 1) / b
}
