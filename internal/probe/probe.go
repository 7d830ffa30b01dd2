// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package probe implements the reachability pre-flight check the CLI
// runs before spawning any worker: a single lightweight request against
// the target, so an unreachable endpoint fails fast instead of burning
// the full run duration on connection errors.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Timeout bounds the probe request, independent of the benchmark's own
// per-request timeout: a probe should fail fast.
const Timeout = 3 * time.Second

// Result carries the outcome of a reachability probe.
type Result struct {
	Reachable  bool
	StatusCode int
	Err        error
}

// Check issues a HEAD request against rawURL, falling back to GET when
// the target rejects HEAD with 405 Method Not Allowed. It never
// considers an HTTP-level status an error: Reachable is true for any
// response the transport successfully received.
func Check(ctx context.Context, rawURL string) Result {
	client := &http.Client{Timeout: Timeout}

	status, err := probeOnce(ctx, client, http.MethodHead, rawURL)
	if err == nil && status == http.StatusMethodNotAllowed {
		status, err = probeOnce(ctx, client, http.MethodGet, rawURL)
	}
	if err != nil {
		return Result{Reachable: false, Err: err}
	}
	return Result{Reachable: true, StatusCode: status}
}

func probeOnce(ctx context.Context, client *http.Client, method, rawURL string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("building probe request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("probe request failed: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
