// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package orchestrator

// Threshold holds the optional CI-gating checks evaluated once a run's
// Result is assembled: a p99 latency ceiling and/or a maximum error
// fraction. Either check alone is sufficient to fail the run.
type Threshold struct {
	P99          float64
	P99Set       bool
	ErrorRate    float64
	ErrorRateSet bool
}

// Exceeded reports whether result fails t. p99 is checked first, then
// the error-rate fraction, per the CLI's documented check order: p99
// strictly greater than the configured ceiling, or failed/total
// strictly greater than the configured fraction.
func (t Threshold) Exceeded(result Result) bool {
	if t.P99Set && result.Latency.P99 > t.P99 {
		return true
	}
	if t.ErrorRateSet {
		var rate float64
		if result.Requests.Total > 0 {
			rate = float64(result.Requests.Failed) / float64(result.Requests.Total)
		}
		if rate > t.ErrorRate {
			return true
		}
	}
	return false
}
