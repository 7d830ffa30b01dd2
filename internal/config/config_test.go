// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateMissingURL(t *testing.T) {
	c := New("")
	err := c.Validate()
	require.Error(t, err)
}

func TestValidateDefaults(t *testing.T) {
	c := New("http://example.com")
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultConnections, c.Connections)
	assert.Equal(t, DefaultMethod, c.Method)
}

func TestSharesAtLeastCoverTotal(t *testing.T) {
	c := New("http://example.com")
	c.Connections = 10
	c.RateRPS = 500

	shares := c.Shares(3)
	var connSum int
	var rateSum float64
	for _, s := range shares {
		connSum += s.Connections
		rateSum += s.RateRPS
	}
	// ceil(C/N) applied to every worker can overshoot the aggregate by
	// up to N-1; the overshoot is deliberate so the observed total is
	// always at least what was requested.
	assert.GreaterOrEqual(t, connSum, c.Connections)
	assert.GreaterOrEqual(t, rateSum, float64(c.RateRPS))
	assert.Less(t, connSum-c.Connections, len(shares))
}

func TestSharesEqualPerWorker(t *testing.T) {
	c := New("http://example.com")
	c.Connections = 50

	shares := c.Shares(8)
	for _, s := range shares {
		assert.Equal(t, 7, s.Connections)
	}
}

func TestSharesUnlimitedRate(t *testing.T) {
	c := New("http://example.com")
	c.Connections = 5
	shares := c.Shares(2)
	for _, s := range shares {
		assert.Equal(t, float64(0), s.RateRPS)
	}
}

func TestWorkerCountCapped(t *testing.T) {
	c := New("http://example.com")
	c.Connections = 1000
	n := c.WorkerCount()
	assert.LessOrEqual(t, n, MaxWorkers)
}
