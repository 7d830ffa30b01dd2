// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPhaseTransitions(t *testing.T) {
	l := New(20*time.Millisecond, 0, 30*time.Millisecond)
	assert.Equal(t, Idle, l.Phase())
	l.Start()
	assert.Equal(t, Warmup, l.Phase())

	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, Running, l.Phase())

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, Cooldown, l.Phase())
}

func TestCompleteForces(t *testing.T) {
	l := New(0, 0, time.Hour)
	l.Start()
	assert.Equal(t, Running, l.Phase())
	l.Complete()
	assert.Equal(t, Complete, l.Phase())
}

func TestNoWarmupStartsRunning(t *testing.T) {
	l := New(0, 0, time.Hour)
	l.Start()
	assert.Equal(t, Running, l.Phase())
}

func TestRampFractionNoRamp(t *testing.T) {
	l := New(0, 0, time.Hour)
	l.Start()
	assert.Equal(t, float64(1), l.RampFraction())
}

func TestRampFractionProgresses(t *testing.T) {
	l := New(0, 40*time.Millisecond, time.Hour)
	l.Start()
	assert.Equal(t, Phase(RampUp), l.Phase())
	time.Sleep(20 * time.Millisecond)
	frac := l.RampFraction()
	assert.Greater(t, frac, float64(0))
	assert.Less(t, frac, float64(1))
}
