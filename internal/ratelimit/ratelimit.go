// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package ratelimit implements the per-worker token bucket described by
// the system design: capacity equal to the configured rate (a burst of
// up to one second), refilled continuously, with blocking and
// non-blocking acquisition. It is a thin wrapper over
// golang.org/x/time/rate, whose Limiter already implements exactly this
// token-bucket discipline.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces requests to at most Rate() per second, per worker. A
// nil *Limiter is a valid "unlimited" limiter: Acquire and TryAcquire
// are both no-ops that return immediately/true.
type Limiter struct {
	rl   *rate.Limiter
	rate float64
}

// New builds a Limiter admitting r requests/second with a burst
// capacity of r (one second of accumulated tokens). r <= 0 means
// unlimited: New returns nil, and nil is safe to use via the methods
// below.
func New(r float64) *Limiter {
	if r <= 0 {
		return nil
	}
	burst := int(r)
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rl:   rate.NewLimiter(rate.Limit(r), burst),
		rate: r,
	}
}

// Rate reports the configured rate, or 0 if unlimited.
func (l *Limiter) Rate() float64 {
	if l == nil {
		return 0
	}
	return l.rate
}

// Acquire blocks, without busy-spinning, until a token is available or
// ctx is done. A nil receiver returns immediately (unlimited).
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.rl.Wait(ctx)
}

// TryAcquire is the non-blocking variant: it reports whether a token
// was available and, if so, consumes it. A nil receiver always returns
// true (unlimited).
func (l *Limiter) TryAcquire() bool {
	if l == nil {
		return true
	}
	return l.rl.Allow()
}

// SetRate adjusts the limiter's rate and burst in place, used by the
// ramp-up phase to scale from 0 toward the configured target over the
// ramp window. A no-op on a nil (unlimited) limiter.
func (l *Limiter) SetRate(r float64) {
	if l == nil {
		return
	}
	if r < 0.01 {
		r = 0.01
	}
	l.rate = r
	burst := int(r)
	if burst < 1 {
		burst = 1
	}
	l.rl.SetLimit(rate.Limit(r))
	l.rl.SetBurst(burst)
}
