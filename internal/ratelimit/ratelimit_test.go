// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnlimitedIsNoop(t *testing.T) {
	var l *Limiter
	assert.Equal(t, float64(0), l.Rate())
	assert.True(t, l.TryAcquire())
	assert.NoError(t, l.Acquire(context.Background()))
}

func TestAcquireSpendsToken(t *testing.T) {
	l := New(1000)
	require := assert.New(t)
	require.True(l.TryAcquire())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(l.Acquire(ctx))
}

func TestTryAcquireDrains(t *testing.T) {
	l := New(2)
	got := 0
	for i := 0; i < 10; i++ {
		if l.TryAcquire() {
			got++
		}
	}
	assert.LessOrEqual(t, got, 3) // burst of 2 plus maybe one refill tick
}
