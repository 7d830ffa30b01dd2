// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package compare

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftbench/swiftbench/internal/config"
)

func TestRunRequiresAtLeastTwoURLs(t *testing.T) {
	cfg := config.New("http://example.test")
	_, err := Run(context.Background(), cfg, []string{"http://example.test"})
	require.Error(t, err)
}

func TestRunCompareTwoTargets(t *testing.T) {
	fast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer fast.Close()
	alsoFast := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer alsoFast.Close()

	cfg := config.New("")
	cfg.Connections = 4
	cfg.DurationSec = 1

	results, err := Run(context.Background(), cfg, []string{fast.URL, alsoFast.URL})
	require.NoError(t, err)
	require.Len(t, results, 2)

	var buf bytes.Buffer
	Render(&buf, results)
	assert.Contains(t, buf.String(), "URL")
	assert.Contains(t, buf.String(), fast.URL)
}
