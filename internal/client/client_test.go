// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c, err := New(Options{Connections: 4, TimeoutMS: 1000, UserAgent: "swiftbench-test"})
	require.NoError(t, err)
	defer c.Close()

	res := c.Execute(context.Background(), http.MethodGet, srv.URL, nil, nil)
	assert.Equal(t, KindNone, res.Kind)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, int64(5), res.BodyBytes)
	assert.Greater(t, res.LatencyUs, int64(0))
}

func TestExecuteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Options{Connections: 1, TimeoutMS: 10})
	require.NoError(t, err)
	defer c.Close()

	res := c.Execute(context.Background(), http.MethodGet, srv.URL, nil, nil)
	assert.Equal(t, KindTimeout, res.Kind)
	assert.Error(t, res.Err)
}

func TestExecuteConnectionError(t *testing.T) {
	c, err := New(Options{Connections: 1, TimeoutMS: 1000})
	require.NoError(t, err)
	defer c.Close()

	res := c.Execute(context.Background(), http.MethodGet, "http://127.0.0.1:1/", nil, nil)
	assert.Equal(t, KindConnection, res.Kind)
}

func TestExecuteDoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/redirect" {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Options{Connections: 1, TimeoutMS: 1000})
	require.NoError(t, err)
	defer c.Close()

	res := c.Execute(context.Background(), http.MethodGet, srv.URL+"/redirect", nil, nil)
	assert.Equal(t, http.StatusFound, res.StatusCode)
}
