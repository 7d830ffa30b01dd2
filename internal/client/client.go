// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package client wraps a pooled, keep-alive HTTP/1.1 (or HTTP/2)
// requester that measures per-request, end-to-end latency. It is the
// sole owner of its connection pool; nothing outside the owning worker
// ever touches it.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/http2"

	"github.com/swiftbench/swiftbench/internal/log"
)

// ErrorKind classifies a request-layer failure. HTTP-level non-success
// status codes are never an ErrorKind: they are a successful round trip
// carrying a status code the caller decides how to count.
type ErrorKind int

const (
	// KindNone means the request completed without a transport error.
	KindNone ErrorKind = iota
	KindTimeout
	KindConnection
	KindProtocol
)

// Options configures a Client's connection pool and transport
// behavior. One Options/Client pair is owned by exactly one worker.
type Options struct {
	Connections int
	TimeoutMS   int
	HTTP2       bool
	UserAgent   string
}

// Client is a pooled keep-alive HTTP requester.
type Client struct {
	hc        *http.Client
	userAgent string
}

// pipelineDepthHTTP1 documents the pool-layer convention referenced by
// the design: HTTP/1.1 allows this many idle connections per configured
// connection to emulate request pipelining; HTTP/2 uses stream
// multiplexing instead and allows only one per configured connection.
const pipelineDepthHTTP1 = 10

// New builds a Client whose pool holds opts.Connections persistent
// connections against the target origin.
func New(opts Options) (*Client, error) {
	maxIdle := opts.Connections * pipelineDepthHTTP1
	if opts.HTTP2 {
		maxIdle = opts.Connections
	}
	if maxIdle < 1 {
		maxIdle = 1
	}

	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, // load-testing tool, not a browser
		},
		MaxIdleConns:        maxIdle,
		MaxIdleConnsPerHost: maxIdle,
		MaxConnsPerHost:     opts.Connections,
		IdleConnTimeout:     60 * time.Second,
	}

	if opts.HTTP2 {
		if err := http2.ConfigureTransport(tr); err != nil {
			return nil, fmt.Errorf("http2.ConfigureTransport: %w", err)
		}
	} else {
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) http.RoundTripper)
	}

	timeout := time.Duration(opts.TimeoutMS) * time.Millisecond
	return &Client{
		hc: &http.Client{
			Transport: tr,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: opts.UserAgent,
	}, nil
}

// Close releases pooled idle connections.
func (c *Client) Close() {
	if tr, ok := c.hc.Transport.(*http.Transport); ok {
		tr.CloseIdleConnections()
	}
}

// Result is the outcome of a single Execute call.
type Result struct {
	StatusCode int
	BodyBytes  int64
	LatencyUs  int64
	Kind       ErrorKind
	Err        error
}

// Execute issues one request and fully reads the response body,
// measuring wall-clock latency from immediately before dispatch to
// immediately after the body is consumed.
func (c *Client) Execute(ctx context.Context, method, rawURL string, header http.Header, body []byte) Result {
	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return Result{Kind: KindConnection, Err: fmt.Errorf("new request: %w", err)}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	var connStart, ttfb time.Time
	trace := &httptrace.ClientTrace{
		GetConn: func(string) {
			connStart = time.Now()
		},
		GotFirstResponseByte: func() {
			ttfb = time.Now()
		},
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		latency := time.Since(start)
		return Result{Kind: classify(err), Err: err, LatencyUs: latency.Microseconds()}
	}
	if !ttfb.IsZero() && !connStart.IsZero() {
		logPhaseDebug(connStart, ttfb)
	}

	n, readErr := io.Copy(io.Discard, resp.Body)
	closeErr := resp.Body.Close()
	latency := time.Since(start)

	if readErr != nil {
		return Result{
			StatusCode: resp.StatusCode,
			BodyBytes:  n,
			LatencyUs:  latency.Microseconds(),
			Kind:       classify(readErr),
			Err:        readErr,
		}
	}
	if closeErr != nil {
		return Result{
			StatusCode: resp.StatusCode,
			BodyBytes:  n,
			LatencyUs:  latency.Microseconds(),
			Kind:       KindProtocol,
			Err:        closeErr,
		}
	}

	return Result{
		StatusCode: resp.StatusCode,
		BodyBytes:  n,
		LatencyUs:  latency.Microseconds(),
		Kind:       KindNone,
	}
}

// logPhaseDebug records time-to-first-byte at debug level only; it is
// never wired into the Histogram, keeping the hot path allocation-free
// at the default (non-debug) log level.
func logPhaseDebug(connStart, ttfb time.Time) {
	if log.Logger.GetLevel() > zerolog.DebugLevel {
		return
	}
	log.Logger.Debug().Dur("ttfb", ttfb.Sub(connStart)).Msg("request phase timing")
}

// classify maps a transport error to the error taxonomy: timeout, or
// connection error (DNS/refused/reset/TLS/premature close). Every other
// error, including a malformed response, is also reported as a
// connection error; classify never returns KindProtocol.
func classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return KindConnection
	}
	return KindConnection
}
