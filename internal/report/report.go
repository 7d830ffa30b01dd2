// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

// Package report renders a finished orchestrator.Result for a human or
// a CI pipeline: console, JSON, CSV, and HTML are all thin views over
// the same Result record.
package report

import (
	"fmt"
	"io"

	"github.com/swiftbench/swiftbench/internal/orchestrator"
)

// Format names the supported output renderers, matching the CLI's
// --output values.
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatHTML    Format = "html"
)

// Renderer writes a finished Result to w in its own format.
type Renderer interface {
	Render(w io.Writer, result orchestrator.Result) error
}

// New resolves a Format to its Renderer. Unknown formats fall back to
// console, matching the CLI's default.
func New(f Format) Renderer {
	switch f {
	case FormatJSON:
		return JSONRenderer{}
	case FormatCSV:
		return CSVRenderer{}
	case FormatHTML:
		return HTMLRenderer{}
	default:
		return ConsoleRenderer{}
	}
}

// ValidFormats reports whether name is a recognized --output value.
func ValidFormats(name string) bool {
	switch Format(name) {
	case FormatConsole, FormatJSON, FormatCSV, FormatHTML:
		return true
	default:
		return false
	}
}

func formatRate(r *float64) string {
	if r == nil {
		return "unlimited"
	}
	return fmt.Sprintf("%.0f req/s", *r)
}
