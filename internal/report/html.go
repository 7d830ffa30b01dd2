// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package report

import (
	"html/template"
	"io"

	"github.com/swiftbench/swiftbench/internal/orchestrator"
)

// HTMLRenderer writes a single self-contained HTML page with an inline
// CSS bar chart of the latency percentiles.
type HTMLRenderer struct{}

type htmlView struct {
	orchestrator.Result
	Bars []percentileBar
}

type percentileBar struct {
	Label    string
	Value    float64
	WidthPct float64
}

func (HTMLRenderer) Render(w io.Writer, result orchestrator.Result) error {
	bars := []percentileBar{
		{"p50", result.Latency.P50, 0},
		{"p75", result.Latency.P75, 0},
		{"p90", result.Latency.P90, 0},
		{"p95", result.Latency.P95, 0},
		{"p99", result.Latency.P99, 0},
		{"p99.9", result.Latency.P999, 0},
	}
	max := result.Latency.Max
	if max <= 0 {
		max = 1
	}
	for i := range bars {
		bars[i].WidthPct = (bars[i].Value / max) * 100
	}

	view := htmlView{Result: result, Bars: bars}
	return htmlTemplate.Execute(w, view)
}

var htmlTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>swiftbench report - {{.URL}}</title>
<style>
  body { font-family: -apple-system, Helvetica, Arial, sans-serif; margin: 2rem; color: #1a1a1a; }
  h1 { font-size: 1.25rem; }
  table { border-collapse: collapse; margin-bottom: 1.5rem; }
  td, th { padding: 0.25rem 0.75rem; text-align: left; border-bottom: 1px solid #eee; }
  .bar-row { display: flex; align-items: center; margin: 0.25rem 0; }
  .bar-label { width: 4rem; font-variant-numeric: tabular-nums; }
  .bar-track { flex: 1; background: #f0f0f0; border-radius: 3px; overflow: hidden; height: 1rem; }
  .bar-fill { background: #3b82f6; height: 100%; }
  .bar-value { width: 5rem; text-align: right; font-variant-numeric: tabular-nums; }
  .failed { color: #b91c1c; }
</style>
</head>
<body>
  <h1>{{.Method}} {{.URL}}</h1>
  <table>
    <tr><th>Connections</th><td>{{.Connections}}</td></tr>
    <tr><th>Duration</th><td>{{.Duration}}s</td></tr>
    <tr><th>Total requests</th><td>{{.Requests.Total}}</td></tr>
    <tr><th>Failed</th><td class="{{if .Requests.Failed}}failed{{end}}">{{.Requests.Failed}}</td></tr>
    <tr><th>Throughput</th><td>{{printf "%.2f" .Throughput.RPS}} req/s</td></tr>
  </table>

  <h2>Latency (ms)</h2>
  {{range .Bars}}
  <div class="bar-row">
    <div class="bar-label">{{.Label}}</div>
    <div class="bar-track"><div class="bar-fill" style="width: {{printf "%.1f" .WidthPct}}%"></div></div>
    <div class="bar-value">{{printf "%.2f" .Value}}</div>
  </div>
  {{end}}

  <p><small>run {{.Meta.RunID}} at {{.Timestamp}} - swiftbench {{.Meta.Version}}</small></p>
</body>
</html>
`))
