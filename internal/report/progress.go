// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/paulbellamy/ratecounter"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/swiftbench/swiftbench/internal/lifecycle"
	"github.com/swiftbench/swiftbench/internal/metrics"
)

// LiveProgress drives a single mpb progress bar from the Orchestrator's
// periodic tick callback, tracking live RPS over the trailing second
// with a rolling ratecounter.
type LiveProgress struct {
	bar         *mpb.Bar
	progress    *mpb.Progress
	counter     *ratecounter.RateCounter
	durationSec int
	lastReq     uint64
}

// NewLiveProgress builds a progress bar spanning durationSec seconds of
// run phase, writing to w.
func NewLiveProgress(w io.Writer, durationSec int) *LiveProgress {
	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))
	bar := p.AddBar(int64(durationSec),
		mpb.PrependDecorators(decor.Name("swiftbench ")),
		mpb.AppendDecorators(decor.OnComplete(decor.Percentage(), "done")),
	)
	return &LiveProgress{
		bar:         bar,
		progress:    p,
		counter:     ratecounter.NewRateCounter(time.Second),
		durationSec: durationSec,
	}
}

// Tick implements the orchestrator.Progress signature: it advances the
// bar to the run phase's elapsed fraction and feeds the request delta
// into the rolling rate counter.
func (lp *LiveProgress) Tick(phase lifecycle.Phase, fraction float64, totals metrics.Totals) {
	delta := totals.Requests - lp.lastReq
	lp.lastReq = totals.Requests
	lp.counter.Incr(int64(delta))

	lp.bar.SetCurrent(int64(fraction * float64(lp.durationSec)))
}

// Close finalizes the progress bar, waiting for its render goroutine to
// drain.
func (lp *LiveProgress) Close() {
	if !lp.bar.Completed() {
		lp.bar.SetCurrent(int64(lp.durationSec))
	}
	lp.progress.Wait()
}

// String reports the current rolling requests-per-second figure.
func (lp *LiveProgress) String() string {
	return fmt.Sprintf("%d req/s", lp.counter.Rate())
}
