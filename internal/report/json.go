// Copyright 2026 The swiftbench Authors. All rights reserved.
// Use of this source code is governed by the Apache License,
// Version 2.0, that can be found in the LICENSE file.

package report

import (
	"encoding/json"
	"io"

	"github.com/swiftbench/swiftbench/internal/orchestrator"
)

// JSONRenderer writes the Result record verbatim, field names exactly
// as defined on orchestrator.Result.
type JSONRenderer struct{}

func (JSONRenderer) Render(w io.Writer, result orchestrator.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
