// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEmitJSON_Disabled(t *testing.T) {
	stdout, _ := captureOutput(t)
	var output JSONOutput
	done, err := output.EmitJSON(map[string]int{"a": 1})
	if done || err != nil {
		t.Errorf("EmitJSON without --json = (%v, %v), want (false, nil)", done, err)
	}
	if stdout.Len() != 0 {
		t.Errorf("EmitJSON without --json wrote %q", stdout.String())
	}
}

func TestEmitJSON_Enabled(t *testing.T) {
	stdout, _ := captureOutput(t)
	output := JSONOutput{OutputJSON: true}

	type row struct {
		Name  string  `json:"name"`
		Ratio float64 `json:"ratio"`
	}
	done, err := output.EmitJSON([]row{{Name: "chr1", Ratio: 0.25}})
	if !done || err != nil {
		t.Fatalf("EmitJSON = (%v, %v), want (true, nil)", done, err)
	}
	var decoded []row
	if err := json.Unmarshal(stdout.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if len(decoded) != 1 || decoded[0].Name != "chr1" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestEmitJSON_NilSliceBecomesEmptyArray(t *testing.T) {
	stdout, _ := captureOutput(t)
	output := JSONOutput{OutputJSON: true}
	var rows []string
	if _, err := output.EmitJSON(rows); err != nil {
		t.Fatalf("EmitJSON: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}
