// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"reflect"
)

// JSONOutput adds a --json flag to any params struct that embeds it.
//
//	if done, err := params.EmitJSON(report); done {
//	    return err
//	}
//	// text output
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result to [Stdout] as indented JSON when --json is
// set and reports whether it did. A nil slice is written as [] rather
// than null.
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	if value := reflect.ValueOf(result); value.Kind() == reflect.Slice && value.IsNil() {
		result = reflect.MakeSlice(value.Type(), 0, 0).Interface()
	}
	encoder := json.NewEncoder(Stdout)
	encoder.SetIndent("", "  ")
	return true, encoder.Encode(result)
}
