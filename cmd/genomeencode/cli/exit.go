// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ExitError signals a non-zero exit code without printing an extra
// error message. When a command handler returns an ExitError, the CLI
// exits with the specified code without printing the error string; the
// command is expected to have already written its own output.
//
// This is useful for commands where a non-zero exit is a valid
// outcome (e.g., "verify" returning 1 when an artifact does not
// reproduce its source) rather than an unexpected error.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// ExitCode returns the process exit code for an error returned by
// [Command.Execute]: the code of an [*ExitError], the category code of
// a [*ToolError], 0 for nil, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return exitError.Code
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError.Category.ExitCode()
	}
	return 1
}

// IsSilent reports whether err has already been reported by the
// command and main should exit without printing it.
func IsSilent(err error) bool {
	var exitError *ExitError
	return errors.As(err, &exitError)
}
