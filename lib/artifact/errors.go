// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"errors"
	"fmt"
)

// ErrCorrupt is matched by every [*CorruptError].
var ErrCorrupt = errors.New("corrupt artifact")

// CorruptError reports an artifact that is inconsistent or cannot be
// decoded. Field names the artifact field or pipeline stage that
// failed; Err is the underlying cause, which stays reachable through
// errors.Is and errors.As.
type CorruptError struct {
	Field string
	Err   error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt artifact: %s: %v", e.Field, e.Err)
}

// Unwrap exposes both [ErrCorrupt] and the underlying cause.
func (e *CorruptError) Unwrap() []error {
	return []error{ErrCorrupt, e.Err}
}

// corrupt builds a CorruptError with a formatted cause.
func corrupt(field, format string, args ...any) *CorruptError {
	return &CorruptError{Field: field, Err: fmt.Errorf(format, args...)}
}
