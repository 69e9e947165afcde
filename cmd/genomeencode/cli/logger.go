// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Log output formats accepted by [NewCommandLogger].
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// NewCommandLogger creates a structured logger for CLI command
// operations. With [FormatAuto], uses slog.TextHandler when stderr is a
// terminal and slog.JSONHandler when stderr is piped or redirected
// (batch jobs, CI, workflow managers). [FormatText] and [FormatJSON]
// force one handler.
//
// Callers scope the logger with command-specific context via With():
//
//	logger := cli.NewCommandLogger(cfg.SlogLevel(), cfg.Log.Format).With(
//	    "command", "compress",
//	    "input", path,
//	)
func NewCommandLogger(level slog.Level, format string) *slog.Logger {
	if file, ok := Stderr.(*os.File); ok {
		return newLogger(Stderr, term.IsTerminal(int(file.Fd())), level, format)
	}
	return newLogger(Stderr, false, level, format)
}

func newLogger(w io.Writer, terminal bool, level slog.Level, format string) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	useText := format == FormatText || (format != FormatJSON && terminal)
	if useText {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}
