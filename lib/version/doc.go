// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports what a genomeencode binary was built from.
//
// Release builds inject the commit, dirty flag, build time and version
// with -ldflags -X, for example:
//
//	go build -ldflags "-X github.com/bureau-foundation/genomeencode/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Without them, [Info] reads the vcs.revision, vcs.modified and
// vcs.time settings the go command stamps into module builds. Test
// binaries carry neither and report "unknown".
package version
