// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for Keyfold
// binaries.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// These default to "unknown" / "0.1.0-dev" when not injected, which
// occurs during development builds and test runs. A release build
// sets them, for example:
//
//	go build -ldflags "-X github.com/keyfold-foundation/keyfold/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Formatting functions produce human-readable version strings:
//
//   - [Info] -- "0.1.0-dev (abc1234, 2026-02-10T...)" one-line form
//   - [Full] -- Info plus Go version and GOOS/GOARCH, for --version
package version
