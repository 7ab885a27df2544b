// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test fixtures for Keyfold packages.
//
// [SampleKeys] returns a key corpus covering every canonical shape,
// strictly increasing under canon.Compare, for tests that need
// representative keys without constructing their own. [NestedKey]
// builds arbitrarily deep seq nesting for depth-bound tests.
//
// The helpers are pure constructors; none touch the filesystem or
// fail the test themselves.
//
// The only Keyfold dependency of this package is lib/canon.
package testutil
