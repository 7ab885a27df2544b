// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest derives fixed-size content digests from canonical
// keys.
//
// A [Digest] is the 32-byte keyed BLAKE3 hash of a key's canonical
// byte encoding. Equal keys produce equal digests regardless of how
// they were constructed, so a digest can stand in for a whole key in
// indexes, caches, and deduplication tables where the 64-bit values
// from lib/canon's Key.Hash are too collision-prone to act as
// identifiers. The digest domain key differs from the hash domain
// key, so a key's hash is never a truncation of its digest.
//
// [Format] and [Parse] convert digests to and from 64-character hex
// strings. [ShortRef] renders the abbreviated "key-" form used in
// logs and CLI output.
package digest
