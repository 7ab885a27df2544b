// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Keyfold's standard CBOR encoding
// configuration and the wire form of canonical keys.
//
// Keyfold uses two serialization surfaces with a clear boundary:
//
//   - JSON, JSONC, and YAML at the edges: the documents the CLI reads
//     and folds into keys.
//   - CBOR for interchange: keys and digest records exchanged between
//     processes or written to disk.
//
// This package provides the shared CBOR encoding and decoding modes
// so that every Keyfold package encodes identically without
// duplicating configuration. The encoder uses Core Deterministic
// Encoding (RFC 8949 §4.2): sorted map keys, smallest integer
// encoding, no indefinite-length items. Same logical data always
// produces identical bytes.
//
// [EncodeKey] and [DecodeKey] translate canonical keys to and from
// CBOR. A key travels as a small tagged array rather than as native
// CBOR data; in particular, Float payloads are carried as their
// order-encoded bit pattern, because deterministic CBOR float
// encoding collapses NaN payloads and would merge keys that the
// canonical form keeps distinct. Equal keys always encode to
// identical bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// # Struct Tags
//
// Key wire items carry no struct tags; a key travels as positional
// CBOR, and the `canon` tag that renames or skips struct fields
// belongs to the folding rules in package canon, not to this package.
// Record types that consumers serialize through [Marshal] (index
// entries carrying [RawMessage] key bytes, for example) follow
// fxamacker/cbor's standard tag handling: `cbor` tags name fields,
// and `json` tags apply when no `cbor` tag is present, so a type
// shared with a JSON surface needs only its `json` tags.
package codec
