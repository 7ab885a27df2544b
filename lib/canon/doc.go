// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

// Package canon implements the canonical key representation at the core
// of Keyfold: a single normalized in-memory form — [Key] — that any
// structured Go value can be folded into, and that supports structural
// equality, total ordering, and content hashing. Values that Go cannot
// natively compare (maps have no iteration order, slices are not
// comparable at all) become usable as cache keys, memoization indexes,
// and deduplication handles once folded.
//
// A Key is a closed tagged union over nine shapes: Unit (null/absence),
// Bool, Int (signed 64-bit), Uint (unsigned 64-bit), Float (a 64-bit
// order-encoded bit pattern), String, Bytes, Seq (ordered list), and
// Map (pairs sorted by key). The shape set is closed by construction:
// the only way to obtain a Key is through the constructors and
// converters in this package, so a malformed Key cannot exist.
//
// The two conversions around the model:
//
//   - [ToKey] / [ToKeyWithFloats] fold an arbitrary Go value into a
//     Key, walking it with reflection. Types can override the default
//     walk by implementing [Marshaler]; types implementing
//     encoding.TextMarshaler fold to their text form.
//   - [FromKey] reconstructs a typed Go value from a Key, driven by
//     the target's shape. Types can take over via [Unmarshaler].
//
// Ordering and hashing guarantees:
//
//   - Equality is structural and insertion-order independent for maps:
//     map pairs are always stored sorted by key, so two maps with the
//     same entries are the same Key no matter how they were built.
//   - [Key.Compare] is a total order: Keys of different shapes order
//     by a fixed shape rank, Keys of the same shape by content.
//   - [Key.Hash] is consistent with equality: equal Keys hash to the
//     same 64-bit value. The hash is BLAKE3 (keyed, domain-separated)
//     over the Key's canonical byte encoding, never over memory
//     addresses or traversal history.
//   - Floats are carried as order-encoded IEEE-754 bit patterns, so
//     comparison is total (NaN included) and hashing is bit-stable.
//     Negative zero and positive zero are distinct Keys. [ToKey]
//     rejects floats entirely; [ToKeyWithFloats] admits them.
//
// Keys are immutable once constructed and safe for concurrent reads
// without synchronization. Constructors copy caller-supplied slices;
// accessors never return interior mutable state.
//
// This package depends on no other Keyfold packages.
package canon
