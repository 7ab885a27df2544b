// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"errors"
)

// MaxDepth is the nesting bound enforced by [ToKey],
// [ToKeyWithFloats], and [FromKey]. Each level of sequence, map,
// struct, or pointer nesting counts; input nested deeper fails with
// [ErrDepthExceeded] instead of exhausting the stack. Keys assembled
// directly from constructors are not depth-checked — their depth is
// bounded by the program text that builds them.
const MaxDepth = 64

// Sentinel errors, matched with errors.Is. The converters wrap them
// with the path to the failing element ("field \"author\": index 3:
// ..."), so callers match the sentinel and log the chain.
var (
	// ErrUnsupportedFloat is returned by [ToKey] when the walked value
	// contains a floating-point number. Use [ToKeyWithFloats] to admit
	// floats via the order-encoded bit representation.
	ErrUnsupportedFloat = errors.New("canon: floating-point value not supported")

	// ErrDepthExceeded is returned when conversion in either direction
	// recurses past [MaxDepth].
	ErrDepthExceeded = errors.New("canon: nesting exceeds depth bound")

	// ErrTypeMismatch is returned by [FromKey] when the target type
	// cannot accept the key's shape: wrong kind, numeric overflow,
	// array length mismatch, or a map key the target cannot represent.
	// The value is never coerced to fit.
	ErrTypeMismatch = errors.New("canon: type mismatch")

	// ErrUnsupportedType is returned by [ToKey] and [ToKeyWithFloats]
	// for Go types that are not structured data: channels, functions,
	// complex numbers, and unsafe pointers.
	ErrUnsupportedType = errors.New("canon: unsupported type")
)
