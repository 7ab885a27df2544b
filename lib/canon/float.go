// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"math"
)

// FloatOrderBits maps a float64 to a uint64 whose unsigned order is
// the IEEE-754 total order of the floats: negative values (sign bit
// set) have all bits inverted, non-negative values have the sign bit
// set. The resulting order is
//
//	-NaN < -Inf < ... < -0.0 < +0.0 < ... < +Inf < +NaN
//
// with every distinct bit pattern (NaN payloads, the two zeros)
// mapping to a distinct integer. Float-shaped keys store this encoding
// as their payload: no float comparison happens anywhere downstream,
// so comparison stays total and hashing stays consistent with
// equality. The encoding is also what Float-shaped keys carry on the
// wire, where CBOR float canonicalization would otherwise collapse
// NaN payloads.
func FloatOrderBits(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&signBit != 0 {
		return ^bits
	}
	return bits | signBit
}

// FloatFromOrderBits inverts [FloatOrderBits] exactly.
func FloatFromOrderBits(enc uint64) float64 {
	if enc&signBit != 0 {
		return math.Float64frombits(enc &^ signBit)
	}
	return math.Float64frombits(^enc)
}

const signBit = uint64(1) << 63
