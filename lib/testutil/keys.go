// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"math"

	"github.com/keyfold-foundation/keyfold/lib/canon"
)

// SampleKeys returns a corpus of keys covering every shape: unit, both
// bools, signed and unsigned integer boundaries, the float order
// extremes (both NaNs, both infinities, both zeros), text, bytes, and
// nested seq and map forms. The keys are strictly increasing under
// canon.Compare and therefore pairwise distinct, so the corpus doubles
// as an ordering fixture.
func SampleKeys() []canon.Key {
	return []canon.Key{
		canon.Unit(),
		canon.Bool(false),
		canon.Bool(true),
		canon.Int(math.MinInt64),
		canon.Int(-1),
		canon.Int(0),
		canon.Int(math.MaxInt64),
		canon.Uint(0),
		canon.Uint(math.MaxUint64),
		canon.Float(math.Float64frombits(0xFFF8000000000000)), // NaN with the sign bit set
		canon.Float(math.Inf(-1)),
		canon.Float(-1.5),
		canon.Float(math.Copysign(0, -1)),
		canon.Float(0),
		canon.Float(1.5),
		canon.Float(math.Inf(1)),
		canon.Float(math.NaN()),
		canon.String(""),
		canon.String("a"),
		canon.String("ab"),
		canon.Bytes(nil),
		canon.Bytes([]byte{0}),
		canon.Bytes([]byte{0, 1}),
		canon.Seq(),
		canon.Seq(canon.Int(1)),
		canon.Seq(canon.Int(1), canon.Int(2)),
		canon.Map(),
		canon.Map(canon.Pair{K: canon.String("a"), V: canon.Int(1)}),
		canon.Map(
			canon.Pair{K: canon.String("a"), V: canon.Int(1)},
			canon.Pair{K: canon.String("b"), V: canon.Int(2)},
		),
	}
}

// NestedKey returns a seq nested depth levels around an integer leaf.
// Depth 0 is the bare leaf.
func NestedKey(depth int) canon.Key {
	k := canon.Int(1)
	for i := 0; i < depth; i++ {
		k = canon.Seq(k)
	}
	return k
}
