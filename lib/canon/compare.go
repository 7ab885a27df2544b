// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"bytes"
	"strings"
)

// Compare returns -1, 0, or +1 ordering k against other. The order is
// total: Keys of different shapes order by shape rank (the [Kind]
// constant order), Keys of the same shape by content. Seq and Map
// compare lexicographically element by element (pair by pair for
// Map, in sorted order), with the shorter one first on a tie. Float
// keys compare by their order-encoded bit patterns, so the order is
// total across NaN, infinities, and both zeros.
func (k Key) Compare(other Key) int {
	if k.kind != other.kind {
		if k.kind < other.kind {
			return -1
		}
		return 1
	}
	switch k.kind {
	case KindUnit:
		return 0
	case KindBool, KindUint, KindFloat:
		return compareUint64(k.num, other.num)
	case KindInt:
		return compareInt64(int64(k.num), int64(other.num))
	case KindString:
		return strings.Compare(k.str, other.str)
	case KindBytes:
		return bytes.Compare(k.bytes, other.bytes)
	case KindSeq:
		for i := 0; i < len(k.seq) && i < len(other.seq); i++ {
			if c := k.seq[i].Compare(other.seq[i]); c != 0 {
				return c
			}
		}
		return compareInt64(int64(len(k.seq)), int64(len(other.seq)))
	case KindMap:
		for i := 0; i < len(k.pairs) && i < len(other.pairs); i++ {
			if c := comparePairs(k.pairs[i], other.pairs[i]); c != 0 {
				return c
			}
		}
		return compareInt64(int64(len(k.pairs)), int64(len(other.pairs)))
	}
	return 0
}

// Equal reports whether k and other are structurally equal: same
// shape and, recursively, same content. Equivalent to Compare == 0.
func (k Key) Equal(other Key) bool {
	return k.Compare(other) == 0
}

// comparePairs orders two map pairs by key, then by value.
func comparePairs(a, b Pair) int {
	if c := a.K.Compare(b.K); c != 0 {
		return c
	}
	return a.V.Compare(b.V)
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
