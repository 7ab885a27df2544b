// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"sort"
)

// Kind identifies the shape of a [Key]. The numeric order of the
// constants is the shape rank used by [Key.Compare]: a Key of a lower
// kind orders before any Key of a higher kind, regardless of content.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindSeq
	KindMap
)

// String returns the lowercase shape name ("unit", "bool", ...). Used
// in error messages and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	}
	return "unknown"
}

// Key is the canonical representation of a structured value. The zero
// Key is the Unit key.
//
// Keys are immutable: every constructor copies the data it is given,
// and no method mutates the receiver. A Key may be freely shared
// between goroutines for comparison, hashing, and reconstruction.
//
// Key is not a Go-comparable type (it contains slices); use
// [Key.Equal] and [Key.Hash] for hash-style containers, [Key.Compare]
// for ordered containers, or a digest of the canonical bytes for
// map-index use.
type Key struct {
	kind Kind

	// num holds the scalar payload: 0/1 for Bool, the two's-complement
	// bit pattern for Int, the value for Uint, and the order-encoded
	// IEEE-754 bit pattern for Float.
	num uint64

	str   string
	bytes []byte
	seq   []Key
	pairs []Pair
}

// Pair is one entry of a Map-shaped [Key].
type Pair struct {
	K Key
	V Key
}

// Unit returns the Unit key, representing null or the absence of a
// value. Identical to the zero Key.
func Unit() Key {
	return Key{}
}

// Bool returns a Bool-shaped key.
func Bool(b bool) Key {
	var n uint64
	if b {
		n = 1
	}
	return Key{kind: KindBool, num: n}
}

// Int returns an Int-shaped key. All signed integer input widths fold
// to this single 64-bit shape.
func Int(v int64) Key {
	return Key{kind: KindInt, num: uint64(v)}
}

// Uint returns a Uint-shaped key. All unsigned integer input widths
// fold to this single 64-bit shape. Uint(5) and Int(5) are distinct
// keys: they differ in shape rank.
func Uint(v uint64) Key {
	return Key{kind: KindUint, num: v}
}

// Float returns a Float-shaped key carrying the order-encoded bit
// pattern of f. The encoding preserves every distinction the bits
// make: -0.0 and +0.0 are different keys, and NaN payloads survive
// exactly. See [Key.AsFloat] for the inverse.
func Float(f float64) Key {
	return Key{kind: KindFloat, num: FloatOrderBits(f)}
}

// String returns a String-shaped key.
func String(s string) Key {
	return Key{kind: KindString, str: s}
}

// Bytes returns a Bytes-shaped key. The input slice is copied; the
// key does not retain caller storage.
func Bytes(b []byte) Key {
	owned := make([]byte, len(b))
	copy(owned, b)
	return Key{kind: KindBytes, bytes: owned}
}

// Seq returns a Seq-shaped key over the given elements in positional
// order. The element order is semantically significant and preserved
// as-is.
func Seq(elems ...Key) Key {
	owned := make([]Key, len(elems))
	copy(owned, elems)
	return Key{kind: KindSeq, seq: owned}
}

// Map returns a Map-shaped key over the given pairs. The pairs are
// copied and sorted by key (ties broken by value), so the resulting
// key is independent of the order the pairs were supplied in. Two
// maps with the same entries are always the same Key.
func Map(pairs ...Pair) Key {
	owned := make([]Pair, len(pairs))
	copy(owned, pairs)
	sortPairs(owned)
	return Key{kind: KindMap, pairs: owned}
}

// sortPairs sorts by the full pair comparison, key first. Comparing
// the whole pair keeps entries with duplicate keys in a deterministic
// order even under an unstable sort.
func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		return comparePairs(pairs[i], pairs[j]) < 0
	})
}

// Kind returns the shape of the key.
func (k Key) Kind() Kind {
	return k.kind
}

// IsUnit reports whether the key is the Unit key.
func (k Key) IsUnit() bool {
	return k.kind == KindUnit
}

// AsBool returns the boolean payload. The second return is false when
// the key is not Bool-shaped.
func (k Key) AsBool() (bool, bool) {
	if k.kind != KindBool {
		return false, false
	}
	return k.num != 0, true
}

// AsInt returns the signed integer payload. The second return is
// false when the key is not Int-shaped.
func (k Key) AsInt() (int64, bool) {
	if k.kind != KindInt {
		return 0, false
	}
	return int64(k.num), true
}

// AsUint returns the unsigned integer payload. The second return is
// false when the key is not Uint-shaped.
func (k Key) AsUint() (uint64, bool) {
	if k.kind != KindUint {
		return 0, false
	}
	return k.num, true
}

// AsFloat decodes the order-encoded bit pattern back to the float64
// it was built from, bit-for-bit (including NaN payloads and the sign
// of zero). The second return is false when the key is not
// Float-shaped.
func (k Key) AsFloat() (float64, bool) {
	if k.kind != KindFloat {
		return 0, false
	}
	return FloatFromOrderBits(k.num), true
}

// AsString returns the text payload. The second return is false when
// the key is not String-shaped.
func (k Key) AsString() (string, bool) {
	if k.kind != KindString {
		return "", false
	}
	return k.str, true
}

// AsBytes returns a copy of the byte payload. The second return is
// false when the key is not Bytes-shaped.
func (k Key) AsBytes() ([]byte, bool) {
	if k.kind != KindBytes {
		return nil, false
	}
	out := make([]byte, len(k.bytes))
	copy(out, k.bytes)
	return out, true
}

// Len returns the element count for Seq, the pair count for Map, and
// the byte length for String and Bytes. Other shapes have length 0.
func (k Key) Len() int {
	switch k.kind {
	case KindString:
		return len(k.str)
	case KindBytes:
		return len(k.bytes)
	case KindSeq:
		return len(k.seq)
	case KindMap:
		return len(k.pairs)
	}
	return 0
}

// At returns the i-th element of a Seq-shaped key. Panics if the key
// is not Seq-shaped or i is out of range, matching slice indexing.
func (k Key) At(i int) Key {
	if k.kind != KindSeq {
		panic("canon: At on " + k.kind.String() + " key")
	}
	return k.seq[i]
}

// PairAt returns the i-th pair of a Map-shaped key, in sorted order.
// Panics if the key is not Map-shaped or i is out of range.
func (k Key) PairAt(i int) Pair {
	if k.kind != KindMap {
		panic("canon: PairAt on " + k.kind.String() + " key")
	}
	return k.pairs[i]
}

// Get looks up the value stored under the given key in a Map-shaped
// key, using binary search over the sorted pairs. When the map holds
// duplicate entries for the key, the first in sorted order is
// returned. The second return is false when the key is absent or the
// receiver is not Map-shaped.
func (k Key) Get(key Key) (Key, bool) {
	if k.kind != KindMap {
		return Key{}, false
	}
	i := sort.Search(len(k.pairs), func(i int) bool {
		return k.pairs[i].K.Compare(key) >= 0
	})
	if i < len(k.pairs) && k.pairs[i].K.Equal(key) {
		return k.pairs[i].V, true
	}
	return Key{}, false
}

// Clone returns a deep, independent copy of the key. The copy shares
// no storage with the original.
func (k Key) Clone() Key {
	out := Key{kind: k.kind, num: k.num, str: k.str}
	if k.bytes != nil {
		out.bytes = make([]byte, len(k.bytes))
		copy(out.bytes, k.bytes)
	}
	if k.seq != nil {
		out.seq = make([]Key, len(k.seq))
		for i, e := range k.seq {
			out.seq[i] = e.Clone()
		}
	}
	if k.pairs != nil {
		out.pairs = make([]Pair, len(k.pairs))
		for i, p := range k.pairs {
			out.pairs[i] = Pair{K: p.K.Clone(), V: p.V.Clone()}
		}
	}
	return out
}

// MarshalKey implements [Marshaler]: folding a Key yields a deep
// clone of itself. This makes [ToKey] of a Key (and of values
// containing Keys) the identity.
func (k Key) MarshalKey() (Key, error) {
	return k.Clone(), nil
}

// UnmarshalKey implements [Unmarshaler]: reconstructing into a *Key
// stores a deep clone. This makes [FromKey] into a Key the lossless
// identity round-trip.
func (k *Key) UnmarshalKey(from Key) error {
	*k = from.Clone()
	return nil
}
