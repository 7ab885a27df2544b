// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"encoding/binary"
)

// Canonical encoding tags, one per shape. The encoding is the
// pre-image for [Key.Hash] and for digests; it is a prefix-free
// framing, so distinct Keys always produce distinct bytes. These
// values are fixed constants — changing them invalidates every
// stored hash and digest.
const (
	tagUnit   byte = 0x01
	tagBool   byte = 0x02
	tagInt    byte = 0x03
	tagUint   byte = 0x04
	tagFloat  byte = 0x05
	tagString byte = 0x06
	tagBytes  byte = 0x07
	tagSeq    byte = 0x08
	tagMap    byte = 0x09
)

// AppendCanonical appends the canonical byte encoding of the key to
// dst and returns the extended slice. The encoding is injective: two
// Keys produce the same bytes if and only if they are equal. It is
// the input that [Key.Hash] and content digests are computed over.
//
// Layout per shape: one tag byte, then the payload. Scalars are 8
// bytes big-endian (Int as two's complement, Float as its
// order-encoded bit pattern). String and Bytes carry an 8-byte
// big-endian length before the raw bytes. Seq and Map carry an
// 8-byte big-endian count before their encoded elements (key, value
// alternating for Map, in sorted pair order).
//
// No decoder exists; this is a hash pre-image, not an interchange
// format. Use lib/codec to move Keys between processes.
func (k Key) AppendCanonical(dst []byte) []byte {
	switch k.kind {
	case KindUnit:
		return append(dst, tagUnit)
	case KindBool:
		return append(dst, tagBool, byte(k.num))
	case KindInt:
		dst = append(dst, tagInt)
		return binary.BigEndian.AppendUint64(dst, k.num)
	case KindUint:
		dst = append(dst, tagUint)
		return binary.BigEndian.AppendUint64(dst, k.num)
	case KindFloat:
		dst = append(dst, tagFloat)
		return binary.BigEndian.AppendUint64(dst, k.num)
	case KindString:
		dst = append(dst, tagString)
		dst = binary.BigEndian.AppendUint64(dst, uint64(len(k.str)))
		return append(dst, k.str...)
	case KindBytes:
		dst = append(dst, tagBytes)
		dst = binary.BigEndian.AppendUint64(dst, uint64(len(k.bytes)))
		return append(dst, k.bytes...)
	case KindSeq:
		dst = append(dst, tagSeq)
		dst = binary.BigEndian.AppendUint64(dst, uint64(len(k.seq)))
		for _, e := range k.seq {
			dst = e.AppendCanonical(dst)
		}
		return dst
	case KindMap:
		dst = append(dst, tagMap)
		dst = binary.BigEndian.AppendUint64(dst, uint64(len(k.pairs)))
		for _, p := range k.pairs {
			dst = p.K.AppendCanonical(dst)
			dst = p.V.AppendCanonical(dst)
		}
		return dst
	}
	// The kind set is closed; the zero Key is Unit and covered above.
	panic("canon: invalid kind " + k.kind.String())
}
