// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// String renders the key in a compact diagnostic notation modeled on
// CBOR diagnostic notation (RFC 8949 §8): null, true/false, decimal
// integers (Uint with a "u" suffix to keep the shapes apart), quoted
// strings, h'..' byte strings, [..] sequences, and {k: v, ..} maps in
// sorted order. Floats always carry a decimal point or exponent;
// non-finite floats render as Infinity, -Infinity, NaN, and -NaN.
// The rendering is for logs and debugging, not for interchange.
func (k Key) String() string {
	var b strings.Builder
	k.writeDiag(&b)
	return b.String()
}

func (k Key) writeDiag(b *strings.Builder) {
	switch k.kind {
	case KindUnit:
		b.WriteString("null")
	case KindBool:
		if k.num != 0 {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindInt:
		b.WriteString(strconv.FormatInt(int64(k.num), 10))
	case KindUint:
		b.WriteString(strconv.FormatUint(k.num, 10))
		b.WriteByte('u')
	case KindFloat:
		writeFloatDiag(b, FloatFromOrderBits(k.num))
	case KindString:
		b.WriteString(strconv.Quote(k.str))
	case KindBytes:
		b.WriteString("h'")
		b.WriteString(hex.EncodeToString(k.bytes))
		b.WriteByte('\'')
	case KindSeq:
		b.WriteByte('[')
		for i, e := range k.seq {
			if i > 0 {
				b.WriteString(", ")
			}
			e.writeDiag(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, p := range k.pairs {
			if i > 0 {
				b.WriteString(", ")
			}
			p.K.writeDiag(b)
			b.WriteString(": ")
			p.V.writeDiag(b)
		}
		b.WriteByte('}')
	}
}

func writeFloatDiag(b *strings.Builder, f float64) {
	switch {
	case math.IsNaN(f):
		if math.Signbit(f) {
			b.WriteString("-NaN")
		} else {
			b.WriteString("NaN")
		}
	case math.IsInf(f, 1):
		b.WriteString("Infinity")
	case math.IsInf(f, -1):
		b.WriteString("-Infinity")
	default:
		s := strconv.FormatFloat(f, 'g', -1, 64)
		b.WriteString(s)
		// A bare integer rendering would be indistinguishable from an
		// Int key.
		if !strings.ContainsAny(s, ".eE") {
			b.WriteString(".0")
		}
	}
}
