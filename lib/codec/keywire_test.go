// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/keyfold-foundation/keyfold/lib/canon"
	"github.com/keyfold-foundation/keyfold/lib/testutil"
)

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal(%v): %v", v, err)
	}
	return data
}

func TestKeyWireRoundTrip(t *testing.T) {
	for i, k := range testutil.SampleKeys() {
		data, err := EncodeKey(k)
		if err != nil {
			t.Errorf("corpus[%d] %s: EncodeKey: %v", i, k, err)
			continue
		}
		back, err := DecodeKey(data)
		if err != nil {
			t.Errorf("corpus[%d] %s: DecodeKey: %v", i, k, err)
			continue
		}
		if !back.Equal(k) {
			t.Errorf("corpus[%d]: wire round trip changed %s to %s", i, k, back)
		}
		if back.Hash() != k.Hash() {
			t.Errorf("corpus[%d]: wire round trip changed the hash of %s", i, k)
		}
	}
}

func TestEncodeKeyDeterministicAcrossConstruction(t *testing.T) {
	// Equal keys encode to identical bytes, whatever order their map
	// pairs were supplied in.
	a := canon.Map(
		canon.Pair{K: canon.String("x"), V: canon.Int(1)},
		canon.Pair{K: canon.String("y"), V: canon.Int(2)},
	)
	b := canon.Map(
		canon.Pair{K: canon.String("y"), V: canon.Int(2)},
		canon.Pair{K: canon.String("x"), V: canon.Int(1)},
	)

	dataA, err := EncodeKey(a)
	if err != nil {
		t.Fatalf("EncodeKey(a): %v", err)
	}
	dataB, err := EncodeKey(b)
	if err != nil {
		t.Fatalf("EncodeKey(b): %v", err)
	}
	if !bytes.Equal(dataA, dataB) {
		t.Errorf("equal keys encoded differently: %x != %x", dataA, dataB)
	}
}

func TestEncodeKeyDistinctKeysDistinctBytes(t *testing.T) {
	keys := testutil.SampleKeys()
	seen := make(map[string]int, len(keys))
	for i, k := range keys {
		data, err := EncodeKey(k)
		if err != nil {
			t.Fatalf("EncodeKey(%s): %v", k, err)
		}
		if j, dup := seen[string(data)]; dup {
			t.Errorf("keys %s and %s share a wire encoding", keys[j], k)
		}
		seen[string(data)] = i
	}
}

func TestFloatTravelsAsOrderBits(t *testing.T) {
	// The wire payload of a float key is the order-encoded integer,
	// not a CBOR float. CBOR float canonicalization never gets a
	// chance to touch NaN payloads.
	data, err := EncodeKey(canon.Float(1.5))
	if err != nil {
		t.Fatalf("EncodeKey: %v", err)
	}

	var raw []RawMessage
	if err := Unmarshal(data, &raw); err != nil {
		t.Fatalf("decoding wire array: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("wire array has %d elements, want 2", len(raw))
	}
	var bits uint64
	if err := Unmarshal(raw[1], &bits); err != nil {
		t.Fatalf("float payload is not an unsigned integer: %v", err)
	}
	if want := canon.FloatOrderBits(1.5); bits != want {
		t.Errorf("float payload = %#x, want %#x", bits, want)
	}
}

func TestKeyWireNaNPayloads(t *testing.T) {
	// Both NaN signs and arbitrary payload bits survive the wire.
	floats := []float64{
		math.NaN(),
		math.Float64frombits(0xFFF8000000000001),
		math.Float64frombits(0x7FF0000000000042),
		math.Copysign(0, -1),
	}
	for _, f := range floats {
		data, err := EncodeKey(canon.Float(f))
		if err != nil {
			t.Fatalf("EncodeKey(%#x): %v", math.Float64bits(f), err)
		}
		back, err := DecodeKey(data)
		if err != nil {
			t.Fatalf("DecodeKey(%#x): %v", math.Float64bits(f), err)
		}
		got, ok := back.AsFloat()
		if !ok {
			t.Fatalf("decoded key is %s, want a float", back.Kind())
		}
		if math.Float64bits(got) != math.Float64bits(f) {
			t.Errorf("float bits %#x became %#x on the wire",
				math.Float64bits(f), math.Float64bits(got))
		}
	}
}

func TestDecodeKeyToleratesUnsortedMapEntries(t *testing.T) {
	// A non-canonical producer may emit map entries in any order; the
	// decoded key is canonical regardless.
	wire := mustMarshal(t, []any{uint8(canon.KindMap), []any{
		[]any{
			[]any{uint8(canon.KindString), "b"},
			[]any{uint8(canon.KindInt), int64(2)},
		},
		[]any{
			[]any{uint8(canon.KindString), "a"},
			[]any{uint8(canon.KindInt), int64(1)},
		},
	}})

	got, err := DecodeKey(wire)
	if err != nil {
		t.Fatalf("DecodeKey: %v", err)
	}
	want := canon.Map(
		canon.Pair{K: canon.String("a"), V: canon.Int(1)},
		canon.Pair{K: canon.String("b"), V: canon.Int(2)},
	)
	if !got.Equal(want) {
		t.Errorf("decoded %s, want %s", got, want)
	}
	if name, _ := got.PairAt(0).K.AsString(); name != "a" {
		t.Errorf("first decoded pair key is %q; entries were not re-sorted", name)
	}
}

func TestDecodeKeyRejectsMalformedItems(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"invalid cbor", []byte{0xFF, 0xFE}},
		{"not an array", mustMarshal(t, "x")},
		{"empty array", mustMarshal(t, []any{})},
		{"kind not a number", mustMarshal(t, []any{"unit"})},
		{"negative kind", mustMarshal(t, []any{int64(-1)})},
		{"unknown kind", mustMarshal(t, []any{uint8(99), true})},
		{"unit with payload", mustMarshal(t, []any{uint8(canon.KindUnit), true})},
		{"bool without payload", mustMarshal(t, []any{uint8(canon.KindBool)})},
		{"int with string payload", mustMarshal(t, []any{uint8(canon.KindInt), "five"})},
		{"uint with negative payload", mustMarshal(t, []any{uint8(canon.KindUint), int64(-1)})},
		{"seq payload not an array", mustMarshal(t, []any{uint8(canon.KindSeq), int64(4)})},
		{"map entry not a pair", mustMarshal(t, []any{uint8(canon.KindMap), []any{
			[]any{[]any{uint8(canon.KindUnit)}},
		}})},
		{"trailing bytes", append(mustMarshal(t, []any{uint8(canon.KindUnit)}), 0x00)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := DecodeKey(test.data); err == nil {
				t.Error("DecodeKey accepted malformed input")
			}
		})
	}
}

func TestKeyWireDepthBound(t *testing.T) {
	inBound := testutil.NestedKey(canon.MaxDepth)
	data, err := EncodeKey(inBound)
	if err != nil {
		t.Fatalf("EncodeKey at the depth bound: %v", err)
	}
	if _, err := DecodeKey(data); err != nil {
		t.Fatalf("DecodeKey at the depth bound: %v", err)
	}

	// Map nesting is the wire's deepest raw form: each key level adds
	// the [kind, entries] array plus a [k, v] entry array. A map chain
	// at the bound must still clear the decoder's nesting cap.
	mapChain := canon.Int(0)
	for i := 0; i < canon.MaxDepth; i++ {
		mapChain = canon.Map(canon.Pair{K: canon.String("k"), V: mapChain})
	}
	data, err = EncodeKey(mapChain)
	if err != nil {
		t.Fatalf("EncodeKey of a map chain at the depth bound: %v", err)
	}
	back, err := DecodeKey(data)
	if err != nil {
		t.Fatalf("DecodeKey of a map chain at the depth bound: %v", err)
	}
	if !back.Equal(mapChain) {
		t.Error("map chain at the depth bound changed across the wire")
	}

	if _, err := EncodeKey(testutil.NestedKey(canon.MaxDepth + 1)); !errors.Is(err, canon.ErrDepthExceeded) {
		t.Errorf("EncodeKey past the bound: error = %v, want ErrDepthExceeded", err)
	}

	// Hand-built wire nesting past the bound must be rejected too;
	// the decode side cannot rely on encoders behaving.
	item := []any{uint8(canon.KindInt), int64(1)}
	for i := 0; i < canon.MaxDepth+1; i++ {
		item = []any{uint8(canon.KindSeq), []any{item}}
	}
	if _, err := DecodeKey(mustMarshal(t, item)); !errors.Is(err, canon.ErrDepthExceeded) {
		t.Errorf("DecodeKey past the bound: error = %v, want ErrDepthExceeded", err)
	}

	// Raw array nesting past the decoder's own cap reports the same
	// sentinel as key-level depth excess.
	junk := append(bytes.Repeat([]byte{0x81}, 6*canon.MaxDepth), 0x00)
	if _, err := DecodeKey(junk); !errors.Is(err, canon.ErrDepthExceeded) {
		t.Errorf("DecodeKey of over-nested raw input: error = %v, want ErrDepthExceeded", err)
	}
}

func BenchmarkEncodeKey(b *testing.B) {
	k := canon.Map(
		canon.Pair{K: canon.String("name"), V: canon.String("benchmark")},
		canon.Pair{K: canon.String("values"), V: canon.Seq(canon.Int(1), canon.Int(2), canon.Int(3))},
	)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		EncodeKey(k)
	}
}

func BenchmarkDecodeKey(b *testing.B) {
	k := canon.Map(
		canon.Pair{K: canon.String("name"), V: canon.String("benchmark")},
		canon.Pair{K: canon.String("values"), V: canon.Seq(canon.Int(1), canon.Int(2), canon.Int(3))},
	)
	data, err := EncodeKey(k)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		DecodeKey(data)
	}
}
