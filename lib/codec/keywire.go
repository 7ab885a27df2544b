// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/keyfold-foundation/keyfold/lib/canon"
)

// Key wire form. A key travels as a CBOR array [kind, payload]; Unit
// is the one-element array [0]. Payloads by kind:
//
//	bool    bool
//	int     int64
//	uint    uint64
//	float   order-encoded bit pattern (canon.FloatOrderBits), a uint64
//	string  text string
//	bytes   byte string
//	seq     array of key items
//	map     array of [key item, key item] entries, in sorted pair order
//
// Floats never travel as CBOR floats: deterministic float encoding
// canonicalizes NaNs, which would merge keys that differ only in NaN
// payload and lose the sign of zero under half-float shortening. The
// order-bits integer carries every distinction the key makes.

// EncodeKey encodes a key to its CBOR wire form. Equal keys always
// encode to identical bytes. Keys nested past canon.MaxDepth fail
// with canon.ErrDepthExceeded.
func EncodeKey(k canon.Key) ([]byte, error) {
	item, err := keyItem(k, 0)
	if err != nil {
		return nil, err
	}
	return Marshal(item)
}

// DecodeKey decodes a key from its CBOR wire form. Map entries are
// re-sorted on the way in, so input produced by a non-canonical
// encoder still yields the canonical key. The canon.MaxDepth nesting
// bound is enforced; trailing bytes after the key item are an error.
func DecodeKey(data []byte) (canon.Key, error) {
	var raw []RawMessage
	if err := Unmarshal(data, &raw); err != nil {
		// The decoder's own nesting cap sits above 3*MaxDepth+1, so
		// any input that trips it is past the key depth bound too.
		var nested *cbor.MaxNestedLevelError
		if errors.As(err, &nested) {
			return canon.Key{}, fmt.Errorf("decoding key: %w", canon.ErrDepthExceeded)
		}
		return canon.Key{}, fmt.Errorf("decoding key: %w", err)
	}
	return keyFromItem(raw, 0)
}

// keyItem builds the generic array form that Marshal turns into wire
// bytes.
func keyItem(k canon.Key, depth int) (any, error) {
	if depth > canon.MaxDepth {
		return nil, fmt.Errorf("encoding key: %w", canon.ErrDepthExceeded)
	}
	switch k.Kind() {
	case canon.KindUnit:
		return []any{uint8(canon.KindUnit)}, nil
	case canon.KindBool:
		b, _ := k.AsBool()
		return []any{uint8(canon.KindBool), b}, nil
	case canon.KindInt:
		v, _ := k.AsInt()
		return []any{uint8(canon.KindInt), v}, nil
	case canon.KindUint:
		v, _ := k.AsUint()
		return []any{uint8(canon.KindUint), v}, nil
	case canon.KindFloat:
		f, _ := k.AsFloat()
		return []any{uint8(canon.KindFloat), canon.FloatOrderBits(f)}, nil
	case canon.KindString:
		s, _ := k.AsString()
		return []any{uint8(canon.KindString), s}, nil
	case canon.KindBytes:
		b, _ := k.AsBytes()
		return []any{uint8(canon.KindBytes), b}, nil
	case canon.KindSeq:
		elems := make([]any, k.Len())
		for i := range elems {
			item, err := keyItem(k.At(i), depth+1)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = item
		}
		return []any{uint8(canon.KindSeq), elems}, nil
	case canon.KindMap:
		entries := make([]any, k.Len())
		for i := range entries {
			p := k.PairAt(i)
			ki, err := keyItem(p.K, depth+1)
			if err != nil {
				return nil, fmt.Errorf("map entry %d key: %w", i, err)
			}
			vi, err := keyItem(p.V, depth+1)
			if err != nil {
				return nil, fmt.Errorf("map entry %d value: %w", i, err)
			}
			entries[i] = []any{ki, vi}
		}
		return []any{uint8(canon.KindMap), entries}, nil
	}
	// The kind set is closed.
	panic("codec: invalid kind " + k.Kind().String())
}

// keyFromRaw unwraps one encoded key item and decodes it.
func keyFromRaw(data RawMessage, depth int) (canon.Key, error) {
	var raw []RawMessage
	if err := Unmarshal(data, &raw); err != nil {
		return canon.Key{}, fmt.Errorf("decoding key item: %w", err)
	}
	return keyFromItem(raw, depth)
}

func keyFromItem(raw []RawMessage, depth int) (canon.Key, error) {
	if depth > canon.MaxDepth {
		return canon.Key{}, fmt.Errorf("decoding key: %w", canon.ErrDepthExceeded)
	}
	if len(raw) == 0 {
		return canon.Key{}, errors.New("codec: key item is an empty array")
	}
	var kindByte uint8
	if err := Unmarshal(raw[0], &kindByte); err != nil {
		return canon.Key{}, fmt.Errorf("decoding key kind: %w", err)
	}
	kind := canon.Kind(kindByte)
	if kind > canon.KindMap {
		return canon.Key{}, fmt.Errorf("codec: invalid key kind %d", kindByte)
	}

	wantLen := 2
	if kind == canon.KindUnit {
		wantLen = 1
	}
	if len(raw) != wantLen {
		return canon.Key{}, fmt.Errorf("codec: %s key item has %d elements, want %d",
			kind, len(raw), wantLen)
	}

	switch kind {
	case canon.KindUnit:
		return canon.Unit(), nil
	case canon.KindBool:
		var b bool
		if err := Unmarshal(raw[1], &b); err != nil {
			return canon.Key{}, fmt.Errorf("decoding bool payload: %w", err)
		}
		return canon.Bool(b), nil
	case canon.KindInt:
		var v int64
		if err := Unmarshal(raw[1], &v); err != nil {
			return canon.Key{}, fmt.Errorf("decoding int payload: %w", err)
		}
		return canon.Int(v), nil
	case canon.KindUint:
		var v uint64
		if err := Unmarshal(raw[1], &v); err != nil {
			return canon.Key{}, fmt.Errorf("decoding uint payload: %w", err)
		}
		return canon.Uint(v), nil
	case canon.KindFloat:
		var bits uint64
		if err := Unmarshal(raw[1], &bits); err != nil {
			return canon.Key{}, fmt.Errorf("decoding float payload: %w", err)
		}
		return canon.Float(canon.FloatFromOrderBits(bits)), nil
	case canon.KindString:
		var s string
		if err := Unmarshal(raw[1], &s); err != nil {
			return canon.Key{}, fmt.Errorf("decoding string payload: %w", err)
		}
		return canon.String(s), nil
	case canon.KindBytes:
		var b []byte
		if err := Unmarshal(raw[1], &b); err != nil {
			return canon.Key{}, fmt.Errorf("decoding bytes payload: %w", err)
		}
		return canon.Bytes(b), nil
	case canon.KindSeq:
		var items []RawMessage
		if err := Unmarshal(raw[1], &items); err != nil {
			return canon.Key{}, fmt.Errorf("decoding seq payload: %w", err)
		}
		elems := make([]canon.Key, len(items))
		for i, item := range items {
			e, err := keyFromRaw(item, depth+1)
			if err != nil {
				return canon.Key{}, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = e
		}
		return canon.Seq(elems...), nil
	case canon.KindMap:
		var entries []RawMessage
		if err := Unmarshal(raw[1], &entries); err != nil {
			return canon.Key{}, fmt.Errorf("decoding map payload: %w", err)
		}
		pairs := make([]canon.Pair, len(entries))
		for i, entry := range entries {
			var kv []RawMessage
			if err := Unmarshal(entry, &kv); err != nil {
				return canon.Key{}, fmt.Errorf("map entry %d: %w", i, err)
			}
			if len(kv) != 2 {
				return canon.Key{}, fmt.Errorf("codec: map entry %d has %d elements, want 2", i, len(kv))
			}
			pk, err := keyFromRaw(kv[0], depth+1)
			if err != nil {
				return canon.Key{}, fmt.Errorf("map entry %d key: %w", i, err)
			}
			pv, err := keyFromRaw(kv[1], depth+1)
			if err != nil {
				return canon.Key{}, fmt.Errorf("map entry %d value: %w", i, err)
			}
			pairs[i] = canon.Pair{K: pk, V: pv}
		}
		// Map sorts on construction, which restores canonical order
		// for wire input that arrived unsorted.
		return canon.Map(pairs...), nil
	}
	panic("codec: invalid kind " + kind.String())
}
