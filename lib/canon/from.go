// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
)

// Unmarshaler is the consumer capability: a type that reconstructs
// itself from its canonical form implements UnmarshalKey and receives
// the key (as a deep clone) before any structural shape checking.
type Unmarshaler interface {
	UnmarshalKey(Key) error
}

var (
	unmarshalerType     = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// FromKey reconstructs a typed Go value from a key. out must be a
// non-nil pointer; the pointed-to value is overwritten with the
// reconstruction.
//
// Shapes map back strictly: Bool into bool, String into string (or
// an encoding.TextUnmarshaler), Bytes into byte slices, Seq into
// slices and arrays (exact length), Map into Go maps and structs
// (String keys matched against field names; unknown names ignored),
// Unit into nil-able targets. Int and Uint accept each other's shape
// with range checks and fill float targets; Float fills only float
// targets. Everything else fails with [ErrTypeMismatch] — a value is
// never silently coerced.
//
// Map-shaped keys arrive in sorted key order; the insertion order of
// the original map is not part of the canonical form and is not
// restored.
//
// Reconstructing into an `any` target materializes Unit as nil, Bool
// as bool, Int as int64, Uint as uint64, Float as float64, String as
// string, Bytes as []byte, Seq as []any, and Map as map[string]any
// when every key is a String, otherwise map[any]any (keys that are
// not comparable in Go — seq, map, bytes — fail).
//
// Types implementing [Unmarshaler] take over regardless of shape;
// reconstructing into a *Key is the exact identity. Nesting past
// [MaxDepth] fails with [ErrDepthExceeded]. The first error aborts
// the reconstruction.
func FromKey(k Key, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("canon: reconstruction target must be a non-nil pointer, got %T", out)
	}
	return unfoldValue(k, rv.Elem(), 0)
}

func unfoldValue(k Key, rv reflect.Value, depth int) error {
	if depth > MaxDepth {
		return ErrDepthExceeded
	}

	// Capability override first: a self-reconstructing type gets the
	// key whatever its shape, including Unit. A target reached through
	// an unexported embedded field cannot be interfaced; it is filled
	// structurally instead.
	if rv.CanAddr() && rv.CanInterface() {
		pv := rv.Addr()
		if pv.Type().Implements(unmarshalerType) {
			if err := pv.Interface().(Unmarshaler).UnmarshalKey(k.Clone()); err != nil {
				return fmt.Errorf("%s.UnmarshalKey: %w", rv.Type(), err)
			}
			return nil
		}
		if k.kind == KindString && pv.Type().Implements(textUnmarshalerType) {
			if err := pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(k.str)); err != nil {
				return fmt.Errorf("%s.UnmarshalText: %w", rv.Type(), err)
			}
			return nil
		}
	}

	// Unit is optional-absent: nil-able targets reset to nil, the
	// empty struct accepts it, anything else is a mismatch.
	if k.kind == KindUnit {
		switch rv.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			if !rv.CanSet() {
				// Only unexported embedded fields are unsettable here.
				// Already absent is fine; present cannot be cleared.
				if rv.IsNil() {
					return nil
				}
				return fmt.Errorf("canon: cannot clear %s reached through an unexported embedded field: %w",
					rv.Type(), ErrTypeMismatch)
			}
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		case reflect.Struct:
			if rv.Type().NumField() == 0 {
				return nil
			}
		}
		return mismatch(k, rv.Type())
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			if !rv.CanSet() {
				return fmt.Errorf("canon: cannot allocate %s reached through an unexported embedded field: %w",
					rv.Type(), ErrTypeMismatch)
			}
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return unfoldValue(k, rv.Elem(), depth+1)
	case reflect.Interface:
		if rv.Type().NumMethod() != 0 {
			return fmt.Errorf("canon: cannot reconstruct into non-empty interface %s: %w", rv.Type(), ErrTypeMismatch)
		}
		v, err := materialize(k, depth)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(v))
		return nil
	}

	switch k.kind {
	case KindBool:
		if rv.Kind() != reflect.Bool {
			return mismatch(k, rv.Type())
		}
		rv.SetBool(k.num != 0)
		return nil
	case KindInt:
		return assignInt(int64(k.num), k, rv)
	case KindUint:
		return assignUint(k.num, k, rv)
	case KindFloat:
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			f := FloatFromOrderBits(k.num)
			if rv.OverflowFloat(f) {
				return fmt.Errorf("canon: %v overflows %s: %w", f, rv.Type(), ErrTypeMismatch)
			}
			rv.SetFloat(f)
			return nil
		}
		return mismatch(k, rv.Type())
	case KindString:
		if rv.Kind() != reflect.String {
			return mismatch(k, rv.Type())
		}
		rv.SetString(k.str)
		return nil
	case KindBytes:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, len(k.bytes))
			copy(out, k.bytes)
			rv.SetBytes(out)
			return nil
		}
		return mismatch(k, rv.Type())
	case KindSeq:
		return unfoldSeq(k, rv, depth)
	case KindMap:
		return unfoldMap(k, rv, depth)
	}
	return mismatch(k, rv.Type())
}

// assignInt stores an Int-shaped payload into any numeric target,
// range-checked. Widening into floats follows the usual numeric
// promotion; precision loss past 2^53 is accepted, range violations
// are not.
func assignInt(v int64, k Key, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.OverflowInt(v) {
			return overflow(v, rv.Type())
		}
		rv.SetInt(v)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v < 0 || rv.OverflowUint(uint64(v)) {
			return overflow(v, rv.Type())
		}
		rv.SetUint(uint64(v))
		return nil
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(float64(v))
		return nil
	}
	return mismatch(k, rv.Type())
}

// assignUint is the unsigned counterpart of assignInt.
func assignUint(v uint64, k Key, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.OverflowUint(v) {
			return overflow(v, rv.Type())
		}
		rv.SetUint(v)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v > math.MaxInt64 || rv.OverflowInt(int64(v)) {
			return overflow(v, rv.Type())
		}
		rv.SetInt(int64(v))
		return nil
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(float64(v))
		return nil
	}
	return mismatch(k, rv.Type())
}

func unfoldSeq(k Key, rv reflect.Value, depth int) error {
	switch rv.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(rv.Type(), len(k.seq), len(k.seq))
		for i, e := range k.seq {
			if err := unfoldValue(e, out.Index(i), depth+1); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		if rv.Len() != len(k.seq) {
			return fmt.Errorf("canon: seq of %d elements does not fit %s: %w",
				len(k.seq), rv.Type(), ErrTypeMismatch)
		}
		for i, e := range k.seq {
			if err := unfoldValue(e, rv.Index(i), depth+1); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		return nil
	}
	return mismatch(k, rv.Type())
}

func unfoldMap(k Key, rv reflect.Value, depth int) error {
	switch rv.Kind() {
	case reflect.Map:
		t := rv.Type()
		out := reflect.MakeMapWithSize(t, len(k.pairs))
		for _, p := range k.pairs {
			mk := reflect.New(t.Key()).Elem()
			if err := unfoldValue(p.K, mk, depth+1); err != nil {
				return fmt.Errorf("map key %s: %w", p.K, err)
			}
			mv := reflect.New(t.Elem()).Elem()
			if err := unfoldValue(p.V, mv, depth+1); err != nil {
				return fmt.Errorf("map value for %s: %w", p.K, err)
			}
			out.SetMapIndex(mk, mv)
		}
		rv.Set(out)
		return nil
	case reflect.Struct:
		return unfoldStruct(k, rv, depth)
	}
	return mismatch(k, rv.Type())
}

func unfoldStruct(k Key, rv reflect.Value, depth int) error {
	fields := visibleFields(rv.Type())
	byName := make(map[string]int, len(fields))
	for _, f := range fields {
		byName[f.name] = f.index
	}
	for _, p := range k.pairs {
		name, ok := p.K.AsString()
		if !ok {
			return fmt.Errorf("canon: %s key cannot name a field of %s: %w",
				p.K.kind, rv.Type(), ErrTypeMismatch)
		}
		idx, ok := byName[name]
		if !ok {
			// Unknown entry: ignored, like an unknown field in any
			// forward-compatible decoder.
			continue
		}
		if err := unfoldValue(p.V, rv.Field(idx), depth+1); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}
	return nil
}

// materialize builds the generic Go form of a key for `any` targets.
func materialize(k Key, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, ErrDepthExceeded
	}
	switch k.kind {
	case KindUnit:
		return nil, nil
	case KindBool:
		return k.num != 0, nil
	case KindInt:
		return int64(k.num), nil
	case KindUint:
		return k.num, nil
	case KindFloat:
		return FloatFromOrderBits(k.num), nil
	case KindString:
		return k.str, nil
	case KindBytes:
		out := make([]byte, len(k.bytes))
		copy(out, k.bytes)
		return out, nil
	case KindSeq:
		out := make([]any, len(k.seq))
		for i, e := range k.seq {
			v, err := materialize(e, depth+1)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	case KindMap:
		allStrings := true
		for _, p := range k.pairs {
			if p.K.kind != KindString {
				allStrings = false
				break
			}
		}
		if allStrings {
			out := make(map[string]any, len(k.pairs))
			for _, p := range k.pairs {
				v, err := materialize(p.V, depth+1)
				if err != nil {
					return nil, fmt.Errorf("map value for %s: %w", p.K, err)
				}
				out[p.K.str] = v
			}
			return out, nil
		}
		out := make(map[any]any, len(k.pairs))
		for _, p := range k.pairs {
			switch p.K.kind {
			case KindBytes, KindSeq, KindMap:
				return nil, fmt.Errorf("canon: %s key is not comparable as a Go map key: %w",
					p.K.kind, ErrTypeMismatch)
			}
			mk, err := materialize(p.K, depth+1)
			if err != nil {
				return nil, fmt.Errorf("map key %s: %w", p.K, err)
			}
			mv, err := materialize(p.V, depth+1)
			if err != nil {
				return nil, fmt.Errorf("map value for %s: %w", p.K, err)
			}
			out[mk] = mv
		}
		return out, nil
	}
	// The kind set is closed; Unit is the zero value and covered above.
	panic("canon: invalid kind " + k.kind.String())
}

func mismatch(k Key, t reflect.Type) error {
	return fmt.Errorf("canon: cannot reconstruct %s key into %s: %w", k.kind, t, ErrTypeMismatch)
}

func overflow(v any, t reflect.Type) error {
	return fmt.Errorf("canon: %v overflows %s: %w", v, t, ErrTypeMismatch)
}
