// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
)

// Marshaler is the producer capability: a type that knows its own
// canonical form implements MarshalKey and is folded via that method
// instead of the reflective walk. Variant-shaped data (sum types)
// uses this to pick its conventional encoding — a bare String for a
// data-free variant, a single-pair Map for a payload-carrying one.
type Marshaler interface {
	MarshalKey() (Key, error)
}

var (
	marshalerType     = reflect.TypeOf((*Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// ToKey folds v into its canonical Key. The walk covers booleans,
// integers (signed to Int, unsigned to Uint), strings, byte slices
// (to Bytes), other slices and arrays (to Seq), maps and structs (to
// Map, pairs sorted by key), pointers and interfaces (nil to Unit,
// otherwise the element). Types implementing [Marshaler] fold via
// MarshalKey; types implementing encoding.TextMarshaler fold to their
// text form as a String key.
//
// Floating-point input fails with [ErrUnsupportedFloat]; use
// [ToKeyWithFloats] to admit floats. Channels, functions, complex
// numbers, and unsafe pointers fail with [ErrUnsupportedType].
// Nesting past [MaxDepth] fails with [ErrDepthExceeded], which also
// stops cyclic values. On error no Key is returned; a conversion
// never yields a partial result.
func ToKey(v any) (Key, error) {
	return foldValue(reflect.ValueOf(v), false, 0)
}

// ToKeyWithFloats folds v like [ToKey], but admits floating-point
// values, carrying them as order-encoded IEEE-754 bit patterns.
// Every bit distinction is preserved: -0.0 and +0.0 fold to distinct
// Keys, NaN payloads survive exactly.
func ToKeyWithFloats(v any) (Key, error) {
	return foldValue(reflect.ValueOf(v), true, 0)
}

func foldValue(rv reflect.Value, withFloats bool, depth int) (Key, error) {
	if depth > MaxDepth {
		return Key{}, ErrDepthExceeded
	}
	if !rv.IsValid() {
		return Unit(), nil
	}

	t := rv.Type()
	// Values reached through an unexported embedded field cannot be
	// interfaced; their capability methods are unreachable and they
	// fold structurally below.
	if rv.CanInterface() {
		if t.Implements(marshalerType) {
			if rv.Kind() == reflect.Pointer && rv.IsNil() {
				return Unit(), nil
			}
			k, err := rv.Interface().(Marshaler).MarshalKey()
			if err != nil {
				return Key{}, fmt.Errorf("%s.MarshalKey: %w", t, err)
			}
			return k, nil
		}
		if rv.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
			k, err := rv.Addr().Interface().(Marshaler).MarshalKey()
			if err != nil {
				return Key{}, fmt.Errorf("%s.MarshalKey: %w", t, err)
			}
			return k, nil
		}
		if t.Implements(textMarshalerType) {
			if rv.Kind() == reflect.Pointer && rv.IsNil() {
				return Unit(), nil
			}
			text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return Key{}, fmt.Errorf("%s.MarshalText: %w", t, err)
			}
			return String(string(text)), nil
		}
		if rv.CanAddr() && reflect.PointerTo(t).Implements(textMarshalerType) {
			text, err := rv.Addr().Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return Key{}, fmt.Errorf("%s.MarshalText: %w", t, err)
			}
			return String(string(text)), nil
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		if !withFloats {
			return Key{}, fmt.Errorf("%s: %w", t, ErrUnsupportedFloat)
		}
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return Unit(), nil
		}
		if isByteSlice(t) {
			return Bytes(rv.Bytes()), nil
		}
		return foldSeq(rv, withFloats, depth)
	case reflect.Array:
		return foldSeq(rv, withFloats, depth)
	case reflect.Map:
		if rv.IsNil() {
			return Unit(), nil
		}
		return foldMap(rv, withFloats, depth)
	case reflect.Struct:
		return foldStruct(rv, withFloats, depth)
	case reflect.Pointer:
		if rv.IsNil() {
			return Unit(), nil
		}
		return foldValue(rv.Elem(), withFloats, depth+1)
	case reflect.Interface:
		if rv.IsNil() {
			return Unit(), nil
		}
		return foldValue(rv.Elem(), withFloats, depth)
	}
	return Key{}, fmt.Errorf("%s: %w", t, ErrUnsupportedType)
}

// isByteSlice reports whether t folds to the Bytes shape: a slice
// with byte-kind elements whose element type does not fold itself
// via [Marshaler].
func isByteSlice(t reflect.Type) bool {
	if t.Elem().Kind() != reflect.Uint8 {
		return false
	}
	return !t.Elem().Implements(marshalerType) &&
		!reflect.PointerTo(t.Elem()).Implements(marshalerType)
}

func foldSeq(rv reflect.Value, withFloats bool, depth int) (Key, error) {
	elems := make([]Key, rv.Len())
	for i := range elems {
		e, err := foldValue(rv.Index(i), withFloats, depth+1)
		if err != nil {
			return Key{}, fmt.Errorf("index %d: %w", i, err)
		}
		elems[i] = e
	}
	return Key{kind: KindSeq, seq: elems}, nil
}

func foldMap(rv reflect.Value, withFloats bool, depth int) (Key, error) {
	pairs := make([]Pair, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := foldValue(iter.Key(), withFloats, depth+1)
		if err != nil {
			return Key{}, fmt.Errorf("map key: %w", err)
		}
		v, err := foldValue(iter.Value(), withFloats, depth+1)
		if err != nil {
			return Key{}, fmt.Errorf("map value for %s: %w", k, err)
		}
		pairs = append(pairs, Pair{K: k, V: v})
	}
	sortPairs(pairs)
	return Key{kind: KindMap, pairs: pairs}, nil
}

func foldStruct(rv reflect.Value, withFloats bool, depth int) (Key, error) {
	fields := visibleFields(rv.Type())
	pairs := make([]Pair, 0, len(fields))
	for _, f := range fields {
		v, err := foldValue(rv.Field(f.index), withFloats, depth+1)
		if err != nil {
			return Key{}, fmt.Errorf("field %q: %w", f.name, err)
		}
		pairs = append(pairs, Pair{K: String(f.name), V: v})
	}
	sortPairs(pairs)
	return Key{kind: KindMap, pairs: pairs}, nil
}

// structField is one exported field of a struct type with the name
// it folds under.
type structField struct {
	name  string
	index int
}

// visibleFields returns the fields of t that participate in folding,
// with the `canon` tag honored (`canon:"name"` renames, `canon:"-"`
// skips). Anonymous fields are regular fields named by their type —
// there is no field promotion, which keeps the struct-to-Map mapping
// bijective and the round-trip exact. That includes embedded fields
// of unexported struct (or pointer-to-struct) type, whose exported
// fields are reachable through the embedding; unexported embedded
// fields of any other kind could be read but never written back, so
// they are skipped like plain unexported fields.
func visibleFields(t reflect.Type) []structField {
	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			elem := f.Type
			if elem.Kind() == reflect.Pointer {
				elem = elem.Elem()
			}
			if !f.Anonymous || elem.Kind() != reflect.Struct {
				continue
			}
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("canon"); ok {
			if tag == "-" {
				continue
			}
			if renamed, _, _ := strings.Cut(tag, ","); renamed != "" {
				name = renamed
			}
		}
		fields = append(fields, structField{name: name, index: i})
	}
	return fields
}
