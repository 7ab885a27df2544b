// Copyright 2026 The Keyfold Authors
// SPDX-License-Identifier: Apache-2.0

package canon

import (
	"testing"
)

func TestZeroKeyIsUnit(t *testing.T) {
	var zero Key
	if zero.Kind() != KindUnit {
		t.Errorf("zero Key has kind %s, want unit", zero.Kind())
	}
	if !zero.IsUnit() {
		t.Error("zero Key does not report IsUnit")
	}
	if !zero.Equal(Unit()) {
		t.Error("zero Key is not equal to Unit()")
	}
}

func TestConstructorKinds(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		kind Kind
	}{
		{"unit", Unit(), KindUnit},
		{"bool", Bool(true), KindBool},
		{"int", Int(-3), KindInt},
		{"uint", Uint(3), KindUint},
		{"float", Float(1.5), KindFloat},
		{"string", String("x"), KindString},
		{"bytes", Bytes([]byte{1}), KindBytes},
		{"seq", Seq(Int(1)), KindSeq},
		{"map", Map(Pair{K: String("a"), V: Int(1)}), KindMap},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.key.Kind(); got != test.kind {
				t.Errorf("Kind() = %s, want %s", got, test.kind)
			}
		})
	}
}

func TestScalarAccessors(t *testing.T) {
	if v, ok := Bool(true).AsBool(); !ok || !v {
		t.Errorf("Bool(true).AsBool() = %v, %v", v, ok)
	}
	if v, ok := Int(-42).AsInt(); !ok || v != -42 {
		t.Errorf("Int(-42).AsInt() = %d, %v", v, ok)
	}
	if v, ok := Uint(42).AsUint(); !ok || v != 42 {
		t.Errorf("Uint(42).AsUint() = %d, %v", v, ok)
	}
	if v, ok := Float(1.5).AsFloat(); !ok || v != 1.5 {
		t.Errorf("Float(1.5).AsFloat() = %v, %v", v, ok)
	}
	if v, ok := String("hello").AsString(); !ok || v != "hello" {
		t.Errorf("String accessor returned %q, %v", v, ok)
	}
	if v, ok := Bytes([]byte{1, 2}).AsBytes(); !ok || len(v) != 2 {
		t.Errorf("Bytes accessor returned %v, %v", v, ok)
	}

	// Accessors on the wrong shape report absence, not a zero value
	// masquerading as data.
	if _, ok := Int(1).AsBool(); ok {
		t.Error("AsBool on an int key reported ok")
	}
	if _, ok := String("1").AsInt(); ok {
		t.Error("AsInt on a string key reported ok")
	}
	if _, ok := Uint(1).AsInt(); ok {
		t.Error("AsInt on a uint key reported ok — shapes must stay apart")
	}
}

func TestBytesConstructorCopiesInput(t *testing.T) {
	data := []byte{1, 2, 3}
	key := Bytes(data)
	data[0] = 99

	got, _ := key.AsBytes()
	if got[0] != 1 {
		t.Error("mutating the input slice after construction changed the key")
	}
}

func TestAsBytesReturnsCopy(t *testing.T) {
	key := Bytes([]byte{1, 2, 3})
	view, _ := key.AsBytes()
	view[0] = 99

	again, _ := key.AsBytes()
	if again[0] != 1 {
		t.Error("mutating the AsBytes result changed the key")
	}
}

func TestMapSortsPairsOnConstruction(t *testing.T) {
	forward := Map(
		Pair{K: String("a"), V: Int(1)},
		Pair{K: String("b"), V: Int(2)},
		Pair{K: String("c"), V: Int(3)},
	)
	backward := Map(
		Pair{K: String("c"), V: Int(3)},
		Pair{K: String("a"), V: Int(1)},
		Pair{K: String("b"), V: Int(2)},
	)

	if !forward.Equal(backward) {
		t.Error("maps built in different pair orders are not equal")
	}
	for i, want := range []string{"a", "b", "c"} {
		got, _ := forward.PairAt(i).K.AsString()
		if got != want {
			t.Errorf("pair %d has key %q, want %q", i, got, want)
		}
		got, _ = backward.PairAt(i).K.AsString()
		if got != want {
			t.Errorf("reversed-input pair %d has key %q, want %q", i, got, want)
		}
	}
}

func TestMapDuplicateKeysDeterministic(t *testing.T) {
	// Duplicate keys are allowed; the pair sort (key first, value
	// second) makes the stored order deterministic regardless of the
	// order the pairs arrived in.
	a := Map(
		Pair{K: String("k"), V: Int(2)},
		Pair{K: String("k"), V: Int(1)},
	)
	b := Map(
		Pair{K: String("k"), V: Int(1)},
		Pair{K: String("k"), V: Int(2)},
	)
	if !a.Equal(b) {
		t.Error("duplicate-key maps built in different orders are not equal")
	}
	if v, _ := a.PairAt(0).V.AsInt(); v != 1 {
		t.Errorf("first duplicate pair has value %d, want 1 (sorted by value)", v)
	}
}

func TestMapGet(t *testing.T) {
	key := Map(
		Pair{K: String("title"), V: String("Leaves of Grass")},
		Pair{K: Int(7), V: Bool(true)},
		Pair{K: String("year"), V: Uint(1855)},
	)

	if v, ok := key.Get(String("title")); !ok {
		t.Error("Get did not find the title entry")
	} else if s, _ := v.AsString(); s != "Leaves of Grass" {
		t.Errorf("Get(title) = %s", v)
	}
	if v, ok := key.Get(Int(7)); !ok {
		t.Error("Get did not find the int-keyed entry")
	} else if b, _ := v.AsBool(); !b {
		t.Errorf("Get(7) = %s, want true", v)
	}
	if _, ok := key.Get(String("missing")); ok {
		t.Error("Get found an entry that was never inserted")
	}
	if _, ok := key.Get(Uint(7)); ok {
		t.Error("Get(Uint(7)) matched the Int(7) entry — shapes must stay apart")
	}
	if _, ok := Int(1).Get(String("a")); ok {
		t.Error("Get on a non-map key reported ok")
	}
}

func TestSeqPreservesOrder(t *testing.T) {
	key := Seq(Int(3), Int(1), Int(2))
	if key.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", key.Len())
	}
	for i, want := range []int64{3, 1, 2} {
		got, _ := key.At(i).AsInt()
		if got != want {
			t.Errorf("element %d is %d, want %d (positional order must be preserved)", i, got, want)
		}
	}

	if Seq(Int(1), Int(2)).Equal(Seq(Int(2), Int(1))) {
		t.Error("sequences with different element orders compare equal")
	}
}

func TestLen(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want int
	}{
		{"unit", Unit(), 0},
		{"string", String("abc"), 3},
		{"bytes", Bytes([]byte{1, 2}), 2},
		{"seq", Seq(Int(1), Int(2), Int(3)), 3},
		{"map", Map(Pair{K: Int(1), V: Int(2)}), 1},
		{"int", Int(99), 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.key.Len(); got != test.want {
				t.Errorf("Len() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestCloneIsIndependentAndEqual(t *testing.T) {
	original := Map(
		Pair{K: String("tags"), V: Seq(String("a"), String("b"))},
		Pair{K: String("blob"), V: Bytes([]byte{1, 2, 3})},
	)
	clone := original.Clone()

	if !clone.Equal(original) {
		t.Error("clone is not equal to the original")
	}
	if clone.Hash() != original.Hash() {
		t.Error("clone hashes differently from the original")
	}
	if clone.String() != original.String() {
		t.Error("clone renders differently from the original")
	}
}

func TestUnitClone(t *testing.T) {
	if !Unit().Clone().IsUnit() {
		t.Error("cloning Unit did not produce Unit")
	}
}
