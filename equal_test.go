// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone_test

import (
	"testing"
	"time"

	"code.hybscloud.com/clone"
)

func record(kv ...any) *clone.Record {
	r := clone.NewRecord()
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i].(string), kv[i+1].(clone.Value))
	}
	return r
}

func TestEqualPrimitives(t *testing.T) {
	cases := []struct {
		a, b clone.Value
		want bool
	}{
		{nil, clone.Null{}, true},
		{clone.Int(1), clone.Int(1), true},
		{clone.Int(1), clone.Float(1), false},
		{clone.String("a"), clone.String("b"), false},
		{clone.Bool(true), clone.Bool(true), true},
		{clone.MustPattern("a", "i"), clone.MustPattern("a", "i"), true},
		{clone.MustPattern("a", "i"), clone.MustPattern("a", ""), false},
		{clone.NewTimestamp(time.Unix(5, 0)), clone.NewTimestamp(time.Unix(5, 0).UTC()), true},
		{clone.NewTimestamp(time.Unix(5, 0)), clone.NewTimestamp(time.Unix(6, 0)), false},
		{foreign{clone.NewRecord()}, foreign{clone.NewRecord()}, false},
	}
	for _, tc := range cases {
		if got := clone.Equal(tc.a, tc.b); got != tc.want {
			t.Fatalf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestEqualRecordsIgnoreKeyOrder(t *testing.T) {
	a := record("x", clone.Int(1), "y", clone.Int(2))
	b := record("y", clone.Int(2), "x", clone.Int(1))
	if !clone.Equal(a, b) {
		t.Fatal("key order must not matter")
	}
	b.Set("z", clone.Null{})
	if clone.Equal(a, b) {
		t.Fatal("extra field must matter")
	}
}

func TestEqualPrototypes(t *testing.T) {
	p1 := record("k", clone.Int(1))
	p2 := record("k", clone.Int(1))
	if !clone.Equal(clone.Extend(p1), clone.Extend(p2)) {
		t.Fatal("structurally equal prototypes must compare equal")
	}
	if clone.Equal(clone.Extend(p1), clone.NewRecord()) {
		t.Fatal("prototype presence must matter")
	}
	if clone.Equal(clone.Extend(p1), clone.Extend(record("k", clone.Int(2)))) {
		t.Fatal("prototype contents must matter")
	}
}

func TestEqualIndependentCycles(t *testing.T) {
	a := record("v", clone.Int(1))
	a.Set("self", a)
	b := record("v", clone.Int(1))
	b.Set("self", b)
	if !clone.Equal(a, b) {
		t.Fatal("isomorphic cycles must be equal")
	}
	if !clone.SameShape(a, b) {
		t.Fatal("isomorphic cycles must have the same shape")
	}
}

func TestSameShapeDetectsAliasing(t *testing.T) {
	n := record("v", clone.Int(1))
	shared := record("a", n, "b", n)
	split := record("a", record("v", clone.Int(1)), "b", record("v", clone.Int(1)))

	if !clone.Equal(shared, split) {
		t.Fatal("Equal must ignore aliasing")
	}
	if clone.SameShape(shared, split) || clone.SameShape(split, shared) {
		t.Fatal("SameShape must detect aliasing differences")
	}
}

func TestSameShapeSequences(t *testing.T) {
	inner := clone.NewSequence(clone.Int(1))
	a := clone.NewSequence(inner, inner)
	b := clone.NewSequence(clone.NewSequence(clone.Int(1)), clone.NewSequence(clone.Int(1)))
	if clone.SameShape(a, b) {
		t.Fatal("shared sequence element not detected")
	}
	if clone.Equal(a, clone.NewSequence(inner)) {
		t.Fatal("length must matter")
	}
}

func TestDisjoint(t *testing.T) {
	n := clone.NewRecord()
	a := record("n", n)
	b := record("m", clone.NewSequence(n))
	if clone.Disjoint(a, b) {
		t.Fatal("shared record not detected")
	}
	p := clone.MustPattern("x", "")
	if clone.Disjoint(record("p", p), clone.NewSequence(p)) {
		t.Fatal("shared pattern not detected")
	}
	if !clone.Disjoint(record("n", clone.NewRecord()), record("n", clone.NewRecord())) {
		t.Fatal("distinct graphs reported as sharing")
	}
	proto := clone.NewRecord()
	if !clone.Disjoint(clone.Extend(proto), clone.Extend(proto)) {
		t.Fatal("prototypes must not count as shared")
	}
	if !clone.Disjoint(clone.Int(1), clone.Int(1)) {
		t.Fatal("primitives have no identity")
	}
}
