// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/clone"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		v    clone.Value
		want clone.Kind
	}{
		{nil, clone.NullKind},
		{clone.Null{}, clone.NullKind},
		{clone.Bool(false), clone.BoolKind},
		{clone.Int(0), clone.IntKind},
		{clone.Float(0), clone.FloatKind},
		{clone.String(""), clone.StringKind},
		{clone.MustPattern("x", ""), clone.PatternKind},
		{clone.NewTimestamp(time.Now()), clone.TimestampKind},
		{clone.NewSequence(), clone.SequenceKind},
		{clone.NewRecord(), clone.RecordKind},
		{foreign{clone.NewRecord()}, clone.Invalid},
	}
	for _, tc := range cases {
		if got := clone.KindOf(tc.v); got != tc.want {
			t.Fatalf("KindOf(%#v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	if !clone.StringKind.Primitive() || clone.PatternKind.Primitive() {
		t.Fatal("Primitive misclassifies kinds")
	}
	if !clone.RecordKind.Composite() || clone.TimestampKind.Composite() {
		t.Fatal("Composite misclassifies kinds")
	}
	if got := clone.SequenceKind.String(); got != "sequence" {
		t.Fatalf("got %q, want %q", got, "sequence")
	}
	if got := clone.Kind(200).String(); got != "kind(200)" {
		t.Fatalf("got %q, want %q", got, "kind(200)")
	}
}

func TestRecordFields(t *testing.T) {
	r := clone.NewRecord()
	r.Set("a", clone.Int(1))
	r.Set("b", clone.Int(2))
	r.Set("a", clone.Int(3))

	if r.Len() != 2 {
		t.Fatalf("got len %d, want 2", r.Len())
	}
	if v, _ := r.Get("a"); v != clone.Int(3) {
		t.Fatalf("got %v, want 3", v)
	}
	if keys := r.Keys(); keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("overwrite moved key: %v", keys)
	}

	r.Delete("a")
	r.Delete("missing")
	if r.Has("a") || r.Len() != 1 {
		t.Fatal("Delete left the field in place")
	}
	if keys := r.Keys(); len(keys) != 1 || keys[0] != "b" {
		t.Fatalf("got keys %v, want [b]", keys)
	}
}

func TestRecordZeroValue(t *testing.T) {
	var r clone.Record
	r.Set("k", clone.Bool(true))
	if v, ok := r.Get("k"); !ok || v != clone.Bool(true) {
		t.Fatal("zero Record is not usable")
	}
}

func TestRecordPrototypeChain(t *testing.T) {
	base := clone.NewRecord()
	base.Set("kind", clone.String("base"))
	mid := clone.Extend(base)
	mid.Set("level", clone.Int(1))
	leaf := clone.Extend(mid)

	if _, ok := leaf.Get("kind"); ok {
		t.Fatal("Get must not see inherited fields")
	}
	if v, ok := leaf.Lookup("kind"); !ok || v != clone.String("base") {
		t.Fatalf("Lookup(kind) = %v, %v", v, ok)
	}
	if _, ok := leaf.Lookup("missing"); ok {
		t.Fatal("Lookup found a missing field")
	}
	if !leaf.Inherits(base) || !leaf.Inherits(mid) {
		t.Fatal("Inherits misses an ancestor")
	}
	if leaf.Inherits(leaf) || base.Inherits(leaf) || leaf.Inherits(nil) {
		t.Fatal("Inherits reports a non-ancestor")
	}

	mid.Set("kind", clone.String("mid"))
	if v, _ := leaf.Lookup("kind"); v != clone.String("mid") {
		t.Fatalf("nearest prototype must win, got %v", v)
	}
}

func TestSequenceOps(t *testing.T) {
	s := clone.NewSequence(clone.Int(1))
	s.Append(clone.Int(2), clone.Int(3))
	s.Set(0, clone.String("x"))
	if s.Len() != 3 || s.At(0) != clone.String("x") || s.At(2) != clone.Int(3) {
		t.Fatalf("unexpected sequence %v", s.Items())
	}
	items := s.Items()
	items[1] = clone.Null{}
	if s.At(1) != clone.Int(2) {
		t.Fatal("Items must return a copy")
	}
}

func TestSequenceIndexPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "clone: sequence index out of range" {
			t.Fatalf("unexpected panic message: %v", r)
		}
	}()
	clone.NewSequence().At(0)
}

func TestPatternFlags(t *testing.T) {
	p, err := clone.NewPattern("a.b", "sUis")
	if err != nil {
		t.Fatal(err)
	}
	if p.Flags() != "isU" {
		t.Fatalf("got flags %q, want %q", p.Flags(), "isU")
	}
	if p.Expr() != "(?isU)a.b" {
		t.Fatalf("got expr %q", p.Expr())
	}
	if p.String() != "/a.b/isU" {
		t.Fatalf("got %q", p.String())
	}
	if !p.MatchString("A\nB") {
		t.Fatal("flags not applied")
	}
}

func TestPatternInvalid(t *testing.T) {
	if _, err := clone.NewPattern("a", "g"); !errors.Is(err, clone.ErrInvalidPattern) {
		t.Fatalf("unknown flag: got %v", err)
	}
	if _, err := clone.NewPattern("(", ""); !errors.Is(err, clone.ErrInvalidPattern) {
		t.Fatalf("bad text: got %v", err)
	}
}

func TestParsePattern(t *testing.T) {
	cases := []struct {
		expr, text, flags string
	}{
		{"abc", "abc", ""},
		{"(?i)abc", "abc", "i"},
		{"(?ms)^x$", "^x$", "ms"},
		{"(?:ab)c", "(?:ab)c", ""},
		{"(?i:ab)c", "(?i:ab)c", ""},
	}
	for _, tc := range cases {
		p, err := clone.ParsePattern(tc.expr)
		if err != nil {
			t.Fatalf("ParsePattern(%q): %v", tc.expr, err)
		}
		if p.Text() != tc.text || p.Flags() != tc.flags {
			t.Fatalf("ParsePattern(%q) = %q %q, want %q %q", tc.expr, p.Text(), p.Flags(), tc.text, tc.flags)
		}
		back, err := clone.ParsePattern(p.Expr())
		if err != nil || !clone.Equal(p, back) {
			t.Fatalf("Expr round trip failed for %q", tc.expr)
		}
	}
}

func TestNewPatternFoldsLeadingFlags(t *testing.T) {
	cases := []struct {
		text, flags, wantText, wantFlags string
	}{
		{"(?i)abc", "", "abc", "i"},
		{"(?s)(?i)a.b", "U", "a.b", "isU"},
		{"(?i)abc", "i", "abc", "i"},
		{"(?-i)abc", "", "(?-i)abc", ""},
	}
	for _, tc := range cases {
		p := clone.MustPattern(tc.text, tc.flags)
		if p.Text() != tc.wantText || p.Flags() != tc.wantFlags {
			t.Fatalf("NewPattern(%q, %q) = %q %q, want %q %q",
				tc.text, tc.flags, p.Text(), p.Flags(), tc.wantText, tc.wantFlags)
		}
		back, err := clone.ParsePattern(p.Expr())
		if err != nil {
			t.Fatal(err)
		}
		if !clone.Equal(p, back) {
			t.Fatalf("ParsePattern(%q) = %v, want %v", p.Expr(), back, p)
		}
	}
}

func TestZeroPattern(t *testing.T) {
	p := clone.MustClone(new(clone.Pattern)).(*clone.Pattern)
	if !p.MatchString("x") {
		t.Fatal("zero pattern does not match like the empty pattern")
	}
	if p.Regexp().String() != "" {
		t.Fatalf("got regexp %q, want empty", p.Regexp().String())
	}
}

func TestTimestampEqualNil(t *testing.T) {
	var a, b *clone.Timestamp
	if !a.Equal(b) {
		t.Fatal("nil timestamps are not equal")
	}
	ts := clone.NewTimestamp(time.Unix(0, 0))
	if ts.Equal(nil) || a.Equal(ts) {
		t.Fatal("nil timestamp equal to a non-nil one")
	}
	if !new(clone.Timestamp).Equal(clone.NewTimestamp(time.Time{})) {
		t.Fatal("zero timestamp is not the zero instant")
	}
}

func TestTimestampDropsMonotonic(t *testing.T) {
	now := time.Now()
	ts := clone.NewTimestamp(now)
	if !ts.Time().Equal(now) {
		t.Fatal("instant changed")
	}
	if ts.Time() != now.Round(0) {
		t.Fatal("monotonic reading kept")
	}
}
