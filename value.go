// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

import "strconv"

// Value is the closed set of values the cloner understands.
// Dispatch uses type switches over the concrete types.
// A nil Value is the absence-of-value marker and behaves like [Null].
type Value interface {
	value() // unexported marker method
}

// Kind classifies a [Value].
type Kind uint8

const (
	// Invalid is reported for dynamic types outside the closed set.
	Invalid Kind = iota
	NullKind
	BoolKind
	IntKind
	FloatKind
	StringKind
	PatternKind
	TimestampKind
	SequenceKind
	RecordKind
)

var kindNames = [...]string{
	Invalid:       "invalid",
	NullKind:      "null",
	BoolKind:      "bool",
	IntKind:       "int",
	FloatKind:     "float",
	StringKind:    "string",
	PatternKind:   "pattern",
	TimestampKind: "timestamp",
	SequenceKind:  "sequence",
	RecordKind:    "record",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Primitive reports whether values of kind k are copied by value.
func (k Kind) Primitive() bool {
	return k >= NullKind && k <= StringKind
}

// Composite reports whether values of kind k hold fields.
func (k Kind) Composite() bool {
	return k == SequenceKind || k == RecordKind
}

// Null is the absence-of-value marker.
type Null struct{}

func (Null) value() {}

// Bool is a boolean primitive.
type Bool bool

func (Bool) value() {}

// Int is a 64-bit signed integer primitive.
type Int int64

func (Int) value() {}

// Float is a 64-bit floating point primitive.
type Float float64

func (Float) value() {}

// String is an immutable text primitive.
type String string

func (String) value() {}

// KindOf returns the kind of v. A nil v is [NullKind].
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil, Null:
		return NullKind
	case Bool:
		return BoolKind
	case Int:
		return IntKind
	case Float:
		return FloatKind
	case String:
		return StringKind
	case *Pattern:
		return PatternKind
	case *Timestamp:
		return TimestampKind
	case *Sequence:
		return SequenceKind
	case *Record:
		return RecordKind
	default:
		return Invalid
	}
}

// IsNull reports whether v is the absence-of-value marker.
func IsNull(v Value) bool {
	switch v.(type) {
	case nil, Null:
		return true
	}
	return false
}
