// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

import "slices"

// Sequence is an ordered, mutable collection of values.
// Its identity is its pointer.
type Sequence struct {
	items []Value
}

func (*Sequence) value() {}

// NewSequence returns a sequence holding items.
func NewSequence(items ...Value) *Sequence {
	return &Sequence{items: slices.Clone(items)}
}

// Len returns the number of elements.
func (s *Sequence) Len() int { return len(s.items) }

// At returns the element at index i. Panics if i is out of range.
func (s *Sequence) At(i int) Value {
	if i < 0 || i >= len(s.items) {
		panic("clone: sequence index out of range")
	}
	return s.items[i]
}

// Set replaces the element at index i. Panics if i is out of range.
func (s *Sequence) Set(i int, v Value) {
	if i < 0 || i >= len(s.items) {
		panic("clone: sequence index out of range")
	}
	s.items[i] = v
}

// Append adds values to the end of the sequence.
func (s *Sequence) Append(vs ...Value) {
	s.items = append(s.items, vs...)
}

// Items returns a copy of the elements. The elements themselves are shared.
func (s *Sequence) Items() []Value {
	return slices.Clone(s.items)
}
