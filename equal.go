// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

// Equal reports whether a and b are structurally equal: same kinds, equal
// primitives, patterns with equal text and flags, timestamps at the same
// instant, sequences with pairwise equal elements, and records with the same
// own keys (in any order), pairwise equal fields and equal prototypes.
// Cycles are handled; a pair already under comparison is assumed equal.
// NaN floats compare equal to NaN.
func Equal(a, b Value) bool {
	return newComparer(false).run(a, b)
}

// SameShape reports whether a and b are [Equal] and alias the same way:
// two positions hold one composite in a exactly when they hold one
// composite in b. A clone always has the same shape as its source.
func SameShape(a, b Value) bool {
	return newComparer(true).run(a, b)
}

type pair struct{ a, b Value }

type comparer struct {
	shape bool
	seen  map[pair]struct{}
	fwd   map[Value]Value
	bwd   map[Value]Value
	stack []pair
}

func newComparer(shape bool) *comparer {
	c := &comparer{shape: shape}
	if shape {
		c.fwd = make(map[Value]Value)
		c.bwd = make(map[Value]Value)
	} else {
		c.seen = make(map[pair]struct{})
	}
	return c
}

func (c *comparer) run(a, b Value) bool {
	c.stack = append(c.stack, pair{a, b})
	for len(c.stack) > 0 {
		p := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if !c.step(p.a, p.b) {
			return false
		}
	}
	return true
}

// step compares one pair, pushing composite children for later.
func (c *comparer) step(a, b Value) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb || ka == Invalid {
		return false
	}
	switch x := a.(type) {
	case nil, Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Int:
		return x == b.(Int)
	case Float:
		y := b.(Float)
		return x == y || (x != x && y != y)
	case String:
		return x == b.(String)
	case *Pattern:
		y := b.(*Pattern)
		if x == nil || y == nil {
			return x == y
		}
		return x.text == y.text && x.flags == y.flags
	case *Timestamp:
		y := b.(*Timestamp)
		if x == nil || y == nil {
			return x == y
		}
		return x.t.Equal(y.t)
	case *Sequence:
		y := b.(*Sequence)
		if x == nil || y == nil {
			return x == y
		}
		visited, ok := c.enter(x, y)
		if !ok {
			return false
		}
		if visited {
			return true
		}
		if len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			c.stack = append(c.stack, pair{x.items[i], y.items[i]})
		}
		return true
	case *Record:
		y := b.(*Record)
		if x == nil || y == nil {
			return x == y
		}
		visited, ok := c.enter(x, y)
		if !ok {
			return false
		}
		if visited {
			return true
		}
		if len(x.keys) != len(y.keys) {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.fields[k]
			if !ok {
				return false
			}
			c.stack = append(c.stack, pair{x.fields[k], yv})
		}
		switch {
		case x.proto == y.proto:
		case x.proto == nil || y.proto == nil:
			return false
		default:
			// Prototypes compare structurally but do not take part in the
			// aliasing check; clones share them with their source.
			if !Equal(x.proto, y.proto) {
				return false
			}
		}
		return true
	}
	return false
}

// enter marks the composite pair (x, y) as under comparison.
// visited is true when the pair was entered before; ok is false when the
// pair breaks the aliasing bijection.
func (c *comparer) enter(x, y Value) (visited, ok bool) {
	if !c.shape {
		k := pair{x, y}
		if _, seen := c.seen[k]; seen {
			return true, true
		}
		c.seen[k] = struct{}{}
		return false, true
	}
	fx, okx := c.fwd[x]
	by, oky := c.bwd[y]
	switch {
	case okx && oky:
		return true, fx == y && by == x
	case okx || oky:
		return true, false
	}
	c.fwd[x] = y
	c.bwd[y] = x
	return false, true
}

// Disjoint reports whether no sequence, record, pattern or timestamp
// reachable from a through own fields is also reachable from b.
// Prototypes are not part of a value and are not considered.
func Disjoint(a, b Value) bool {
	ours := make(map[Value]struct{})
	walk(a, func(v Value) bool {
		ours[v] = struct{}{}
		return true
	})
	disjoint := true
	walk(b, func(v Value) bool {
		if _, ok := ours[v]; ok {
			disjoint = false
			return false
		}
		return true
	})
	return disjoint
}

// walk calls fn once for every non-nil pointer value reachable from root
// through own fields, until fn returns false.
func walk(root Value, fn func(Value) bool) {
	seen := make(map[Value]struct{})
	stack := []Value{root}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch x := v.(type) {
		case *Pattern:
			if x == nil {
				continue
			}
		case *Timestamp:
			if x == nil {
				continue
			}
		case *Sequence:
			if x == nil {
				continue
			}
			if _, ok := seen[x]; ok {
				continue
			}
			seen[x] = struct{}{}
			stack = append(stack, x.items...)
		case *Record:
			if x == nil {
				continue
			}
			if _, ok := seen[x]; ok {
				continue
			}
			seen[x] = struct{}{}
			for _, k := range x.keys {
				stack = append(stack, x.fields[k])
			}
		default:
			continue
		}
		if !fn(v) {
			return
		}
	}
}
