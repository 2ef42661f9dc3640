// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

import "fmt"

// frame is a pending fill: dst was allocated and registered for src, but its
// fields have not been copied yet. src and dst are both *Sequence or both
// *Record. Holding pointers in the interfaces keeps frames allocation-free.
type frame struct {
	src   Value
	dst   Value
	depth int
}

// pass is the state of one top-level clone call.
type pass struct {
	// visited maps a source composite, by pointer identity, to its copy.
	visited  map[Value]Value
	stack    []frame
	stats    Stats
	maxNodes int
}

// clone copies v. Composites are allocated and registered before any of
// their fields are visited, then filled iteratively from the stack, so the
// Go stack does not grow with input depth.
func (p *pass) clone(v Value) (Value, error) {
	out, err := p.visit(v, 0)
	if err != nil {
		return nil, err
	}
	for len(p.stack) > 0 {
		f := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		if err := p.fill(f); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// visit returns the copy of v found at the given parent depth.
// Composites come back allocated and registered; their fill is deferred.
func (p *pass) visit(v Value, depth int) (Value, error) {
	switch x := v.(type) {
	case nil, Null, Bool, Int, Float, String:
		p.stats.Primitives++
		return v, nil
	case *Pattern:
		if x == nil {
			return x, nil
		}
		p.stats.Patterns++
		// Compiled programs are immutable; only the Pattern is new.
		return &Pattern{text: x.text, flags: x.flags, re: x.re}, nil
	case *Timestamp:
		if x == nil {
			return x, nil
		}
		p.stats.Timestamps++
		return &Timestamp{t: x.t}, nil
	case *Sequence:
		if x == nil {
			return x, nil
		}
		if dst, ok := p.visited[x]; ok {
			p.stats.Shared++
			return dst, nil
		}
		if err := p.reserve(); err != nil {
			return nil, err
		}
		dst := &Sequence{items: make([]Value, len(x.items))}
		p.register(x, dst, depth+1)
		return dst, nil
	case *Record:
		if x == nil {
			return x, nil
		}
		if dst, ok := p.visited[x]; ok {
			p.stats.Shared++
			return dst, nil
		}
		if err := p.reserve(); err != nil {
			return nil, err
		}
		dst := newRecordSized(x.proto, len(x.keys))
		p.register(x, dst, depth+1)
		return dst, nil
	default:
		return nil, unsupported(v)
	}
}

func (p *pass) reserve() error {
	if p.maxNodes > 0 && p.stats.Composites >= p.maxNodes {
		return fmt.Errorf("clone: %w: more than %d composites", ErrLimitExceeded, p.maxNodes)
	}
	p.stats.Composites++
	return nil
}

// register records dst as the copy of src and schedules its fill.
// Registration precedes the fill so back-references resolve to dst.
func (p *pass) register(src, dst Value, depth int) {
	p.visited[src] = dst
	p.stack = append(p.stack, frame{src: src, dst: dst, depth: depth})
	if depth > p.stats.Depth {
		p.stats.Depth = depth
	}
}

func (p *pass) fill(f frame) error {
	switch src := f.src.(type) {
	case *Sequence:
		dst := f.dst.(*Sequence)
		for i, item := range src.items {
			v, err := p.visit(item, f.depth)
			if err != nil {
				return err
			}
			dst.items[i] = v
		}
	case *Record:
		dst := f.dst.(*Record)
		for _, key := range src.keys {
			v, err := p.visit(src.fields[key], f.depth)
			if err != nil {
				return err
			}
			dst.keys = append(dst.keys, key)
			dst.fields[key] = v
		}
	default:
		panic("clone: unknown frame source")
	}
	return nil
}
