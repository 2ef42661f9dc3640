// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

import "slices"

// Record is a mutable keyed collection of named fields with an optional
// prototype. Fields set on the record are its own fields; [Record.Lookup]
// falls back to the prototype chain, the other accessors do not.
// Own fields keep insertion order. Its identity is its pointer.
//
// The prototype is fixed at construction, so prototype chains are acyclic.
type Record struct {
	keys   []string
	fields map[string]Value
	proto  *Record
}

func (*Record) value() {}

// NewRecord returns an empty record without a prototype.
func NewRecord() *Record {
	return &Record{fields: make(map[string]Value)}
}

// Extend returns an empty record whose prototype is proto.
// A nil proto is the same as [NewRecord].
func Extend(proto *Record) *Record {
	r := NewRecord()
	r.proto = proto
	return r
}

// newRecordSized is NewRecord with capacity for n own fields.
func newRecordSized(proto *Record, n int) *Record {
	return &Record{
		keys:   make([]string, 0, n),
		fields: make(map[string]Value, n),
		proto:  proto,
	}
}

// Proto returns the prototype, or nil.
func (r *Record) Proto() *Record { return r.proto }

// Len returns the number of own fields.
func (r *Record) Len() int { return len(r.keys) }

// Keys returns the own field names in insertion order.
func (r *Record) Keys() []string { return slices.Clone(r.keys) }

// Set assigns an own field. A new key is appended to the key order;
// an existing key keeps its position.
func (r *Record) Set(key string, v Value) {
	if r.fields == nil {
		r.fields = make(map[string]Value)
	}
	if _, ok := r.fields[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.fields[key] = v
}

// Get returns an own field.
func (r *Record) Get(key string) (Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Has reports whether key is an own field.
func (r *Record) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// Lookup returns the field from r or the nearest prototype that defines it.
func (r *Record) Lookup(key string) (Value, bool) {
	for p := r; p != nil; p = p.proto {
		if v, ok := p.fields[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Delete removes an own field. Inherited fields are unaffected.
func (r *Record) Delete(key string) {
	if _, ok := r.fields[key]; !ok {
		return
	}
	delete(r.fields, key)
	if i := slices.Index(r.keys, key); i >= 0 {
		r.keys = slices.Delete(r.keys, i, i+1)
	}
}

// Inherits reports whether proto appears in r's prototype chain.
// A record does not inherit from itself.
func (r *Record) Inherits(proto *Record) bool {
	if proto == nil {
		return false
	}
	for p := r.proto; p != nil; p = p.proto {
		if p == proto {
			return true
		}
	}
	return false
}
