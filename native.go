// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clone

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"time"
)

// FromNative converts a plain Go value into a [Value].
//
// Supported: nil, bool, signed and unsigned integers that fit in int64,
// float32/float64, string, time.Time, *regexp.Regexp, []any, map[string]any,
// map[any]any with string keys, and values that already implement [Value]
// (returned as is). Map keys become record fields in sorted order.
// Maps and slices reached more than once become one shared composite, so
// cyclic native graphs convert to cyclic values.
func FromNative(x any) (Value, error) {
	c := &nativeConverter{seen: make(map[nativeID]Value)}
	return c.from(x)
}

// nativeID identifies a native map or slice by its backing storage.
type nativeID struct {
	kind reflect.Kind
	ptr  uintptr
	len  int
}

type nativeConverter struct {
	seen map[nativeID]Value
}

func (c *nativeConverter) from(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int(v), nil
	case int16:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint:
		return fromUnsigned(uint64(v))
	case uint8:
		return Int(v), nil
	case uint16:
		return Int(v), nil
	case uint32:
		return Int(v), nil
	case uint64:
		return fromUnsigned(v)
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case time.Time:
		return NewTimestamp(v), nil
	case *regexp.Regexp:
		if v == nil {
			return Null{}, nil
		}
		return ParsePattern(v.String())
	case []any:
		return c.fromSlice(v)
	case map[string]any:
		if v == nil {
			return NewRecord(), nil
		}
		id := nativeID{kind: reflect.Map, ptr: reflect.ValueOf(v).Pointer()}
		if r, ok := c.seen[id]; ok {
			return r, nil
		}
		r := NewRecord()
		c.seen[id] = r
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fv, err := c.from(v[k])
			if err != nil {
				return nil, err
			}
			r.Set(k, fv)
		}
		return r, nil
	case map[any]any:
		if v == nil {
			return NewRecord(), nil
		}
		id := nativeID{kind: reflect.Map, ptr: reflect.ValueOf(v).Pointer()}
		if r, ok := c.seen[id]; ok {
			return r, nil
		}
		r := NewRecord()
		c.seen[id] = r
		keys := make([]string, 0, len(v))
		for k := range v {
			s, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("clone: %w: map key %T", ErrUnsupportedKind, k)
			}
			keys = append(keys, s)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fv, err := c.from(v[k])
			if err != nil {
				return nil, err
			}
			r.Set(k, fv)
		}
		return r, nil
	default:
		return nil, unsupported(x)
	}
}

func (c *nativeConverter) fromSlice(v []any) (Value, error) {
	if len(v) == 0 {
		return NewSequence(), nil
	}
	id := nativeID{kind: reflect.Slice, ptr: reflect.ValueOf(v).Pointer(), len: len(v)}
	if s, ok := c.seen[id]; ok {
		return s, nil
	}
	s := &Sequence{items: make([]Value, len(v))}
	c.seen[id] = s
	for i, item := range v {
		iv, err := c.from(item)
		if err != nil {
			return nil, err
		}
		s.items[i] = iv
	}
	return s, nil
}

func fromUnsigned(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("clone: %w: %d overflows int64", ErrUnsupportedKind, u)
	}
	return Int(u), nil
}

// ToNative converts v into plain Go values: nil, bool, int64, float64,
// string, time.Time, *regexp.Regexp, []any and map[string]any.
// Only own record fields are kept. A composite shared by several positions
// is converted separately at each one. Cyclic values fail with [ErrCycle].
func ToNative(v Value) (any, error) {
	return toNative(v, make(map[Value]struct{}))
}

func toNative(v Value, path map[Value]struct{}) (any, error) {
	switch x := v.(type) {
	case nil, Null:
		return nil, nil
	case Bool:
		return bool(x), nil
	case Int:
		return int64(x), nil
	case Float:
		return float64(x), nil
	case String:
		return string(x), nil
	case *Pattern:
		if x == nil {
			return nil, nil
		}
		return x.Regexp(), nil
	case *Timestamp:
		if x == nil {
			return nil, nil
		}
		return x.t, nil
	case *Sequence:
		if x == nil {
			return nil, nil
		}
		if _, ok := path[x]; ok {
			return nil, fmt.Errorf("clone: %w: sequence refers to itself", ErrCycle)
		}
		path[x] = struct{}{}
		defer delete(path, x)
		out := make([]any, len(x.items))
		for i, item := range x.items {
			n, err := toNative(item, path)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *Record:
		if x == nil {
			return nil, nil
		}
		if _, ok := path[x]; ok {
			return nil, fmt.Errorf("clone: %w: record refers to itself", ErrCycle)
		}
		path[x] = struct{}{}
		defer delete(path, x)
		out := make(map[string]any, len(x.keys))
		for _, k := range x.keys {
			n, err := toNative(x.fields[k], path)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return nil, unsupported(v)
	}
}
